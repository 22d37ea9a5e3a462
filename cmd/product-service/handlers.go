package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/MikeMC777/product-catalog/docs"
	"github.com/MikeMC777/product-catalog/internal/httpx"
	"github.com/MikeMC777/product-catalog/internal/product"
)

const jsonContentType = "application/json"

//go:embed static/index.html
var indexHTML []byte

func newRouter(repo product.Repository, baseURL string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(logger), httpx.Recovery(logger))

	r.GET("/health", healthHandler)
	r.GET("/", indexHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/products", listProductsHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))
	r.POST("/products", httpx.RequireContentType(jsonContentType), createProductHandler(repo, baseURL))
	r.PUT("/products/:id", httpx.RequireContentType(jsonContentType), updateProductHandler(repo))
	r.DELETE("/products/:id", deleteProductHandler(repo))
	return r
}

// healthHandler godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /health [get]
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "OK"})
}

func indexHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// listProductsHandler godoc
// @Summary      List products
// @Description  At most one filter is applied, in the order name, category, available, price.
// @Tags         products
// @Produce      json
// @Param        name       query  string  false  "exact, case-sensitive name"
// @Param        category   query  string  false  "category name, any case"
// @Param        available  query  string  false  "true/1/t/y/yes or false/0/f/n/no"
// @Param        price      query  string  false  "exact price, e.g. 12.50"
// @Success      200  {array}   product.Document
// @Failure      400  {object}  httpx.HTTPError
// @Router       /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		zap.S().Info("Request to Get all Products...")
		ctx := c.Request.Context()

		name := c.Query("name")
		category := c.Query("category")
		available := c.Query("available")
		price := c.Query("price")
		zap.S().Infof("name=%s category=%s available=%s price=%s", name, category, available, price)

		var (
			products []product.Product
			err      error
		)
		switch {
		case name != "":
			products, err = repo.FindByName(ctx, name)
		case category != "":
			cat, perr := product.ParseCategory(category)
			if perr != nil {
				httpx.Abort(c, http.StatusBadRequest, perr.Error())
				return
			}
			products, err = repo.FindByCategory(ctx, cat)
		case available != "":
			b, perr := product.ParseBool(available)
			if perr != nil {
				httpx.Abort(c, http.StatusBadRequest, perr.Error())
				return
			}
			products, err = repo.FindByAvailability(ctx, b)
		case price != "":
			d, perr := product.ParsePrice(price)
			if perr != nil {
				httpx.Abort(c, http.StatusBadRequest, perr.Error())
				return
			}
			products, err = repo.FindByPrice(ctx, d)
		default:
			products, err = repo.All(ctx)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]product.Document, 0, len(products))
		for _, p := range products {
			out = append(out, p.Serialize())
		}
		c.JSON(http.StatusOK, out)
	}
}

// getProductHandler godoc
// @Summary  Read a product
// @Tags     products
// @Produce  json
// @Param    id   path      int  true  "Product ID"
// @Success  200  {object}  product.Document
// @Failure  404  {object}  httpx.HTTPError
// @Router   /products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		zap.S().Info("Request to Get a Product...")
		p, ok := findOr404(c, repo)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, p.Serialize())
	}
}

// createProductHandler godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    product  body      product.Document  true  "Product to create; id is ignored"
// @Success  201      {object}  product.Document
// @Header   201      {string}  Location  "URL of the new product"
// @Failure  400      {object}  httpx.HTTPError
// @Failure  415      {object}  httpx.HTTPError
// @Router   /products [post]
func createProductHandler(repo product.Repository, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		zap.S().Info("Request to Create a Product...")
		data, err := decodeObject(c)
		if err != nil {
			httpx.Abort(c, http.StatusBadRequest, err.Error())
			return
		}
		zap.S().Infof("Processing: %v", data)

		var p product.Product
		if err := p.Deserialize(data); err != nil {
			respondError(c, err)
			return
		}
		if err := repo.Create(c.Request.Context(), &p); err != nil {
			respondError(c, err)
			return
		}
		zap.S().Infof("Product with new id [%d] saved!", p.ID)

		c.Header("Location", productURL(c, baseURL, p.ID))
		c.JSON(http.StatusCreated, p.Serialize())
	}
}

// updateProductHandler godoc
// @Summary  Update a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    id       path      int               true  "Product ID"
// @Param    product  body      product.Document  true  "New field values"
// @Success  200      {object}  product.Document
// @Failure  400      {object}  httpx.HTTPError
// @Failure  404      {object}  httpx.HTTPError
// @Failure  415      {object}  httpx.HTTPError
// @Router   /products/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		zap.S().Info("Request to Update a Product...")
		p, ok := findOr404(c, repo)
		if !ok {
			return
		}

		data, err := decodeObject(c)
		if err != nil {
			httpx.Abort(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := p.Deserialize(data); err != nil {
			respondError(c, err)
			return
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				notFound(c, c.Param("id"))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p.Serialize())
	}
}

// deleteProductHandler godoc
// @Summary  Delete a product
// @Tags     products
// @Param    id  path  int  true  "Product ID"
// @Success  204
// @Router   /products/{id} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		zap.S().Info("Request to Delete a Product...")
		// an id that cannot be parsed names no product, so there is nothing to delete
		if id, err := strconv.ParseInt(c.Param("id"), 10, 64); err == nil {
			if err := repo.Delete(c.Request.Context(), id); err != nil {
				respondError(c, err)
				return
			}
		}
		c.Status(http.StatusNoContent)
	}
}

// findOr404 loads the product named by the :id path parameter, writing a
// 404 when it does not exist.
func findOr404(c *gin.Context, repo product.Repository) (*product.Product, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		notFound(c, raw)
		return nil, false
	}
	p, err := repo.Find(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if p == nil {
		notFound(c, raw)
		return nil, false
	}
	return p, true
}

func notFound(c *gin.Context, id string) {
	zap.S().Error("Product not found.")
	httpx.Abort(c, http.StatusNotFound, fmt.Sprintf("Product Id not found %s", id))
}

// respondError maps validation failures to 400 and everything else to 500.
func respondError(c *gin.Context, err error) {
	if product.IsValidation(err) {
		httpx.Abort(c, http.StatusBadRequest, err.Error())
		return
	}
	zap.S().Errorw("request failed", "rid", httpx.GetRequestID(c), "error", err)
	httpx.Abort(c, http.StatusInternalServerError, "internal server error")
}

// decodeObject reads the request body as a single JSON object, keeping
// numbers as json.Number so prices are not rounded through float64.
func decodeObject(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %v", err)
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("request body must be a JSON object, got %T", body)
	}
	return obj, nil
}

func productURL(c *gin.Context, baseURL string, id int64) string {
	if baseURL == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		baseURL = scheme + "://" + c.Request.Host
	}
	return fmt.Sprintf("%s/products/%d", strings.TrimRight(baseURL, "/"), id)
}
