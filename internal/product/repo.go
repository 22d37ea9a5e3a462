package product

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const queryTimeout = 5 * time.Second

// Repository is the data-access contract for products. Lookups report
// absence with a nil product, never with an error.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (*Product, error)
	All(ctx context.Context) ([]Product, error)
	FindByName(ctx context.Context, name string) ([]Product, error)
	FindByCategory(ctx context.Context, category Category) ([]Product, error)
	FindByAvailability(ctx context.Context, available bool) ([]Product, error)
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]Product, error)
}

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

// Migrate creates or updates the products table.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&Product{}), "migrate products")
}

// Create inserts p and sets its ID. Any ID already on p is discarded.
func (r *GormRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p.ID = 0
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.Wrapf(err, "create product %q", p.Name)
	}
	return nil
}

// Update overwrites every mutable column of the row matching p.ID.
func (r *GormRepo) Update(ctx context.Context, p *Product) error {
	if p.ID <= 0 {
		return invalid("id", "update called with empty ID field (id=%d)", p.ID)
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"available":   p.Available,
			"category":    p.Category,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update product %d", p.ID)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id. Deleting a missing row is not an error.
func (r *GormRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Delete(&Product{}, id).Error; err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	return nil
}

func (r *GormRepo) Find(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Product
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find product %d", id)
	}
	return &p, nil
}

func (r *GormRepo) All(ctx context.Context) ([]Product, error) {
	return r.list(ctx, "list products", nil)
}

func (r *GormRepo) FindByName(ctx context.Context, name string) ([]Product, error) {
	return r.list(ctx, "find products by name", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("name = ?", name)
	})
}

func (r *GormRepo) FindByCategory(ctx context.Context, category Category) ([]Product, error) {
	return r.list(ctx, "find products by category", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("category = ?", category)
	})
}

func (r *GormRepo) FindByAvailability(ctx context.Context, available bool) ([]Product, error) {
	return r.list(ctx, "find products by availability", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("available = ?", available)
	})
}

func (r *GormRepo) FindByPrice(ctx context.Context, price decimal.Decimal) ([]Product, error) {
	return r.list(ctx, "find products by price", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("price = ?", price)
	})
}

func (r *GormRepo) list(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx := r.db.WithContext(ctx).Model(&Product{})
	if scope != nil {
		tx = tx.Scopes(scope)
	}
	out := []Product{}
	if err := tx.Order("id").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}
