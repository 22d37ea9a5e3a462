// Package product holds the catalog entity, its wire representation and the
// data-access layer that persists it.
package product

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 250
)

// Product is a catalog entry. ID is zero until the store assigns one.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:100;not null;index"`
	Description string          `gorm:"size:250;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Available   bool            `gorm:"not null;index"`
	Category    Category        `gorm:"type:varchar(32);not null;index"`
}

func (Product) TableName() string { return "products" }

func (p Product) String() string {
	id := "None"
	if p.ID != 0 {
		id = fmt.Sprint(p.ID)
	}
	return fmt.Sprintf("<Product %s id=[%s]>", p.Name, id)
}

// Document is the JSON shape of a product.
// swagger:model Product
type Document struct {
	// null until the product is created
	ID          *int64 `json:"id" example:"42"`
	Name        string `json:"name" example:"Fedora"`
	Description string `json:"description" example:"A red hat"`
	Price       string `json:"price" example:"12.50"`
	Available   bool   `json:"available" example:"true"`
	Category    string `json:"category" example:"CLOTHS" enums:"UNKNOWN,CLOTHS,FOOD,HOUSEWARES,AUTOMOTIVE,TOOLS"`
}

// Serialize renders the product for the wire. Price keeps two decimals.
func (p Product) Serialize() Document {
	doc := Document{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(pricePlaces),
		Available:   p.Available,
		Category:    p.Category.String(),
	}
	if p.ID != 0 {
		id := p.ID
		doc.ID = &id
	}
	return doc
}

// Deserialize fills the mutable fields from a decoded JSON object. The id is
// never taken from the payload. On error the product is left untouched.
func (p *Product) Deserialize(data map[string]any) error {
	if data == nil {
		return invalid("body", "payload must be a JSON object")
	}

	raw, ok := data["name"]
	if !ok || raw == nil {
		return invalid("name", "missing")
	}
	name, ok := raw.(string)
	if !ok {
		return invalid("name", "must be a string, got %T", raw)
	}
	if strings.TrimSpace(name) == "" {
		return invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return invalid("name", "longer than %d characters", maxNameLen)
	}

	var description string
	if raw, ok := data["description"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return invalid("description", "must be a string, got %T", raw)
		}
		if utf8.RuneCountInString(s) > maxDescriptionLen {
			return invalid("description", "longer than %d characters", maxDescriptionLen)
		}
		description = s
	}

	raw, ok = data["price"]
	if !ok {
		return invalid("price", "missing")
	}
	price, err := ParsePrice(raw)
	if err != nil {
		return invalid("price", "%v", err)
	}

	var available bool
	if raw, ok := data["available"]; ok {
		b, ok := raw.(bool)
		if !ok {
			return invalid("available", "must be a boolean, got %T", raw)
		}
		available = b
	}

	category := CategoryUnknown
	if raw, ok := data["category"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return invalid("category", "must be a string, got %T", raw)
		}
		category, err = ParseCategory(s)
		if err != nil {
			return invalid("category", "%v", err)
		}
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Available = available
	p.Category = category
	return nil
}
