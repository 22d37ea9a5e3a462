package product

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Category is the fixed set of catalog categories.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

var categoriesByName = map[string]Category{
	"UNKNOWN":    CategoryUnknown,
	"CLOTHS":     CategoryCloths,
	"FOOD":       CategoryFood,
	"HOUSEWARES": CategoryHousewares,
	"AUTOMOTIVE": CategoryAutomotive,
	"TOOLS":      CategoryTools,
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryUnknown,
		CategoryCloths,
		CategoryFood,
		CategoryHousewares,
		CategoryAutomotive,
		CategoryTools,
	}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a category name (any case) to its value.
func ParseCategory(name string) (Category, error) {
	c, ok := categoriesByName[strings.ToUpper(name)]
	if !ok {
		return CategoryUnknown, fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// Value stores the category by name.
func (c Category) Value() (driver.Value, error) {
	name, ok := categoryNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return name, nil
}

func (c *Category) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	case nil:
		*c = CategoryUnknown
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Category", src)
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
