package product

import (
	"strings"

	"github.com/MikeMC777/choco-delisias/internal/money"
)

// Product is a catalog entry. Price is the current list price.
// swagger:model
type Product struct {
	ID          int64       `json:"id"          example:"7"`
	CategoryID  int64       `json:"categoryId"  example:"2"`
	Category    string      `json:"category"    example:"Trufas"`
	Name        string      `json:"name"        example:"Trufa de maracuyá"`
	Description string      `json:"description,omitempty"`
	Price       money.Minor `json:"price"       swaggertype:"string" example:"2.50"`
	Image       string      `json:"image"       example:"https://cdn.chocodelisias.pe/trufa-maracuya.png"`
}

// WithImageBase resolves a relative image path against base.
func (p Product) WithImageBase(base string) Product {
	if base == "" || p.Image == "" || strings.HasPrefix(p.Image, "http://") || strings.HasPrefix(p.Image, "https://") {
		return p
	}
	p.Image = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p.Image, "/")
	return p
}

// CategoryGroup is the grouped listing the mobile app renders per tab.
// The "productos" key is what existing clients read.
// swagger:model
type CategoryGroup struct {
	Category  string    `json:"category"  example:"Trufas"`
	Productos []Product `json:"productos"`
}

// GroupByCategory groups products keeping the order in which categories first appear.
func GroupByCategory(products []Product) []CategoryGroup {
	out := make([]CategoryGroup, 0)
	idx := make(map[int64]int)
	for _, p := range products {
		i, ok := idx[p.CategoryID]
		if !ok {
			i = len(out)
			idx[p.CategoryID] = i
			out = append(out, CategoryGroup{Category: p.Category, Productos: []Product{}})
		}
		out[i].Productos = append(out[i].Productos, p)
	}
	return out
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
	// Stable machine code
	// example: product_not_found
	Code string `json:"code"`
}
