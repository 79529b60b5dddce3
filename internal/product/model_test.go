package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCategory_KeepsCategoryOrder(t *testing.T) {
	products := []Product{
		{ID: 1, CategoryID: 3, Category: "Bombones", Name: "Bombón clásico"},
		{ID: 2, CategoryID: 1, Category: "Trufas", Name: "Trufa de café"},
		{ID: 3, CategoryID: 3, Category: "Bombones", Name: "Bombón de pecana"},
	}

	groups := GroupByCategory(products)

	require.Len(t, groups, 2)
	assert.Equal(t, "Bombones", groups[0].Category)
	assert.Len(t, groups[0].Productos, 2)
	assert.Equal(t, int64(3), groups[0].Productos[1].ID)
	assert.Equal(t, "Trufas", groups[1].Category)
}

func TestGroupByCategory_Empty(t *testing.T) {
	groups := GroupByCategory(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestWithImageBase(t *testing.T) {
	p := Product{Image: "/img/trufa.png"}
	assert.Equal(t, "https://cdn.example.pe/img/trufa.png", p.WithImageBase("https://cdn.example.pe/").Image)

	abs := Product{Image: "https://other.example/x.png"}
	assert.Equal(t, abs.Image, abs.WithImageBase("https://cdn.example.pe").Image)

	assert.Equal(t, "img/x.png", Product{Image: "img/x.png"}.WithImageBase("").Image)
}
