// Package cart holds the shopping cart: one line per product, totals derived on read.
package cart

import (
	"github.com/MikeMC777/choco-delisias/internal/money"
	"github.com/MikeMC777/choco-delisias/internal/order"
)

// Item is what gets added: the product with its price at the time it was added.
type Item struct {
	ProductID int64
	Name      string
	UnitPrice money.Minor
	Image     string
}

// Line is a cart entry. Quantity is always at least 1.
// swagger:model CartLine
type Line struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	UnitPrice money.Minor `json:"unitPrice" swaggertype:"string" example:"12.50"`
	Quantity  int         `json:"quantity"`
	Image     string      `json:"image"`
}

// Cart keeps lines in insertion order.
// swagger:model
type Cart struct {
	Lines []Line `json:"items"`
}

// Add merges into an existing line for the same product or appends a new one.
// Quantities below 1 count as 1; a line never holds more than
// order.MaxQuantity units.
func (c *Cart) Add(it Item, qty int) {
	qty = clamp(qty)
	for i := range c.Lines {
		if c.Lines[i].ProductID == it.ProductID {
			c.Lines[i].Quantity = clamp(c.Lines[i].Quantity + qty)
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: it.ProductID,
		Name:      it.Name,
		UnitPrice: it.UnitPrice,
		Quantity:  qty,
		Image:     it.Image,
	})
}

func (c *Cart) Remove(productID int64) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

// SetQuantity replaces a line's quantity; q < 1 removes the line.
// Unknown products are ignored.
func (c *Cart) SetQuantity(productID int64, q int) {
	if q < 1 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = clamp(q)
			return
		}
	}
}

func clamp(q int) int {
	switch {
	case q < 1:
		return 1
	case q > order.MaxQuantity:
		return order.MaxQuantity
	}
	return q
}

func (c *Cart) Clear() { c.Lines = nil }

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Total is recomputed from the lines on every call.
func (c *Cart) Total() money.Minor {
	var t money.Minor
	for _, l := range c.Lines {
		t += l.UnitPrice.Times(l.Quantity)
	}
	return t
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// OrderLines converts the cart into ledger lines. Prices are not carried over;
// the ledger re-reads them.
func (c *Cart) OrderLines() []order.Line {
	out := make([]order.Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, order.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// View is the JSON shape returned to clients.
// swagger:model CartView
type View struct {
	Items []Line      `json:"items"`
	Count int         `json:"count"`
	Total money.Minor `json:"total" swaggertype:"string" example:"25.00"`
}

func (c *Cart) View() View {
	items := c.Lines
	if items == nil {
		items = []Line{}
	}
	return View{Items: items, Count: c.Count(), Total: c.Total()}
}
