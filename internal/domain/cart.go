package domain

// CartLine is one position of the sale being built. StockCeiling is a
// copy of the product stock observed when the line was created; the
// quantity may never exceed it.
type CartLine struct {
	ProductID    int     `json:"product_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	StockCeiling int     `json:"stock_ceiling"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Cart holds the in-progress, unpersisted sale. Lines keep insertion
// order and are unique per product. All mutating operations are total:
// a transition the stock ceiling forbids is a no-op, not an error,
// because the UI disables those actions anyway.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID int) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of the product into the cart. A zero-stock product
// cannot be added; an existing line grows only while below its ceiling.
func (c *Cart) Add(product Product) {
	if i := c.find(product.ID); i >= 0 {
		if c.lines[i].Quantity < c.lines[i].StockCeiling {
			c.lines[i].Quantity++
		}
		return
	}
	if product.Stock <= 0 {
		return
	}
	c.lines = append(c.lines, CartLine{
		ProductID:    product.ID,
		Name:         product.Name,
		UnitPrice:    product.Price,
		Quantity:     1,
		StockCeiling: product.Stock,
	})
}

func (c *Cart) Increase(productID int) {
	if i := c.find(productID); i >= 0 && c.lines[i].Quantity < c.lines[i].StockCeiling {
		c.lines[i].Quantity++
	}
}

// Decrease drops the quantity by one; at quantity 1 the line is removed
// instead, so a line never holds quantity 0.
func (c *Cart) Decrease(productID int) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Remove(productID int) {
	if i := c.find(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Totals recomputes subtotal, tax and total from the current lines.
// Pure: no side effects, same result until the cart is mutated.
func (c *Cart) Totals() Totals {
	var subtotal float64
	for _, line := range c.lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Lines returns a copy; callers cannot mutate cart state through it.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Items converts the cart into the sale payload submitted to the store.
func (c *Cart) Items() []SaleItem {
	items := make([]SaleItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}
