package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systore/internal/domain"
)

func laptop() domain.Product {
	return domain.Product{ID: 1, Name: "Laptop", Price: 100, Stock: 3}
}

func mouse() domain.Product {
	return domain.Product{ID: 2, Name: "Mouse", Price: 20, Stock: 15}
}

func TestCartAddNewLine(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 3, lines[0].StockCeiling)
	assert.Equal(t, 100.0, lines[0].UnitPrice)
}

func TestCartAddZeroStockIsNoop(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(domain.Product{ID: 9, Name: "Sold out", Price: 5, Stock: 0})

	assert.True(t, cart.Empty())
}

func TestCartQuantityNeverExceedsCeiling(t *testing.T) {
	cart := domain.NewCart()
	p := laptop()

	// Three adds fill the line up to the ceiling, the fourth is a no-op.
	for i := 0; i < 4; i++ {
		cart.Add(p)
	}
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	cart.Increase(p.ID)
	assert.Equal(t, 3, cart.Lines()[0].Quantity)

	totals := cart.Totals()
	assert.InDelta(t, 300.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 57.0, totals.Tax, 1e-9)
	assert.InDelta(t, 357.0, totals.Total, 1e-9)
}

func TestCartIncreaseUnknownProductIsNoop(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())

	cart.Increase(42)
	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}

func TestCartDecreaseRemovesLineAtOne(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())
	cart.Add(laptop())

	cart.Decrease(1)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 1, cart.Lines()[0].Quantity)

	// Quantity never reaches 0: the line disappears instead.
	cart.Decrease(1)
	assert.True(t, cart.Empty())

	cart.Decrease(1)
	assert.True(t, cart.Empty())
}

func TestCartRemove(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())
	cart.Add(mouse())

	cart.Remove(2)
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].ProductID)

	totals := cart.Totals()
	assert.InDelta(t, 100.0, totals.Subtotal, 1e-9)
}

func TestCartTotalsMixedLines(t *testing.T) {
	cart := domain.NewCart()
	p1 := domain.Product{ID: 1, Name: "A", Price: 50, Stock: 10}
	cart.Add(p1)
	cart.Add(p1)
	cart.Add(mouse())

	totals := cart.Totals()
	assert.InDelta(t, 120.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 22.8, totals.Tax, 1e-9)
	assert.InDelta(t, 142.8, totals.Total, 1e-9)
}

func TestCartTotalsIsPure(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())
	cart.Add(mouse())

	first := cart.Totals()
	second := cart.Totals()
	assert.Equal(t, first, second)
	assert.InDelta(t, first.Subtotal*domain.TaxRate, first.Tax, 1e-9)
	assert.InDelta(t, first.Subtotal+first.Tax, first.Total, 1e-9)
}

func TestCartLinesReturnsCopy(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())

	lines := cart.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}

func TestCartItemsPayload(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())
	cart.Add(laptop())
	cart.Add(mouse())

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, domain.SaleItem{ProductID: 1, Quantity: 2, UnitPrice: 100}, items[0])
	assert.Equal(t, domain.SaleItem{ProductID: 2, Quantity: 1, UnitPrice: 20}, items[1])
}

func TestCartClear(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(laptop())
	cart.Clear()

	assert.True(t, cart.Empty())
	assert.InDelta(t, 0.0, cart.Totals().Total, 1e-9)
}
