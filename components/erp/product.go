package erp

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StockStatus is derived from stock levels and never stored.
type StockStatus string

const (
	StockIn  StockStatus = "In Stock"
	StockLow StockStatus = "Low Stock"
	StockOut StockStatus = "Out of Stock"
)

// DeriveStockStatus classifies a stock level against its minimum.
func DeriveStockStatus(current, minimum int) StockStatus {
	switch {
	case current <= 0:
		return StockOut
	case current <= minimum:
		return StockLow
	default:
		return StockIn
	}
}

// Product is an inventory item.
type Product struct {
	ID           string
	Name         string
	Category     string
	SKU          string
	CurrentStock int
	MinimumStock int
	UnitPrice    decimal.Decimal
	Supplier     string
}

// TotalValue is the stock valuation, current stock times unit price.
func (p Product) TotalValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// Status derives the stock status from current and minimum stock.
func (p Product) Status() StockStatus {
	return DeriveStockStatus(p.CurrentStock, p.MinimumStock)
}

// NeedsReorder reports whether stock is at or below the minimum.
func (p Product) NeedsReorder() bool {
	return p.CurrentStock <= p.MinimumStock
}

type productJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SKU          string          `json:"sku"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Supplier     string          `json:"supplier"`
	Status       StockStatus     `json:"status"`
}

// MarshalJSON includes the derived total value and status.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		SKU:          p.SKU,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		UnitPrice:    p.UnitPrice,
		TotalValue:   p.TotalValue(),
		Supplier:     p.Supplier,
		Status:       p.Status(),
	})
}
