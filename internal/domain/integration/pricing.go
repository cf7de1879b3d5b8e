package integration

import (
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/catalog"
)

// ListingCurrency is the currency every marketplace listing is priced in
const ListingCurrency = "ZAR"

// ListingConditionNew is the condition sent for every listing
const ListingConditionNew = "new"

var hundred = decimal.NewFromInt(100)

// EffectivePrice is the price advertised to a marketplace: the override when
// set, otherwise the product price marked up by MarginPercentage when set,
// otherwise the product price. Marked-up prices are rounded to cents.
// MinPrice and MaxPrice are not applied.
func (pi *ProductIntegration) EffectivePrice(product *catalog.Product) decimal.Decimal {
	if pi.PriceOverride != nil {
		return *pi.PriceOverride
	}
	if pi.MarginPercentage != nil {
		factor := decimal.NewFromInt(1).Add(pi.MarginPercentage.Div(hundred))
		return product.Price.Mul(factor).Round(2)
	}
	return product.Price
}

// Stand-in quantities by stock status. These are not inventory reads.
const (
	quantityInStock    = 100
	quantityLowStock   = 10
	quantityOutOfStock = 0
)

// QuantityForStockStatus maps a coarse stock status to an advertised quantity.
func QuantityForStockStatus(status catalog.StockStatus) int {
	switch status {
	case catalog.StockStatusInStock:
		return quantityInStock
	case catalog.StockStatusLowStock:
		return quantityLowStock
	default:
		return quantityOutOfStock
	}
}

// EffectiveQuantity is the quantity advertised to a marketplace: the override
// when set, otherwise a stand-in derived from the stock status, less
// ReserveQuantity, never below zero.
func (pi *ProductIntegration) EffectiveQuantity(product *catalog.Product) int {
	qty := QuantityForStockStatus(product.StockStatus)
	if pi.QuantityOverride != nil {
		qty = *pi.QuantityOverride
	}
	qty -= pi.ReserveQuantity
	if qty < 0 {
		return 0
	}
	return qty
}
