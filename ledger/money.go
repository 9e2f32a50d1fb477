package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PurchaseTotal computes a property's immutable total cost:
// quantity*rate + GST on that base + other expenses.
func PurchaseTotal(quantity, rate, gstPercent, otherExpenses decimal.Decimal) decimal.Decimal {
	base := quantity.Mul(rate)
	gst := base.Mul(gstPercent).Div(hundred)
	return base.Add(gst).Add(otherExpenses).Round(2)
}

// SaleTotal computes a sale deal's total:
// quantity*rate + GST on that base + other charges - discount.
func SaleTotal(quantity, rate, gstPercent, otherCharges, discount decimal.Decimal) decimal.Decimal {
	base := quantity.Mul(rate)
	gst := base.Mul(gstPercent).Div(hundred)
	return base.Add(gst).Add(otherCharges).Sub(discount).Round(2)
}
