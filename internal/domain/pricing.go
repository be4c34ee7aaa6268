package domain

import "github.com/shopspring/decimal"

// DefaultPriceRatio is the fallback applied when a customer has no
// configured ratio, or a zero/negative ratio reaches the transform. It is
// the single named home for the value; call sites must not repeat it.
var DefaultPriceRatio = decimal.NewFromInt(20)

// BasePrice converts a customer-facing price into the internal base-cost
// price. A ratio of 1 means the customer pays base cost; ratios above 1 mean
// markup. The transform is pure: base price depends only on the two inputs,
// and is monotonically increasing in customerPrice for a fixed ratio.
func BasePrice(customerPrice, priceRatio decimal.Decimal) decimal.Decimal {
	if priceRatio.Sign() <= 0 {
		priceRatio = DefaultPriceRatio
	}

	return customerPrice.Div(priceRatio).Round(2)
}

// EffectivePriceRatio normalizes a possibly-unset per-customer ratio.
func EffectivePriceRatio(ratio decimal.Decimal) decimal.Decimal {
	if ratio.Sign() <= 0 {
		return DefaultPriceRatio
	}
	return ratio
}
