package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// TaxRateProvider looks up the sales tax percentage for a zipcode.
type TaxRateProvider interface {
	TaxRate(ctx context.Context, zipcode string) (decimal.Decimal, error)
}

// OrderSubmitter sends a computed order form to the tax service.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, form OrderForm) (*OrderResult, error)
}

// ConfigLoader loads Config from a directory holding .taxes.yaml and .env.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}
