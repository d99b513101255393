package application

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abdidvp/taxes/internal/domain"
)

// OrderService runs the two calls of a checkout in order:
// fetch tax rate → build order form → submit order.
type OrderService struct {
	rates  domain.TaxRateProvider
	orders domain.OrderSubmitter
	log    *zap.Logger
}

func NewOrderService(rates domain.TaxRateProvider, orders domain.OrderSubmitter, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{rates: rates, orders: orders, log: log}
}

// TaxRate looks up the tax percentage for an allow-listed zipcode.
func (s *OrderService) TaxRate(ctx context.Context, zipcode string) (decimal.Decimal, error) {
	return s.rates.TaxRate(ctx, zipcode)
}

// Quote fetches the tax rate for req.Zipcode and builds the order form.
// Nothing is submitted.
func (s *OrderService) Quote(ctx context.Context, req domain.OrderRequest) (domain.OrderForm, error) {
	rate, err := s.rates.TaxRate(ctx, req.Zipcode)
	if err != nil {
		return domain.OrderForm{}, err
	}

	form := domain.NewOrderForm(req.Zipcode, rate, req.Subtotal)
	s.log.Debug("order form built",
		zap.String("zipcode", form.Zipcode),
		zap.String("tax_rate", form.TaxRate),
		zap.String("total", form.Total),
	)
	return form, nil
}

// Submit sends a previously quoted form.
func (s *OrderService) Submit(ctx context.Context, form domain.OrderForm) (*domain.OrderResult, error) {
	return s.orders.SubmitOrder(ctx, form)
}

// Checkout quotes and then submits. onQuote, if set, sees the form before
// submission starts; it is called even when submission later fails.
func (s *OrderService) Checkout(
	ctx context.Context,
	req domain.OrderRequest,
	onQuote func(domain.OrderForm),
) (domain.OrderForm, *domain.OrderResult, error) {
	form, err := s.Quote(ctx, req)
	if err != nil {
		return domain.OrderForm{}, nil, err
	}
	if onQuote != nil {
		onQuote(form)
	}

	result, err := s.Submit(ctx, form)
	if err != nil {
		return form, nil, err
	}
	return form, result, nil
}
