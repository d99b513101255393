// Package taxapi talks to the remote tax service: it looks up tax rates and
// submits order forms, both over basic-authenticated HTTP.
package taxapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abdidvp/taxes/internal/domain"
)

const (
	taxPath   = "/tax"
	orderPath = "/order"
)

// ErrMissingCredentials is returned by New when the config has no basic auth pair.
var ErrMissingCredentials = errors.New("API credentials missing: set TAXES_API_USER and TAXES_API_TOKEN")

// Client implements domain.TaxRateProvider and domain.OrderSubmitter.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New creates a Client for cfg.APIURL. Requests are never retried.
func New(cfg domain.Config, log *zap.Logger) (*Client, error) {
	if !cfg.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if log == nil {
		log = zap.NewNop()
	}

	baseURL := strings.TrimRight(cfg.APIURL, "/")
	if strings.HasPrefix(strings.ToLower(baseURL), "http://") {
		log.Warn("sending basic auth credentials over plain http", zap.String("api_url", baseURL))
	}

	// resty's own insecure-auth warning would repeat on every request.
	rc := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetHeader("Accept", "application/json").
		SetLogger(log.Sugar()).
		SetDisableWarn(true).
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	return &Client{http: rc, log: log}, nil
}

type taxRateResponse struct {
	TaxRate *decimal.Decimal `json:"tax_rate"`
}

// TaxRate fetches the tax percentage for zipcode. The API may encode the
// rate as a JSON number or a numeric string.
func (c *Client) TaxRate(ctx context.Context, zipcode string) (decimal.Decimal, error) {
	c.log.Debug("requesting tax rate", zap.String("path", taxPath), zap.String("zipcode", zipcode))

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("zipcode", zipcode).
		Get(taxPath)
	if err != nil {
		return decimal.Zero, &domain.APIError{Message: domain.MsgTaxRateTransport, Err: err}
	}

	c.log.Debug("tax rate response", zap.Int("status", resp.StatusCode()))

	if resp.StatusCode() != http.StatusOK {
		return decimal.Zero, &domain.APIError{
			Message:       domain.MsgTaxRateRejected,
			StatusCode:    resp.StatusCode(),
			StatusMessage: statusText(resp),
		}
	}

	var body taxRateResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decimal.Zero, &domain.APIError{
			Message: domain.MsgTaxRateRejected,
			Err:     errors.Wrap(err, "decoding tax rate response"),
		}
	}
	if body.TaxRate == nil {
		return decimal.Zero, &domain.APIError{
			Message: domain.MsgTaxRateRejected,
			Err:     errors.New("tax_rate missing from response"),
		}
	}

	c.log.Info("tax rate received", zap.String("zipcode", zipcode), zap.String("tax_rate", body.TaxRate.String()))
	return *body.TaxRate, nil
}

// SubmitOrder posts form as a url-encoded body. The reply is decoded whatever
// the HTTP status; only a status_code of 0 counts as success.
func (c *Client) SubmitOrder(ctx context.Context, form domain.OrderForm) (*domain.OrderResult, error) {
	c.log.Debug("submitting order", zap.String("path", orderPath), zap.String("zipcode", form.Zipcode), zap.String("total", form.Total))

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form.Values()).
		Post(orderPath)
	if err != nil {
		return nil, &domain.APIError{Message: domain.MsgOrderTransport, Err: err}
	}

	c.log.Debug("order response", zap.Int("status", resp.StatusCode()))

	var result domain.OrderResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &domain.APIError{
			Message:       domain.MsgOrderRejected,
			StatusCode:    resp.StatusCode(),
			StatusMessage: statusText(resp),
			Err:           errors.Wrap(err, "decoding order response"),
		}
	}

	if !result.Accepted() {
		c.log.Info("order rejected", zap.Int("status_code", result.StatusCode), zap.String("status_message", result.StatusMessage))
		return nil, &domain.APIError{Message: domain.MsgOrderRejected, Result: &result}
	}

	c.log.Info("order accepted", zap.String("status_message", result.StatusMessage))
	return &result, nil
}

// statusText strips the numeric prefix resty keeps on Status ("500 Internal
// Server Error" becomes "Internal Server Error").
func statusText(resp *resty.Response) string {
	status := resp.Status()
	if _, text, ok := strings.Cut(status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode())
}
