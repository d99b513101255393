package taxapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdidvp/taxes/internal/adapters/outbound/taxapi"
	"github.com/abdidvp/taxes/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newClient(t *testing.T, url string) *taxapi.Client {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.APIURL = url + "/api"
	cfg.Username = "user"
	cfg.Password = "token"
	c, err := taxapi.New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func assertBasicAuth(t *testing.T, r *http.Request) {
	t.Helper()
	user, pass, ok := r.BasicAuth()
	assert.True(t, ok, "request should carry basic auth")
	assert.Equal(t, "user", user)
	assert.Equal(t, "token", pass)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := taxapi.New(domain.DefaultConfig(), nil)
	assert.ErrorIs(t, err, taxapi.ErrMissingCredentials)
}

func TestTaxRate_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertBasicAuth(t, r)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tax", r.URL.Path)
		assert.Equal(t, "20500", r.URL.Query().Get("zipcode"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tax_rate": 8.5}`)
	}))
	defer srv.Close()

	rate, err := newClient(t, srv.URL).TaxRate(context.Background(), "20500")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("8.5").Equal(rate), "got %s", rate)
}

func TestTaxRate_StringRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tax_rate": "7.25"}`)
	}))
	defer srv.Close()

	rate, err := newClient(t, srv.URL).TaxRate(context.Background(), "20500")
	require.NoError(t, err)
	assert.Equal(t, "7.25", rate.String())
}

func TestTaxRate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).TaxRate(context.Background(), "20500")
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.MsgTaxRateRejected, apiErr.Message)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.StatusMessage)
	assert.Contains(t, err.Error(), "Unable to get tax rate")
}

func TestTaxRate_BadBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `<html>`,
		"missing rate": `{"rate": 8.5}`,
		"null rate":    `{"tax_rate": null}`,
		"bool rate":    `{"tax_rate": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL).TaxRate(context.Background(), "20500")
			var apiErr *domain.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, domain.MsgTaxRateRejected, apiErr.Message)
			assert.Error(t, apiErr.Err)
		})
	}
}

func TestTaxRate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).TaxRate(context.Background(), "20500")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.MsgTaxRateTransport, apiErr.Message)
	assert.Error(t, apiErr.Err)
}

func TestTaxRate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"tax_rate": 8.5}`)
	}))
	defer srv.Close()

	cfg := domain.DefaultConfig()
	cfg.APIURL = srv.URL + "/api"
	cfg.Username, cfg.Password = "user", "token"
	cfg.Timeout = 20 * time.Millisecond
	c, err := taxapi.New(cfg, nil)
	require.NoError(t, err)

	_, err = c.TaxRate(context.Background(), "20500")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.MsgTaxRateTransport, apiErr.Message)
}

func TestSubmitOrder_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertBasicAuth(t, r)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/order", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "20500", r.PostForm.Get("zipcode"))
		assert.Equal(t, "8.5", r.PostForm.Get("tax_rate"))
		assert.Equal(t, "100.00", r.PostForm.Get("sub_total"))
		assert.Equal(t, "8.50", r.PostForm.Get("tax_total"))
		assert.Equal(t, "108.50", r.PostForm.Get("total"))
		fmt.Fprint(w, `{"status_code": 0, "status_message": "Order received", "order_id": 42}`)
	}))
	defer srv.Close()

	form := domain.NewOrderForm("20500", decimal.RequireFromString("8.5"), decimal.NewFromInt(100))
	result, err := newClient(t, srv.URL).SubmitOrder(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Order received", result.StatusMessage)
	assert.Equal(t, float64(42), result.Fields["order_id"])
}

func TestSubmitOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status_code": 1, "status_message": "Total mismatch"}`)
	}))
	defer srv.Close()

	form := domain.NewOrderForm("20500", decimal.RequireFromString("8.5"), decimal.NewFromInt(100))
	result, err := newClient(t, srv.URL).SubmitOrder(context.Background(), form)
	assert.Nil(t, result)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.MsgOrderRejected, apiErr.Message)
	require.NotNil(t, apiErr.Result)
	assert.Equal(t, 1, apiErr.Result.StatusCode)
	assert.Equal(t, "Total mismatch", apiErr.Result.StatusMessage)
	assert.Contains(t, err.Error(), "Unable to submit order")
}

func TestSubmitOrder_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer srv.Close()

	form := domain.NewOrderForm("20500", decimal.RequireFromString("8.5"), decimal.NewFromInt(100))
	_, err := newClient(t, srv.URL).SubmitOrder(context.Background(), form)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.MsgOrderRejected, apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "decoding order response")
}

func TestSubmitOrder_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	form := domain.NewOrderForm("20500", decimal.RequireFromString("8.5"), decimal.NewFromInt(100))
	_, err := newClient(t, url).SubmitOrder(context.Background(), form)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.MsgOrderTransport, apiErr.Message)
}

func TestNew_WarnsOnceForPlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tax_rate": 8.5}`)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	cfg := domain.DefaultConfig()
	cfg.APIURL = srv.URL + "/api"
	cfg.Username = "user"
	cfg.Password = "token"
	c, err := taxapi.New(cfg, zap.New(core))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.TaxRate(context.Background(), "20500")
		require.NoError(t, err)
	}

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "plain http")
	assert.NotContains(t, fmt.Sprint(entries[0].ContextMap()), "token")
}

func TestNew_NoWarningForHTTPS(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := domain.DefaultConfig()
	cfg.Username = "user"
	cfg.Password = "token"
	_, err := taxapi.New(cfg, zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}
