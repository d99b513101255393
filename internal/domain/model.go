package domain

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// OrderForm is the record submitted to the order endpoint. Monetary fields
// are fixed two-decimal strings.
type OrderForm struct {
	Zipcode  string `json:"zipcode"`
	TaxRate  string `json:"tax_rate"`
	SubTotal string `json:"sub_total"`
	TaxTotal string `json:"tax_total"`
	Total    string `json:"total"`
}

// NewOrderForm computes tax and total for subTotal at taxRate percent.
// The total is taken from the unrounded tax; each figure is then rounded
// half away from zero to cents.
func NewOrderForm(zipcode string, taxRate, subTotal decimal.Decimal) OrderForm {
	taxTotal := taxRate.Shift(-2).Mul(subTotal)
	total := subTotal.Add(taxTotal)
	return OrderForm{
		Zipcode:  zipcode,
		TaxRate:  taxRate.String(),
		SubTotal: subTotal.StringFixed(2),
		TaxTotal: taxTotal.StringFixed(2),
		Total:    total.StringFixed(2),
	}
}

// Values encodes the form for an application/x-www-form-urlencoded body.
func (f OrderForm) Values() url.Values {
	return url.Values{
		"zipcode":   {f.Zipcode},
		"tax_rate":  {f.TaxRate},
		"sub_total": {f.SubTotal},
		"tax_total": {f.TaxTotal},
		"total":     {f.Total},
	}
}

// OrderResult is the order endpoint's reply. A StatusCode of 0 means the
// order was accepted. Fields keeps any other keys the API sent.
type OrderResult struct {
	StatusCode    int            `json:"status_code"`
	StatusMessage string         `json:"status_message"`
	Fields        map[string]any `json:"-"`
}

// Accepted reports whether the API accepted the order.
func (r OrderResult) Accepted() bool { return r.StatusCode == 0 }

// UnmarshalJSON requires status_code to be present; a reply without one is
// not a success.
func (r *OrderResult) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := raw["status_code"]; !ok {
		return fmt.Errorf("status_code missing from order response")
	}

	type plain OrderResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	delete(raw, "status_code")
	delete(raw, "status_message")
	*r = OrderResult(p)
	if len(raw) > 0 {
		r.Fields = raw
	}
	return nil
}

func (r OrderResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["status_code"] = r.StatusCode
	out["status_message"] = r.StatusMessage
	return json.Marshal(out)
}
