package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern accepts plain digits or digits grouped in threes by commas,
// each with an optional fractional part.
var amountPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d*)?$|^\d*(\.\d*)?$`)

// ValidateZip returns code unchanged when it is on the allow-list.
func ValidateZip(code string, allowList []string) (string, error) {
	if !contains(allowList, code) {
		return "", &ValidationError{
			Field:  "zipcode",
			Reason: fmt.Sprintf("%s is not a valid zipcode. Please use one of %s", code, strings.Join(allowList, ",")),
		}
	}
	return code, nil
}

// ValidateSubtotal parses a subtotal made of digits, commas and periods.
// Commas are only accepted as thousands separators.
func ValidateSubtotal(amount string) (decimal.Decimal, error) {
	invalid := func() (decimal.Decimal, error) {
		return decimal.Zero, &ValidationError{
			Field:  "subtotal",
			Reason: fmt.Sprintf("%s is not a valid number", amount),
		}
	}

	if !amountPattern.MatchString(amount) || strings.Trim(amount, ".") == "" {
		return invalid()
	}

	digits := strings.TrimSuffix(strings.ReplaceAll(amount, ",", ""), ".")
	if strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return invalid()
	}
	return d, nil
}

// OrderRequest is user input that passed validation.
type OrderRequest struct {
	Zipcode  string
	Subtotal decimal.Decimal
}

// NewOrderRequest validates the zipcode against allowList, then the subtotal.
func NewOrderRequest(zipcode, subtotal string, allowList []string) (OrderRequest, error) {
	zip, err := ValidateZip(zipcode, allowList)
	if err != nil {
		return OrderRequest{}, err
	}
	amount, err := ValidateSubtotal(subtotal)
	if err != nil {
		return OrderRequest{}, err
	}
	return OrderRequest{Zipcode: zip, Subtotal: amount}, nil
}
