package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in whole pence. Keeping sums in integer pence
// means repeated earnings recomputation can never drift the way binary
// floating point would.
type Amount int64

// currencyMarks strips the symbols the original spreadsheet column carried,
// e.g. "£1.50" or "$1,250.00".
var currencyMarks = strings.NewReplacer("£", "", "$", "", "€", "", ",", "")

// ParseAmount reads a non-negative amount with at most two decimal places.
// An optional leading currency symbol and thousands separators are accepted.
func ParseAmount(value string) (Amount, error) {
	cleaned := strings.TrimSpace(currencyMarks.Replace(value))
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(cleaned, "-") {
		return 0, fmt.Errorf("amount %q must not be negative", value)
	}

	whole, frac, hasFrac := strings.Cut(cleaned, ".")
	if whole == "" {
		whole = "0"
	}
	pounds, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", value, err)
	}

	var pence uint64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("amount %q must have at most two decimal places", value)
		}
		pence, err = strconv.ParseUint(frac, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("parsing amount %q: %w", value, err)
		}
		if len(frac) == 1 {
			pence *= 10
		}
	}

	return Amount(pounds*100 + pence), nil
}

// String renders the amount with exactly two decimal places, e.g. "0.75".
func (a Amount) String() string {
	if a < 0 {
		return "-" + (-a).String()
	}
	return fmt.Sprintf("%d.%02d", a/100, a%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	parsed, err := ParseAmount(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
