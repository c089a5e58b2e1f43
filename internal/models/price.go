package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// PriceMaxDigits is the total number of significant digits a price may carry.
	PriceMaxDigits = 5
	// PriceDecimalPlaces is the number of fractional digits a price may carry.
	PriceDecimalPlaces = 2
)

var (
	ErrPriceInvalid       = errors.New("a valid number is required")
	ErrPriceTooManyDigits = fmt.Errorf("ensure that there are no more than %d digits in total", PriceMaxDigits)
	ErrPriceTooManyPlaces = fmt.Errorf("ensure that there are no more than %d decimal places", PriceDecimalPlaces)
	ErrPriceTooManyWhole  = fmt.Errorf("ensure that there are no more than %d digits before the decimal point", PriceMaxDigits-PriceDecimalPlaces)
)

// Price is a fixed-point amount stored in hundredths. It is rendered as a
// decimal string with exactly two fractional digits, e.g. "5.00".
type Price int64

// ParsePrice parses a decimal literal such as "12.5" or "-3.25" and enforces
// the precision limits of the price column.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrPriceInvalid
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrPriceInvalid
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrPriceInvalid
	}

	significant := strings.TrimLeft(whole, "0")
	if len(significant)+len(frac) > PriceMaxDigits {
		return 0, ErrPriceTooManyDigits
	}
	if len(frac) > PriceDecimalPlaces {
		return 0, ErrPriceTooManyPlaces
	}
	if len(significant) > PriceMaxDigits-PriceDecimalPlaces {
		return 0, ErrPriceTooManyWhole
	}

	var cents int64
	if significant != "" {
		n, err := strconv.ParseInt(significant, 10, 64)
		if err != nil {
			return 0, ErrPriceInvalid
		}
		cents = n * 100
	}
	frac += strings.Repeat("0", PriceDecimalPlaces-len(frac))
	n, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrPriceInvalid
	}
	cents += n

	if negative {
		cents = -cents
	}
	return Price(cents), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats the price with two fractional digits.
func (p Price) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the price as a quoted decimal string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return ErrPriceInvalid
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrPriceInvalid
		}
		raw = s
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements sql.Scanner. Postgres hands numeric columns back as text,
// sqlite as an integer or float depending on the stored value.
func (p *Price) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		*p = Price(v * 100)
	case float64:
		*p = Price(math.Round(v * 100))
	case []byte:
		return p.scanText(string(v))
	case string:
		return p.scanText(v)
	case nil:
		*p = 0
	default:
		return fmt.Errorf("cannot scan %T into Price", value)
	}
	return nil
}

func (p *Price) scanText(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("cannot scan %q into Price: %w", s, err)
	}
	*p = Price(math.Round(f * 100))
	return nil
}
