// Package currencyutils parses and formats the amount column of wire statements.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned when the amount cell carries no digits at all.
var ErrEmptyAmount = errors.New("empty amount")

var (
	// currency symbols, ISO codes, blanks and apostrophe thousand separators
	noise          = regexp.MustCompile(`[\p{Sc}\p{L}\s'’]`)
	commaThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	dotThousands   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	plainNumber    = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ParseAmount parses a statement amount into a decimal value.
// It handles formats like "1,234.56", "1.234,56", "1'234.56", "USD 12.00",
// "(45.10)" and "45.10-".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	standardized, negative := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': no digits", amountStr)
	}
	if !plainNumber.MatchString(standardized) {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': malformed number %q", amountStr, standardized)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and thousand separators and
// returns an unsigned number using '.' as decimal separator, plus the sign.
//
// When both ',' and '.' appear the last one is the decimal separator. A lone
// comma followed by exactly three digits is read as a thousands
// separator; otherwise it is the decimal separator. Dots only act as
// thousand separators when there are several of them.
func StandardizeAmount(amountStr string) (string, bool) {
	s := strings.TrimSpace(amountStr)
	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = noise.ReplaceAllString(s, "")

	switch {
	case strings.HasPrefix(s, "-"):
		negative = !negative
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		negative = !negative
		s = s[:len(s)-1]
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if commaThousands.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		}
	case hasDot:
		if dotThousands.MatchString(s) && strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return s, negative
}

// FormatAmount formats an amount with two decimal places and no thousands
// separators, which is the form written to output CSV files.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
