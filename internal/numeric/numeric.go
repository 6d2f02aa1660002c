// Package numeric coerces free-form spreadsheet cells into numbers.
//
// Every function returns an explicit ok flag instead of NaN so callers can
// decide how a missing value is labelled.
package numeric

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// currencyTokens are stripped from amounts before parsing, longest first
var currencyTokens = []string{"US$", "R$", "BRL", "USD", "EUR", "ARS", "CLP", "$", "€"}

// ParseDecimal parses a number written with either a comma or a dot as the
// decimal separator, as found inside product descriptions.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseDeclared parses a declared content cell. Commas are read as decimal
// separators; blanks and anything non-numeric fail.
func ParseDeclared(s string) (float64, bool) {
	d, ok := ParseDecimal(s)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseAmount parses a price or volume cell that may carry currency
// symbols, thousands separators and comma decimals.
func ParseAmount(s string) (float64, bool) {
	d, ok := ParseAmountDecimal(s)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseAmountDecimal is ParseAmount returning the exact decimal value.
//
// Separator rules: when both ',' and '.' occur the last one is the decimal
// separator. A separator that occurs more than once is a thousands
// separator. A single separator is a decimal separator.
func ParseAmountDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	upper := strings.ToUpper(s)
	for _, tok := range currencyTokens {
		upper = strings.ReplaceAll(upper, tok, "")
	}

	var b strings.Builder
	digits := 0
	for _, r := range upper {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			digits++
		case r == ',' || r == '.':
			b.WriteRune(r)
		case r == '-' || r == '+':
			if digits > 0 || b.Len() > 0 {
				return decimal.Zero, false
			}
			if r == '-' {
				negative = !negative
			}
		case unicode.IsSpace(r) || r == ' ' || r == '\'':
			// thousands spacing
		default:
			return decimal.Zero, false
		}
	}
	if digits == 0 {
		return decimal.Zero, false
	}

	normalized, ok := normalizeSeparators(b.String())
	normalized = strings.TrimSuffix(normalized, ".")
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

func normalizeSeparators(s string) (string, bool) {
	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")

	switch {
	case commas > 0 && dots > 0:
		decimalSep, thousandsSep := ",", "."
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			decimalSep, thousandsSep = ".", ","
		}
		if strings.Count(s, decimalSep) > 1 {
			return "", false
		}
		s = strings.ReplaceAll(s, thousandsSep, "")
		return strings.Replace(s, decimalSep, ".", 1), true
	case commas > 1:
		return strings.ReplaceAll(s, ",", ""), true
	case dots > 1:
		return strings.ReplaceAll(s, ".", ""), true
	case commas == 1:
		return strings.Replace(s, ",", ".", 1), true
	default:
		return s, true
	}
}
