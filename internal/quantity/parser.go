// Package quantity extracts the packaged quantity from free-text product
// descriptions such as "CAIXA 12X1KG" or "BISCOITO C/3X24".
//
// A Parser is an ordered list of matchers. The first matcher that recognises
// the description wins, so weight and volume patterns always take precedence
// over the unit-count fallbacks.
package quantity

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"skucheck/internal/numeric"
	"skucheck/pkg/contracts/domain"
)

// Matcher names, in default priority order
const (
	RuleMultiBlock   = "multi_block"
	RuleTriple       = "triple"
	RuleDouble       = "double"
	RuleBare         = "bare"
	RuleUnitPack     = "unit_pack"
	RuleContainsMult = "contains_mult"
	RuleContainsQty  = "contains_qty"
	RuleBareMult     = "bare_mult"
	RuleLastInteger  = "last_integer"
)

const (
	number    = `(\d+(?:[.,]\d+)?)`
	massUnit  = `(KILOS|KILO|KGS|KG|GRAMAS|GRAMA|GRS|GR|G|ML|LITROS|LITRO|LTS|LT|L)\b`
	packToken = `(?:UNID|UN|CJ|CX|DS|PCT|FD|SC)`
	times     = `\s*[X×]\s*`

	// maxLooseCount bounds the last-integer fallback
	maxLooseCount = 10000
)

var (
	thousand = decimal.NewFromInt(1000)

	// maxNormalized is the largest value an ExtractedQuantity can carry
	maxNormalized = decimal.NewFromInt(math.MaxInt64)

	// unitTokens may not follow a bare multiplication
	unitTokens = map[string]bool{
		"KILOS": true, "KILO": true, "KGS": true, "KG": true,
		"GRAMAS": true, "GRAMA": true, "GRS": true, "GR": true, "G": true,
		"ML": true, "LITROS": true, "LITRO": true, "LTS": true, "LT": true, "L": true,
		"UNIDADES": true, "UNIDADE": true, "UNID": true, "UND": true, "UN": true,
		"CJ": true, "CX": true, "DS": true, "PCT": true, "FD": true, "SC": true,
	}

	// kiloUnits are scaled to grams or millilitres
	kiloUnits = map[string]bool{
		"KG": true, "KGS": true, "KILO": true, "KILOS": true,
		"L": true, "LT": true, "LTS": true, "LITRO": true, "LITROS": true,
	}

	numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// Matcher recognises one quantity pattern
type Matcher struct {
	Name string
	Kind domain.QuantityKind

	re *regexp.Regexp
	// textGroup selects the submatch reported as MatchedText
	textGroup int
	extract   func(groups []string) (decimal.Decimal, bool)
}

// Match applies the matcher to a trimmed description
func (m Matcher) Match(text string) (domain.ExtractedQuantity, bool) {
	loc := m.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return domain.ExtractedQuantity{}, false
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	value, ok := m.extract(groups)
	if !ok || value.GreaterThan(maxNormalized) {
		return domain.ExtractedQuantity{}, false
	}
	return domain.ExtractedQuantity{
		MatchedText: strings.TrimSpace(groups[m.textGroup]),
		Normalized:  value.IntPart(),
		Kind:        m.Kind,
	}, true
}

// Parser evaluates matchers in order
type Parser struct {
	matchers []Matcher
}

// New returns a parser over the given matchers. With no arguments the
// default rule set is used.
func New(matchers ...Matcher) *Parser {
	if len(matchers) == 0 {
		matchers = Matchers()
	}
	return &Parser{matchers: matchers}
}

var defaultParser = New()

// Parse extracts a quantity using the default rule set. It never fails; an
// unrecognised description yields a QuantityKindNone result.
func Parse(description string) domain.ExtractedQuantity {
	return defaultParser.Parse(description)
}

// Parse extracts a quantity from description
func (p *Parser) Parse(description string) domain.ExtractedQuantity {
	text := strings.TrimSpace(description)
	if text == "" {
		return domain.NoQuantity()
	}
	for _, m := range p.matchers {
		if q, ok := m.Match(text); ok {
			return q
		}
	}
	return domain.NoQuantity()
}

// Matchers returns the default rule set in priority order
func Matchers() []Matcher {
	return []Matcher{
		{
			Name:    RuleMultiBlock,
			Kind:    domain.QuantityKindWeightVolume,
			re:      compile(`((?:\d+\s*` + packToken + `?` + times + `)+)` + number + `\s*` + massUnit),
			extract: extractMultiBlock,
		},
		{
			Name: RuleTriple,
			Kind: domain.QuantityKindWeightVolume,
			re:   compile(`(\d+)` + times + `(\d+)` + times + number + `\s*` + massUnit),
			extract: func(g []string) (decimal.Decimal, bool) {
				return product(g[1], g[2], scaled(g[3], g[4]))
			},
		},
		{
			Name: RuleDouble,
			Kind: domain.QuantityKindWeightVolume,
			re:   compile(`(\d+)` + times + number + `\s*` + massUnit),
			extract: func(g []string) (decimal.Decimal, bool) {
				return product(g[1], scaled(g[2], g[3]))
			},
		},
		{
			Name: RuleBare,
			Kind: domain.QuantityKindWeightVolume,
			re:   compile(number + `\s*` + massUnit),
			extract: func(g []string) (decimal.Decimal, bool) {
				return product(scaled(g[1], g[2]))
			},
		},
		{
			Name: RuleUnitPack,
			Kind: domain.QuantityKindUnitCount,
			re:   compile(`(?:(\d+)` + times + `)?(\d+)\s*(?:UNIDADES|UNIDADE|UNID|UND|UN|CJ|CX|DS|PCT|FD|SC)\b`),
			extract: func(g []string) (decimal.Decimal, bool) {
				if g[1] == "" {
					return product(g[2])
				}
				return product(g[1], g[2])
			},
		},
		{
			Name: RuleContainsMult,
			Kind: domain.QuantityKindUnitCount,
			re:   compile(`(?:\bC\s*/|\bCOM\b)\s*(\d+)` + times + `(\d+)\b`),
			extract: func(g []string) (decimal.Decimal, bool) {
				return product(g[1], g[2])
			},
		},
		{
			Name: RuleContainsQty,
			Kind: domain.QuantityKindUnitCount,
			re:   compile(`(?:\bC\s*/|\bCOM\b)\s*(\d{1,4})\b`),
			extract: func(g []string) (decimal.Decimal, bool) {
				return product(g[1])
			},
		},
		{
			Name:      RuleBareMult,
			Kind:      domain.QuantityKindUnitCount,
			re:        compile(`((\d+)` + times + `(\d+))\s*([A-Z]*)`),
			textGroup: 1,
			extract: func(g []string) (decimal.Decimal, bool) {
				if unitTokens[strings.ToUpper(g[4])] {
					return decimal.Zero, false
				}
				return product(g[2], g[3])
			},
		},
		{
			Name:      RuleLastInteger,
			Kind:      domain.QuantityKindUnitCount,
			re:        compile(`(\d+)\D*$`),
			textGroup: 1,
			extract:   extractLastInteger,
		},
	}
}

// Rule returns the default matcher with the given name
func Rule(name string) (Matcher, bool) {
	for _, m := range Matchers() {
		if m.Name == name {
			return m, true
		}
	}
	return Matcher{}, false
}

func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// extractMultiBlock treats every number in the leading block as a multiplier
// of the final quantity.
func extractMultiBlock(g []string) (decimal.Decimal, bool) {
	factors := numberRe.FindAllString(g[1], -1)
	operands := make([]any, 0, len(factors)+1)
	for _, f := range factors {
		operands = append(operands, f)
	}
	operands = append(operands, scaled(g[2], g[3]))
	return product(operands...)
}

func extractLastInteger(g []string) (decimal.Decimal, bool) {
	n, ok := numeric.ParseDecimal(g[1])
	if !ok || !n.IsPositive() || n.GreaterThan(decimal.NewFromInt(maxLooseCount)) {
		return decimal.Zero, false
	}
	return n, true
}

// scaled converts value to grams or millilitres according to unit
func scaled(value, unit string) decimal.Decimal {
	d, ok := numeric.ParseDecimal(value)
	if !ok {
		return decimal.Zero
	}
	if kiloUnits[strings.ToUpper(unit)] {
		return d.Mul(thousand)
	}
	return d
}

// product multiplies operands given either as decimal text or as decimals
func product(operands ...any) (decimal.Decimal, bool) {
	total := decimal.NewFromInt(1)
	for _, op := range operands {
		switch v := op.(type) {
		case decimal.Decimal:
			total = total.Mul(v)
		case string:
			d, ok := numeric.ParseDecimal(v)
			if !ok {
				return decimal.Zero, false
			}
			total = total.Mul(d)
		default:
			return decimal.Zero, false
		}
	}
	return total, true
}
