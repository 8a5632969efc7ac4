package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bradykim7/pricecrawl/internal/crawler/sources"
	"go.uber.org/zap"
)

// FallbackPrice is used for prices that are missing or cannot be parsed
const FallbackPrice = 0.0

// nonBreakingSpaces are removed from price text before parsing
var nonBreakingSpaces = []string{"\u00a0", "\u202f", "\u2007"}

var plainNumber = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// PriceNormalizer converts locale formatted price text into numbers
type PriceNormalizer struct {
	currencySymbols []string
	decimal         string
	thousands       string
	log             *zap.Logger
}

// NewPriceNormalizer creates a normalizer using the ruleset's currency symbols and separators
func NewPriceNormalizer(r *sources.Ruleset, log *zap.Logger) *PriceNormalizer {
	return &PriceNormalizer{
		currencySymbols: r.CurrencySymbols,
		decimal:         r.DecimalSeparator,
		thousands:       r.ThousandsSeparator,
		log:             log.Named("price"),
	}
}

// Normalize returns the numeric value of raw, or FallbackPrice if raw is empty or unparsable.
// Unparsable input is logged as a warning.
func (n *PriceNormalizer) Normalize(raw string) float64 {
	price, _ := n.NormalizeWithStatus(raw)
	return price
}

// NormalizeWithStatus is Normalize that also reports whether a warning was raised
func (n *PriceNormalizer) NormalizeWithStatus(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return FallbackPrice, true
	}

	price, ok := n.parse(raw)
	if !ok {
		n.log.Warn("Unable to convert price to float", zap.String("price", raw))
		return FallbackPrice, false
	}
	return price, true
}

func (n *PriceNormalizer) parse(raw string) (float64, bool) {
	s := raw
	for _, symbol := range n.currencySymbols {
		if symbol != "" {
			s = strings.ReplaceAll(s, symbol, "")
		}
	}
	for _, space := range nonBreakingSpaces {
		s = strings.ReplaceAll(s, space, "")
	}
	s = strings.TrimSpace(s)

	intPart, fracPart, hasDecimal := s, "", false
	if i := strings.LastIndex(s, n.decimal); i >= 0 {
		intPart, fracPart, hasDecimal = s[:i], s[i+len(n.decimal):], true
	}
	if n.thousands != "" && isGrouped(intPart, n.thousands) {
		intPart = strings.ReplaceAll(intPart, n.thousands, "")
	}

	s = intPart
	if hasDecimal {
		s += "." + fracPart
	}
	if !plainNumber.MatchString(s) {
		return 0, false
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// isGrouped reports whether s is a digit run split into thousands groups by sep, e.g. "1.234.567"
func isGrouped(s, sep string) bool {
	groups := strings.Split(s, sep)
	if len(groups) < 2 {
		return false
	}
	for i, g := range groups {
		if !isDigits(g) {
			return false
		}
		if i == 0 && (len(g) < 1 || len(g) > 3) {
			return false
		}
		if i > 0 && len(g) != 3 {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
