package crawler

import (
	"math"
	"testing"

	"github.com/bradykim7/pricecrawl/internal/crawler/sources"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestNormalizer(r *sources.Ruleset) (*PriceNormalizer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return NewPriceNormalizer(r, zap.New(core)), logs
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Euro suffix", "3,49 €", 3.49},
		{"Euro prefix", "€ 10,50", 10.50},
		{"Leading non-breaking space", "\u00a01,00", 1.00},
		{"Non-breaking space before euro", "1,99\u00a0€", 1.99},
		{"Double-encoded euro", "2,29 â‚¬", 2.29},
		{"Surrounding whitespace", "  \n 0,79 \t", 0.79},
		{"Integer price", "12", 12},
		{"Thousands separator", "1.234,56 €", 1234.56},
		{"Several thousands groups", "1.234.567,00", 1234567},
		{"Dot without grouping is decimal", "1.99", 1.99},
		{"Trailing decimal separator", "5,", 5},
		{"Empty String", "", 0.0},
		{"Whitespace only", "   ", 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, logs := newTestNormalizer(sources.Billa())
			assert.InDelta(t, tc.expected, n.Normalize(tc.input), 1e-9)
			assert.Zero(t, logs.Len())
		})
	}
}

func TestNormalizeFallbackWarnsOnce(t *testing.T) {
	inputs := []string{"abc", "€", "1,2,3", "-1,00", "NaN", "Inf", "1e3", "0x1p3", "1.23.4,00", "12 34"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			n, logs := newTestNormalizer(sources.Billa())

			price, ok := n.NormalizeWithStatus(input)
			assert.Equal(t, FallbackPrice, price)
			assert.False(t, ok)
			assert.False(t, math.IsNaN(price) || math.IsInf(price, 0))

			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, input, entries[0].ContextMap()["price"])
			}
		})
	}
}

func TestNormalizeDotDecimalLocale(t *testing.T) {
	r := sources.Hofer()
	r.CurrencySymbols = []string{"$", "USD"}
	r.DecimalSeparator = "."
	r.ThousandsSeparator = ","

	n, logs := newTestNormalizer(r)
	assert.InDelta(t, 1079.0, n.Normalize("USD 1,079.00"), 1e-9)
	assert.InDelta(t, 350.75, n.Normalize("$350.75"), 1e-9)
	assert.Zero(t, logs.Len())
}

func TestNormalizeWithoutThousandsSeparator(t *testing.T) {
	r := sources.Billa()
	r.ThousandsSeparator = ""

	n, logs := newTestNormalizer(r)
	assert.Equal(t, FallbackPrice, n.Normalize("1.234,56"))
	assert.Equal(t, 1, logs.Len())
}
