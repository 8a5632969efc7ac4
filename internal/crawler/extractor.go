package crawler

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/bradykim7/pricecrawl/internal/crawler/sources"
	"github.com/bradykim7/pricecrawl/internal/models"
)

// Extractor finds product entries in a listing page using a site's selectors
type Extractor struct {
	selectors sources.Selectors
}

// NewExtractor creates an extractor for the given selectors
func NewExtractor(selectors sources.Selectors) *Extractor {
	return &Extractor{selectors: selectors}
}

// Extract returns the raw name/price pairs of every product container in page order.
// A page without containers yields an empty slice.
func (e *Extractor) Extract(doc *goquery.Document) []models.RawProduct {
	if doc == nil {
		return nil
	}

	var products []models.RawProduct
	doc.Find(e.selectors.Container).Each(func(i int, s *goquery.Selection) {
		products = append(products, models.RawProduct{
			Name:  s.Find(e.selectors.Name).First().Text(),
			Price: s.Find(e.selectors.Price).First().Text(),
		})
	})
	return products
}
