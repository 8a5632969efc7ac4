package models

import (
	"fmt"
	"strconv"
	"time"
)

// RawProduct is a name/price pair exactly as it appears in the page markup
type RawProduct struct {
	Name  string
	Price string
}

// Product represents a normalized product record from a category listing page
type Product struct {
	Name      string    `bson:"name" json:"name"`
	Price     float64   `bson:"price" json:"price"`
	Site      string    `bson:"site" json:"site"`
	Seed      string    `bson:"seed" json:"seed"`
	PageURL   string    `bson:"page_url" json:"page_url"`
	Page      int       `bson:"page" json:"page"`
	RawPrice  string    `bson:"raw_price,omitempty" json:"raw_price,omitempty"`
	CrawledAt time.Time `bson:"crawled_at" json:"crawled_at"`
}

// GetPriceString returns a formatted price string
func (p *Product) GetPriceString() string {
	return strconv.FormatFloat(p.Price, 'f', 2, 64) + " EUR"
}

// String returns a string representation of the product
func (p *Product) String() string {
	return fmt.Sprintf("%s (%s) from %s", p.Name, p.GetPriceString(), p.Site)
}
