package sources

// Billa returns the ruleset for shop.billa.at category listings
func Billa() *Ruleset {
	return &Ruleset{
		Name: "billa",
		Seeds: []string{
			"https://shop.billa.at/kategorie/brot-und-gebaeck-13766?page=1",
			"https://shop.billa.at/kategorie/getraenke-13784?page=1",
			"https://shop.billa.at/kategorie/kuehlwaren-13841?page=1",
			"https://shop.billa.at/kategorie/tiefkuehl-13916?page=1",
			"https://shop.billa.at/kategorie/nahrungsmittel-13943?page=1",
			"https://shop.billa.at/kategorie/suesses-und-salziges-14057?page=1",
			"https://shop.billa.at/kategorie/pflege-14083?page=1",
			"https://shop.billa.at/kategorie/geschenksideen-14267?page=1",
			"https://shop.billa.at/kategorie/haustier-14181?page=1",
			"https://shop.billa.at/kategorie/haushalt-14126?page=1",
		},
		Selectors: Selectors{
			Container: ".ws-product-item-base.ws-product-tile.ws-card",
			Name:      "span.line-clamp-3",
			Price:     ".ws-product-price-type__value.subtitle-1",
		},
		Pagination: Pagination{
			Mode:  PaginationQueryParam,
			Param: "page",
		},
		// the shop sometimes serves the euro sign double-encoded
		CurrencySymbols:    []string{"€", "â‚¬", "EUR"},
		DecimalSeparator:   ",",
		ThousandsSeparator: ".",
	}
}

// Hofer returns the ruleset for hofer.at assortment pages, which are not paginated
func Hofer() *Ruleset {
	return &Ruleset{
		Name: "hofer",
		Seeds: []string{
			"https://www.hofer.at/de/sortiment/produktsortiment/brot-und-backwaren.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/kuehlung.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/fleisch-und-fisch.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/vorratsschrank.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/suesses-und-salziges.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/tiefkuehlung.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/getraenke.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/drogerie.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/haushalt.html",
			"https://www.hofer.at/de/sortiment/produktsortiment/tierbedarf.html",
			"https://www.hofer.at/de/sortiment/hofer-eigenmarken/flying-power.html",
		},
		Selectors: Selectors{
			Container: "article.wrapper",
			Name:      "h2.product-title.at-all-productName-lbl",
			Price:     "span.price.at-product-price_lbl",
		},
		Pagination: Pagination{
			Mode: PaginationNone,
		},
		CurrencySymbols:    []string{"€"},
		DecimalSeparator:   ",",
		ThousandsSeparator: ".",
	}
}

// Builtin returns the rulesets compiled into the binary
func Builtin() []*Ruleset {
	return []*Ruleset{Billa(), Hofer()}
}
