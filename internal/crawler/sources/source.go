package sources

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRuleset is returned when a site ruleset cannot drive a crawl
var ErrInvalidRuleset = errors.New("invalid ruleset")

// PaginationMode selects how a site's listing pages are advanced
type PaginationMode string

const (
	// PaginationQueryParam increments an integer query parameter (?page=N)
	PaginationQueryParam PaginationMode = "query-param-increment"

	// PaginationNone crawls the seed location once
	PaginationNone PaginationMode = "none"
)

// Pagination configures the next-page rule of a site
type Pagination struct {
	Mode  PaginationMode `yaml:"mode"`
	Param string         `yaml:"param"`
}

// Selectors locate product entries and their fields in a listing page
type Selectors struct {
	Container string `yaml:"container"`
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
}

// Ruleset is the per-site configuration shared by all seeds of that site
type Ruleset struct {
	Name               string     `yaml:"name"`
	Seeds              []string   `yaml:"seeds"`
	Selectors          Selectors  `yaml:"selectors"`
	Pagination         Pagination `yaml:"pagination"`
	CurrencySymbols    []string   `yaml:"currency_symbols"`
	DecimalSeparator   string     `yaml:"decimal_separator"`
	ThousandsSeparator string     `yaml:"thousands_separator"`
}

// Validate checks if the ruleset is complete
func (r *Ruleset) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRuleset)
	}
	if len(r.Seeds) == 0 {
		return fmt.Errorf("%w: site %s has no seeds", ErrInvalidRuleset, r.Name)
	}
	if r.Selectors.Container == "" || r.Selectors.Name == "" || r.Selectors.Price == "" {
		return fmt.Errorf("%w: site %s needs container, name and price selectors", ErrInvalidRuleset, r.Name)
	}

	switch r.Pagination.Mode {
	case PaginationQueryParam:
		if r.Pagination.Param == "" {
			return fmt.Errorf("%w: site %s uses %s without a parameter name", ErrInvalidRuleset, r.Name, r.Pagination.Mode)
		}
	case PaginationNone:
	default:
		return fmt.Errorf("%w: site %s has unknown pagination mode %q", ErrInvalidRuleset, r.Name, r.Pagination.Mode)
	}

	if r.DecimalSeparator == "" {
		return fmt.Errorf("%w: site %s has no decimal separator", ErrInvalidRuleset, r.Name)
	}
	if r.DecimalSeparator == r.ThousandsSeparator {
		return fmt.Errorf("%w: site %s uses %q as both decimal and thousands separator", ErrInvalidRuleset, r.Name, r.DecimalSeparator)
	}

	for _, seed := range r.Seeds {
		u, err := url.Parse(seed)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%w: site %s has invalid seed %q", ErrInvalidRuleset, r.Name, seed)
		}
	}

	return nil
}

// Paginated reports whether the site advances through listing pages
func (r *Ruleset) Paginated() bool {
	return r.Pagination.Mode == PaginationQueryParam
}

// Seed is the first listing page of one category together with its site ruleset
type Seed struct {
	URL     string
	Ruleset *Ruleset
}

// Site returns the name of the site the seed belongs to
func (s Seed) Site() string {
	return s.Ruleset.Name
}

// Seeds returns the seeds of all rulesets, in ruleset and then seed order
func Seeds(rulesets []*Ruleset) []Seed {
	var seeds []Seed
	for _, r := range rulesets {
		for _, u := range r.Seeds {
			seeds = append(seeds, Seed{URL: u, Ruleset: r})
		}
	}
	return seeds
}

// Select returns the named rulesets from all, in the order the names are given
func Select(all []*Ruleset, names []string) ([]*Ruleset, error) {
	byName := make(map[string]*Ruleset, len(all))
	for _, r := range all {
		byName[strings.ToLower(r.Name)] = r
	}

	var selected []*Ruleset
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		r, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown site %q", name)
		}
		selected = append(selected, r)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no sites selected")
	}
	return selected, nil
}
