package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bradykim7/pricecrawl/internal/crawler/sources"
	"github.com/bradykim7/pricecrawl/internal/models"
)

// ErrMalformedLocation is returned when a page location has no usable page index
var ErrMalformedLocation = errors.New("malformed page location")

// Decision is the pagination result for one page: either the next location or a termination reason
type Decision struct {
	Next   string
	Reason models.Outcome
}

// Continue returns a decision to crawl next
func Continue(next string) Decision {
	return Decision{Next: next}
}

// Terminate returns a decision to stop the seed
func Terminate(reason models.Outcome) Decision {
	return Decision{Reason: reason}
}

// Terminated reports whether the seed's crawl is over
func (d Decision) Terminated() bool {
	return d.Next == ""
}

// Paginator decides whether a seed continues and where its next page is
type Paginator struct {
	pagination sources.Pagination
}

// NewPaginator creates a paginator for the given pagination rule
func NewPaginator(p sources.Pagination) *Paginator {
	return &Paginator{pagination: p}
}

// First returns the location of the first page of a seed.
// Paginated seeds always start at index 1; a seed without the page parameter gets it added,
// a seed with a non-numeric one is rejected.
func (p *Paginator) First(seed string) (string, error) {
	if p.pagination.Mode != sources.PaginationQueryParam {
		return seed, nil
	}

	u, err := url.Parse(seed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedLocation, err)
	}
	if u.Query().Has(p.pagination.Param) {
		if _, err := PageIndex(seed, p.pagination.Param); err != nil {
			return "", err
		}
	}
	return withPageIndex(seed, p.pagination.Param, 1)
}

// Next decides what follows the page at current, which yielded records products
func (p *Paginator) Next(current string, records int) (Decision, error) {
	if p.pagination.Mode != sources.PaginationQueryParam {
		return Terminate(models.OutcomeSinglePage), nil
	}
	if records == 0 {
		return Terminate(models.OutcomeNoProducts), nil
	}

	index, err := PageIndex(current, p.pagination.Param)
	if err != nil {
		return Decision{}, err
	}
	next, err := withPageIndex(current, p.pagination.Param, index+1)
	if err != nil {
		return Decision{}, err
	}
	return Continue(next), nil
}

// PageIndex returns the page index stored in the location's query parameter
func PageIndex(location, param string) (int, error) {
	u, err := url.Parse(location)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedLocation, err)
	}

	values, ok := u.Query()[param]
	if !ok || len(values) == 0 {
		return 0, fmt.Errorf("%w: %q has no %s parameter", ErrMalformedLocation, location, param)
	}

	index, err := strconv.Atoi(values[0])
	if err != nil || index < 1 {
		return 0, fmt.Errorf("%w: %q has invalid %s value %q", ErrMalformedLocation, location, param, values[0])
	}
	return index, nil
}

func withPageIndex(location, param string, index int) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedLocation, err)
	}

	q := u.Query()
	q.Set(param, strconv.Itoa(index))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
