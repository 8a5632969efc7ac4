package models

import (
	"fmt"
	"time"
)

// Outcome describes how a seed's crawl loop ended
type Outcome string

const (
	// OutcomeNoProducts means a page returned no products (normal end of pagination)
	OutcomeNoProducts Outcome = "no_products"

	// OutcomeSinglePage means a non-paginating seed finished its only page
	OutcomeSinglePage Outcome = "single_page"

	// OutcomeFetchFailed means the fetcher gave up on a page
	OutcomeFetchFailed Outcome = "fetch_failed"

	// OutcomeMalformedLocation means the next page location could not be derived
	OutcomeMalformedLocation Outcome = "malformed_location"

	// OutcomeCancelled means the run was stopped between two pages
	OutcomeCancelled Outcome = "cancelled"
)

// Normal reports whether the seed ended because there was nothing left to crawl
func (o Outcome) Normal() bool {
	return o == OutcomeNoProducts || o == OutcomeSinglePage
}

// SeedReport summarizes one seed's crawl
type SeedReport struct {
	Site     string        `json:"site"`
	Seed     string        `json:"seed"`
	Pages    int           `json:"pages"`
	Records  int           `json:"records"`
	Outcome  Outcome       `json:"outcome"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (r SeedReport) String() string {
	s := fmt.Sprintf("[%s] %s: %d records from %d pages (%s)", r.Site, r.Seed, r.Records, r.Pages, r.Outcome)
	if r.Err != "" {
		s += ": " + r.Err
	}
	return s
}

// RunReport collects the seed reports of a single crawler run
type RunReport struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Seeds     []SeedReport  `json:"seeds"`
}

// TotalRecords returns the number of records emitted across all seeds
func (r RunReport) TotalRecords() int {
	total := 0
	for _, s := range r.Seeds {
		total += s.Records
	}
	return total
}

// Failed returns the seeds that terminated abnormally
func (r RunReport) Failed() []SeedReport {
	var failed []SeedReport
	for _, s := range r.Seeds {
		if !s.Outcome.Normal() {
			failed = append(failed, s)
		}
	}
	return failed
}
