package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReportTotals(t *testing.T) {
	report := RunReport{Seeds: []SeedReport{
		{Site: "billa", Seed: "a", Records: 48, Pages: 3, Outcome: OutcomeNoProducts},
		{Site: "billa", Seed: "b", Records: 5, Pages: 1, Outcome: OutcomeMalformedLocation, Err: "malformed page location"},
		{Site: "hofer", Seed: "c", Records: 12, Pages: 1, Outcome: OutcomeSinglePage},
		{Site: "hofer", Seed: "d", Outcome: OutcomeCancelled},
	}}

	assert.Equal(t, 65, report.TotalRecords())

	failed := report.Failed()
	if assert.Len(t, failed, 2) {
		assert.Equal(t, "b", failed[0].Seed)
		assert.Equal(t, "d", failed[1].Seed)
	}
}

func TestOutcomeNormal(t *testing.T) {
	assert.True(t, OutcomeNoProducts.Normal())
	assert.True(t, OutcomeSinglePage.Normal())
	assert.False(t, OutcomeFetchFailed.Normal())
	assert.False(t, OutcomeMalformedLocation.Normal())
	assert.False(t, OutcomeCancelled.Normal())
}

func TestSeedReportString(t *testing.T) {
	r := SeedReport{Site: "billa", Seed: "https://shop.billa.at/kategorie/pflege-14083?page=1", Pages: 2, Records: 24, Outcome: OutcomeFetchFailed, Err: "unexpected status code 503"}

	assert.Equal(t, "[billa] https://shop.billa.at/kategorie/pflege-14083?page=1: 24 records from 2 pages (fetch_failed): unexpected status code 503", r.String())
}

func TestProductString(t *testing.T) {
	p := Product{Name: "Bauernbrot", Price: 3.49, Site: "billa"}

	assert.Equal(t, "3.49 EUR", p.GetPriceString())
	assert.Equal(t, "Bauernbrot (3.49 EUR) from billa", p.String())
}
