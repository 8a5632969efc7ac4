package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the crawler.
type Metrics struct {
	PagesFetched    *prometheus.CounterVec
	FetchErrors     *prometheus.CounterVec
	ProductsEmitted *prometheus.CounterVec
	PriceFallbacks  *prometheus.CounterVec
	SinkErrors      prometheus.Counter
	SeedsFinished   *prometheus.CounterVec
}

// NewMetrics registers the crawler metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricecrawl_pages_fetched_total",
			Help: "The total number of listing pages fetched",
		}, []string{"site"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricecrawl_fetch_errors_total",
			Help: "The total number of pages the fetcher gave up on",
		}, []string{"site"}),
		ProductsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricecrawl_products_emitted_total",
			Help: "The total number of product records emitted",
		}, []string{"site"}),
		PriceFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricecrawl_price_fallbacks_total",
			Help: "The total number of prices replaced by the fallback value",
		}, []string{"site"}),
		SinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricecrawl_sink_errors_total",
			Help: "The total number of product records the sink failed to store",
		}),
		SeedsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricecrawl_seeds_finished_total",
			Help: "The total number of seed crawls finished, by outcome",
		}, []string{"site", "outcome"}), // e.g. 'no_products', 'fetch_failed'
	}
}

func (m *Metrics) IncPagesFetched(site string) {
	m.PagesFetched.WithLabelValues(site).Inc()
}

func (m *Metrics) IncFetchErrors(site string) {
	m.FetchErrors.WithLabelValues(site).Inc()
}

func (m *Metrics) AddProductsEmitted(site string, n int) {
	m.ProductsEmitted.WithLabelValues(site).Add(float64(n))
}

func (m *Metrics) IncPriceFallbacks(site string) {
	m.PriceFallbacks.WithLabelValues(site).Inc()
}

func (m *Metrics) IncSinkErrors() {
	m.SinkErrors.Inc()
}

func (m *Metrics) IncSeedsFinished(site, outcome string) {
	m.SeedsFinished.WithLabelValues(site, outcome).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
