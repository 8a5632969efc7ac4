package crawler

import (
	"context"

	"github.com/bradykim7/pricecrawl/internal/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Sink receives product records as they are produced
type Sink interface {
	Save(ctx context.Context, product models.Product) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, product models.Product) error

// Save calls f
func (f SinkFunc) Save(ctx context.Context, product models.Product) error {
	return f(ctx, product)
}

// LogSink writes every product to the log
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a sink that logs products at info level
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("products")}
}

// Save logs the product
func (s *LogSink) Save(_ context.Context, product models.Product) error {
	s.log.Info("Product",
		zap.String("site", product.Site),
		zap.String("name", product.Name),
		zap.Float64("price", product.Price),
		zap.Int("page", product.Page))
	return nil
}

// MultiSink fans a product out to several sinks
type MultiSink []Sink

// Save writes the product to every sink and combines their errors
func (m MultiSink) Save(ctx context.Context, product models.Product) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Save(ctx, product))
	}
	return err
}
