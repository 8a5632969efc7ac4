package storage

import (
	"context"
	"fmt"

	"github.com/bradykim7/pricecrawl/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const productsCollection = "products"

// ProductRepository stores product records in MongoDB
type ProductRepository struct {
	db  *MongoDB
	log *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *MongoDB, log *zap.Logger) *ProductRepository {
	return &ProductRepository{
		db:  db,
		log: log.Named("product-repository"),
	}
}

// EnsureIndexes creates the indexes used to query products by site and crawl time
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "site", Value: 1}, {Key: "crawled_at", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// Save inserts a product record
func (r *ProductRepository) Save(ctx context.Context, product models.Product) error {
	if _, err := r.db.Collection(productsCollection).InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.log.Debug("Stored product",
		zap.String("site", product.Site),
		zap.String("name", product.Name))
	return nil
}
