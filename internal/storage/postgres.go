package storage

import (
	"context"
	"fmt"

	"github.com/bradykim7/pricecrawl/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id         BIGSERIAL PRIMARY KEY,
	site       TEXT NOT NULL,
	seed       TEXT NOT NULL,
	page_url   TEXT NOT NULL,
	page       INTEGER NOT NULL,
	name       TEXT NOT NULL,
	price      DOUBLE PRECISION NOT NULL,
	raw_price  TEXT NOT NULL DEFAULT '',
	crawled_at TIMESTAMPTZ NOT NULL
)`

const insertProduct = `INSERT INTO products (site, seed, page_url, page, name, price, raw_price, crawled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Migrate creates the products table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createProductsTable); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// Save inserts a single product record.
func (s *PostgresStore) Save(ctx context.Context, product models.Product) error {
	if _, err := s.db.Exec(ctx, insertProduct, productArgs(product)...); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func productArgs(p models.Product) []any {
	return []any{p.Site, p.Seed, p.PageURL, p.Page, p.Name, p.Price, p.RawPrice, p.CrawledAt}
}
