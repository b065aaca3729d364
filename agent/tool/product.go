package tool

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

const (
	ProductSearchName = "product_search_tool"

	productSearchLimit = 5
	// NotFound is the sentinel the agent prompt keys off to admit it has
	// no answer instead of inventing one.
	NotFound = "I don't know."
)

// Product is one catalog row.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description"`
	PriceVND    int64  `bun:"price_vnd,notnull"`
	Stock       int    `bun:"stock,notnull,default:0"`
}

// ProductDBConfig configures the Postgres catalog connection.
type ProductDBConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// NewProductDB opens a bun handle over the catalog database.
func NewProductDB(cfg ProductDBConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: product db dsn is required", contractx.ErrValidation)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// ProductSearch looks products up in the catalog by name or description.
type ProductSearch struct {
	db bun.IDB
}

var _ contractx.Tool = (*ProductSearch)(nil)

func NewProductSearch(db bun.IDB) *ProductSearch {
	return &ProductSearch{db: db}
}

func (s *ProductSearch) Name() string {
	return ProductSearchName
}

func (s *ProductSearch) Description() string {
	return "Searches the product catalog by product name or description and " +
		"returns matching products with price and stock. Input is a plain query string."
}

func (s *ProductSearch) Invoke(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return NotFound, nil
	}

	var products []Product
	pattern := "%" + query + "%"
	err := s.db.NewSelect().
		Model(&products).
		Where("p.name ILIKE ?", pattern).
		WhereOr("p.description ILIKE ?", pattern).
		OrderExpr("p.stock DESC").
		Limit(productSearchLimit).
		Scan(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: product search: %v", contractx.ErrToolExecution, err)
	}
	if len(products) == 0 {
		return NotFound, nil
	}

	return FormatProducts(products), nil
}

// FormatProducts renders catalog rows as the natural-language result the
// reasoning loop feeds back as an observation.
func FormatProducts(products []Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		line := fmt.Sprintf("%s, %d VND", p.Name, p.PriceVND)
		if p.Stock == 0 {
			line += " (out of stock)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "; ")
}
