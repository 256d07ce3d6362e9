package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/clearcart/trustlens/models"
)

// Postgres persists tracked products and their price points to PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection, waits for the database to come up, runs
// schema migrations, and returns a ready-to-use store.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return p, nil
}

func (p *Postgres) migrate() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id         SERIAL PRIMARY KEY,
			url        TEXT        UNIQUE NOT NULL,
			title      TEXT        NOT NULL DEFAULT 'Tracked Product',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS price_points (
			id          SERIAL PRIMARY KEY,
			product_id  INTEGER     NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			price       NUMERIC(10,2) NOT NULL,
			currency    VARCHAR(3)  NOT NULL DEFAULT 'USD',
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_price_points_product ON price_points(product_id, recorded_at);
	`)
	return err
}

// TrackProduct upserts the product row and appends the first price point.
func (p *Postgres) TrackProduct(ctx context.Context, url, title string, price float64) error {
	if title == "" {
		title = "Tracked Product"
	}

	var productID int
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO products (url, title)
		VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title
		RETURNING id
	`, url, title).Scan(&productID)
	if err != nil {
		return fmt.Errorf("postgres: upsert product: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO price_points (product_id, price) VALUES ($1, $2)
	`, productID, price)
	if err != nil {
		return fmt.Errorf("postgres: insert price point: %w", err)
	}
	return nil
}

// AddPricePoint appends one price observation for a tracked product.
func (p *Postgres) AddPricePoint(ctx context.Context, url string, price float64) error {
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO price_points (product_id, price)
		SELECT id, $2 FROM products WHERE url = $1
	`, url, price)
	if err != nil {
		return fmt.Errorf("postgres: add price point: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil // not tracked; nothing to append
	}
	return nil
}

// PriceHistory returns all price points for the URL in recording order.
func (p *Postgres) PriceHistory(ctx context.Context, url string) ([]models.PricePoint, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT pp.price, pp.recorded_at
		FROM price_points pp
		JOIN products pr ON pr.id = pp.product_id
		WHERE pr.url = $1
		ORDER BY pp.recorded_at ASC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: price history: %w", err)
	}
	defer rows.Close()

	var history []models.PricePoint
	for rows.Next() {
		var price float64
		var recordedAt time.Time
		if err := rows.Scan(&price, &recordedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan price point: %w", err)
		}
		history = append(history, models.PricePoint{
			Date:  recordedAt.Format("2006-01-02"),
			Price: price,
		})
	}
	return history, rows.Err()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
