package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/database"
	"github.com/pushlab/push-analytics/internal/domain"
)

// PostgresStore reads the Clients / Transactions / Transfers tables
type PostgresStore struct {
	db  *database.DB
	log zerolog.Logger
}

// NewPostgresStore creates a store over the shared connection pool
func NewPostgresStore(db *database.DB, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: log.With().Str("component", "store").Logger(),
	}
}

// GetCustomer fetches one customer by code
func (s *PostgresStore) GetCustomer(ctx context.Context, code int) (domain.Customer, error) {
	const query = `
		SELECT client_code, name, status, COALESCE(city, ''), avg_monthly_balance_KZT, age
		FROM "Clients"
		WHERE client_code = $1`

	var (
		c       domain.Customer
		status  string
		balance decimal.Decimal
		age     *int
	)
	row := s.db.Pool().QueryRow(ctx, query, code)
	if err := row.Scan(&c.Code, &c.Name, &status, &c.City, &balance, &age); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, ErrNotFound
		}
		return domain.Customer{}, s.unavailable("get customer", err)
	}

	c.Status = domain.ParseStatus(status)
	c.AvgBalance = balance
	c.Age = age
	return c, nil
}

// ListTransactions returns the customer's transactions inside the window,
// newest first.
func (s *PostgresStore) ListTransactions(ctx context.Context, code, sinceDays int) ([]domain.Transaction, error) {
	const query = `
		SELECT client_code, date, category, amount, currency
		FROM "Transactions"
		WHERE client_code = $1
		  AND date >= CURRENT_DATE - $2 * INTERVAL '1 day'
		ORDER BY date DESC`

	rows, err := s.db.Pool().Query(ctx, query, code, sinceDays)
	if err != nil {
		return nil, s.unavailable("list transactions", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var currency string
		if err := rows.Scan(&t.CustomerCode, &t.Date, &t.Category, &t.Amount, &currency); err != nil {
			return nil, s.unavailable("scan transaction", err)
		}
		t.Currency = domain.Currency(currency)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate transactions", err)
	}
	return out, nil
}

// ListTransfers returns the customer's transfers inside the window,
// newest first.
func (s *PostgresStore) ListTransfers(ctx context.Context, code, sinceDays int) ([]domain.Transfer, error) {
	const query = `
		SELECT client_code, date, type, direction, amount, currency
		FROM "Transfers"
		WHERE client_code = $1
		  AND date >= CURRENT_DATE - $2 * INTERVAL '1 day'
		ORDER BY date DESC`

	rows, err := s.db.Pool().Query(ctx, query, code, sinceDays)
	if err != nil {
		return nil, s.unavailable("list transfers", err)
	}
	defer rows.Close()

	var out []domain.Transfer
	for rows.Next() {
		var t domain.Transfer
		var typ, direction, currency string
		if err := rows.Scan(&t.CustomerCode, &t.Date, &typ, &direction, &t.Amount, &currency); err != nil {
			return nil, s.unavailable("scan transfer", err)
		}
		t.Type = domain.TransferType(typ)
		t.Direction = domain.TransferDirection(direction)
		t.Currency = domain.Currency(currency)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate transfers", err)
	}
	return out, nil
}

// RandomCustomerCode picks one stored customer at random
func (s *PostgresStore) RandomCustomerCode(ctx context.Context) (int, error) {
	const query = `SELECT client_code FROM "Clients" ORDER BY RANDOM() LIMIT 1`

	var code int
	if err := s.db.Pool().QueryRow(ctx, query).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrEmpty
		}
		return 0, s.unavailable("random customer", err)
	}
	return code, nil
}

// ListCustomerCodes returns up to limit customer codes in stable order
func (s *PostgresStore) ListCustomerCodes(ctx context.Context, limit int) ([]int, error) {
	const query = `SELECT client_code FROM "Clients" ORDER BY client_code LIMIT $1`

	rows, err := s.db.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, s.unavailable("list customer codes", err)
	}
	defer rows.Close()

	var codes []int
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return nil, s.unavailable("scan customer code", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate customer codes", err)
	}
	return codes, nil
}

// Counts reports row counts for the db-status endpoint
func (s *PostgresStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	queries := []struct {
		sql  string
		dest *int64
	}{
		{`SELECT COUNT(*) FROM "Clients"`, &c.Clients},
		{`SELECT COUNT(*) FROM "Transactions"`, &c.Transactions},
		{`SELECT COUNT(*) FROM "Transfers"`, &c.Transfers},
	}
	for _, q := range queries {
		if err := s.db.Pool().QueryRow(ctx, q.sql).Scan(q.dest); err != nil {
			return Counts{}, s.unavailable("count rows", err)
		}
	}
	return c, nil
}

// Ping verifies the pool is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return s.unavailable("ping", err)
	}
	return nil
}

func (s *PostgresStore) unavailable(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("Store read failed")
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
