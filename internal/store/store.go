// Package store provides read-only access to customer data. The core
// issues at most three reads per customer (customer, transactions,
// transfers) and treats the backing database as owned by an upstream
// system: nothing here writes.
package store

import (
	"context"
	"errors"

	"github.com/pushlab/push-analytics/internal/domain"
)

var (
	// ErrNotFound means the customer code does not exist
	ErrNotFound = errors.New("customer not found")

	// ErrStoreUnavailable means the connection is down or a read failed.
	// It is terminal for the customer being processed: no partial
	// recommendation is emitted.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmpty means the store holds no customers at all
	ErrEmpty = errors.New("store is empty")
)

// CustomerStore is the read surface the pipeline consumes. Reads are
// snapshot-consistent for a single customer within one call sequence;
// implementations must honour context cancellation.
type CustomerStore interface {
	GetCustomer(ctx context.Context, code int) (domain.Customer, error)
	ListTransactions(ctx context.Context, code, sinceDays int) ([]domain.Transaction, error)
	ListTransfers(ctx context.Context, code, sinceDays int) ([]domain.Transfer, error)
	RandomCustomerCode(ctx context.Context) (int, error)
	ListCustomerCodes(ctx context.Context, limit int) ([]int, error)
}

// Counts reports table sizes for the db-status endpoint
type Counts struct {
	Clients      int64 `json:"clients_count"`
	Transactions int64 `json:"transactions_count"`
	Transfers    int64 `json:"transfers_count"`
}

// Counter is implemented by stores that can report row counts
type Counter interface {
	Counts(ctx context.Context) (Counts, error)
}
