package store

import (
	"context"
	"sort"

	"github.com/pushlab/push-analytics/internal/domain"
)

// InlineStore serves customer views held in memory. It backs the test
// endpoints that accept inline payloads and the dev mode that runs
// without a database.
type InlineStore struct {
	customers    map[int]domain.Customer
	transactions map[int][]domain.Transaction
	transfers    map[int][]domain.Transfer
}

// NewInlineStore builds an empty in-memory store
func NewInlineStore() *InlineStore {
	return &InlineStore{
		customers:    make(map[int]domain.Customer),
		transactions: make(map[int][]domain.Transaction),
		transfers:    make(map[int][]domain.Transfer),
	}
}

// NewInlineStoreFromView seeds a store with a single customer view
func NewInlineStoreFromView(view domain.CustomerView) *InlineStore {
	s := NewInlineStore()
	s.Put(view)
	return s
}

// Put adds or replaces one customer's data
func (s *InlineStore) Put(view domain.CustomerView) {
	code := view.Customer.Code
	s.customers[code] = view.Customer
	s.transactions[code] = view.Transactions
	s.transfers[code] = view.Transfers
}

// GetCustomer returns the stored customer or ErrNotFound
func (s *InlineStore) GetCustomer(_ context.Context, code int) (domain.Customer, error) {
	c, ok := s.customers[code]
	if !ok {
		return domain.Customer{}, ErrNotFound
	}
	return c, nil
}

// ListTransactions returns the stored transactions without windowing;
// inline payloads are already scoped to the analysis window.
func (s *InlineStore) ListTransactions(_ context.Context, code, _ int) ([]domain.Transaction, error) {
	if _, ok := s.customers[code]; !ok {
		return nil, ErrNotFound
	}
	return s.transactions[code], nil
}

// ListTransfers returns the stored transfers without windowing
func (s *InlineStore) ListTransfers(_ context.Context, code, _ int) ([]domain.Transfer, error) {
	if _, ok := s.customers[code]; !ok {
		return nil, ErrNotFound
	}
	return s.transfers[code], nil
}

// RandomCustomerCode returns the lowest stored code. A deterministic
// pick keeps the dev mode reproducible.
func (s *InlineStore) RandomCustomerCode(_ context.Context) (int, error) {
	codes := s.sortedCodes()
	if len(codes) == 0 {
		return 0, ErrEmpty
	}
	return codes[0], nil
}

// ListCustomerCodes returns up to limit codes in ascending order
func (s *InlineStore) ListCustomerCodes(_ context.Context, limit int) ([]int, error) {
	codes := s.sortedCodes()
	if limit > 0 && len(codes) > limit {
		codes = codes[:limit]
	}
	return codes, nil
}

// Counts reports in-memory row counts
func (s *InlineStore) Counts(_ context.Context) (Counts, error) {
	var c Counts
	c.Clients = int64(len(s.customers))
	for _, txs := range s.transactions {
		c.Transactions += int64(len(txs))
	}
	for _, trs := range s.transfers {
		c.Transfers += int64(len(trs))
	}
	return c, nil
}

func (s *InlineStore) sortedCodes() []int {
	codes := make([]int, 0, len(s.customers))
	for code := range s.customers {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
