// Package session holds the transactions of one imported statement while the
// user reviews them.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrSessionNotFound     = errors.New("session not found")
)

// Session is safe for concurrent use.
type Session struct {
	ID        string
	Bank      string
	Filename  string
	CreatedAt time.Time

	mu           sync.Mutex
	transactions []domain.Transaction
	deleted      []domain.Transaction
}

// New creates a session over already enriched transactions.
func New(bank, filename string, txs []domain.Transaction) *Session {
	s := &Session{
		ID:           uuid.NewString(),
		Bank:         bank,
		Filename:     filename,
		CreatedAt:    time.Now().UTC(),
		transactions: append([]domain.Transaction(nil), txs...),
	}
	sortByDate(s.transactions)
	return s
}

// Transactions returns a copy of the active transactions in date order.
func (s *Session) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Transaction{}, s.transactions...)
}

// Deleted returns a copy of the deleted transactions.
func (s *Session) Deleted() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Transaction{}, s.deleted...)
}

// Transaction returns the active transaction with the given ID.
func (s *Session) Transaction(id int) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.transactions, id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrTransactionNotFound)
	}
	return s.transactions[i], nil
}

// SetCategory changes the selected category of one transaction.
func (s *Session) SetCategory(id int, name string) (domain.Transaction, error) {
	c, ok := domain.ParseCategory(name)
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%q: %w", name, ErrInvalidCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.transactions, id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrTransactionNotFound)
	}
	s.transactions[i].SelectedCategory = c
	return s.transactions[i], nil
}

// SetRecurring changes the recurring flag of one transaction.
func (s *Session) SetRecurring(id int, recurring bool) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.transactions, id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrTransactionNotFound)
	}
	s.transactions[i].IsRecurring = recurring
	return s.transactions[i], nil
}

// Delete moves a transaction to the deleted list.
func (s *Session) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.deleteLocked(id) {
		return fmt.Errorf("transaction %d: %w", id, ErrTransactionNotFound)
	}
	return nil
}

// Restore moves a deleted transaction back, keeping its ID.
func (s *Session) Restore(id int) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.deleted, id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("deleted transaction %d: %w", id, ErrTransactionNotFound)
	}
	tx := s.deleted[i]
	s.deleted = append(s.deleted[:i], s.deleted[i+1:]...)
	s.transactions = append(s.transactions, tx)
	sortByDate(s.transactions)
	return tx, nil
}

// DeleteMany deletes every listed transaction and returns how many were
// deleted. Unknown IDs are ignored.
func (s *Session) DeleteMany(ids []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if s.deleteLocked(id) {
			n++
		}
	}
	return n
}

// SetCategoryMany sets the selected category of every listed transaction.
func (s *Session) SetCategoryMany(ids []int, name string) (int, error) {
	c, ok := domain.ParseCategory(name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidCategory)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eachLocked(ids, func(tx *domain.Transaction) { tx.SelectedCategory = c }), nil
}

// SetRecurringMany sets the recurring flag of every listed transaction.
func (s *Session) SetRecurringMany(ids []int, recurring bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eachLocked(ids, func(tx *domain.Transaction) { tx.IsRecurring = recurring })
}

func (s *Session) eachLocked(ids []int, fn func(*domain.Transaction)) int {
	n := 0
	for _, id := range ids {
		if i := indexOf(s.transactions, id); i >= 0 {
			fn(&s.transactions[i])
			n++
		}
	}
	return n
}

func (s *Session) deleteLocked(id int) bool {
	i := indexOf(s.transactions, id)
	if i < 0 {
		return false
	}
	tx := s.transactions[i]
	s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	if indexOf(s.deleted, id) < 0 {
		s.deleted = append(s.deleted, tx)
	}
	return true
}

func indexOf(txs []domain.Transaction, id int) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}

// View is a point-in-time JSON representation of a session.
type View struct {
	ID           string               `json:"id"`
	Bank         string               `json:"bank"`
	Filename     string               `json:"filename"`
	CreatedAt    time.Time            `json:"created_at"`
	Transactions []domain.Transaction `json:"transactions"`
	Deleted      []domain.Transaction `json:"deleted"`
}

// View returns a consistent copy of the session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:           s.ID,
		Bank:         s.Bank,
		Filename:     s.Filename,
		CreatedAt:    s.CreatedAt,
		Transactions: append([]domain.Transaction{}, s.transactions...),
		Deleted:      append([]domain.Transaction{}, s.deleted...),
	}
}
