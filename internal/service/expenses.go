package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/swpbansode/expense-tracker/internal/models"
	"github.com/swpbansode/expense-tracker/internal/storage"
)

// Expenses handles expense CRUD and aggregation, always scoped to the
// owning user.
type Expenses struct {
	db *storage.DB
}

// NewExpenses creates an expense service backed by db.
func NewExpenses(db *storage.DB) *Expenses {
	return &Expenses{db: db}
}

// parseAmount parses a form amount. NaN and infinities are rejected; the
// sign is not restricted (negative amounts represent refunds).
func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// Add records a new expense. Category and comments are trimmed; an empty
// category is accepted as-is.
func (s *Expenses) Add(userID int64, category, amount, comments string) (*models.Expense, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	return s.db.CreateExpense(userID, strings.TrimSpace(category), value, strings.TrimSpace(comments))
}

// List returns all of a user's expenses, newest id first.
func (s *Expenses) List(userID int64) ([]models.Expense, error) {
	return s.db.ListExpenses(userID)
}

// Get fetches a single owned expense. Missing and foreign-owned ids both
// yield ErrNotFound.
func (s *Expenses) Get(id, userID int64) (*models.Expense, error) {
	return s.db.GetExpense(id, userID)
}

// Update replaces an owned expense's category, amount and comments. The
// amount is validated like Add; updated_at is refreshed, created_at is
// immutable.
func (s *Expenses) Update(id, userID int64, category, amount, comments string) error {
	value, err := parseAmount(amount)
	if err != nil {
		return err
	}
	return s.db.UpdateExpense(id, userID, strings.TrimSpace(category), value, strings.TrimSpace(comments))
}

// Delete removes an owned expense. Deleting a missing or foreign-owned id
// is a silent no-op.
func (s *Expenses) Delete(id, userID int64) error {
	return s.db.DeleteExpense(id, userID)
}

// AggregateByCategory sums a user's expenses per exact category string.
// A user with no expenses gets an empty slice.
func (s *Expenses) AggregateByCategory(userID int64) ([]models.CategoryTotal, error) {
	return s.db.CategoryTotals(userID)
}
