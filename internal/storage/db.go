package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/swpbansode/expense-tracker/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to a
	// different user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("storage: not found")
	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("storage: username already exists")
)

// timeFormat is how timestamps are stored: RFC 3339 in UTC.
const timeFormat = time.RFC3339Nano

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer at a time; a single pooled connection also
	// keeps :memory: databases coherent across statements.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func now() (time.Time, string) {
	t := time.Now().UTC()
	return t, t.Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

// isUniqueViolation reports whether err is the driver's UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser creates a new user with the given username and password hash.
func (db *DB) CreateUser(username, passwordHash string) (*models.User, error) {
	_, ts := now()
	result, err := db.conn.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, passwordHash, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username. Lookups are
// case-sensitive, matching how usernames are stored.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// CreateExpense inserts a new expense for a user. created_at and updated_at
// are both set to the current UTC time.
func (db *DB) CreateExpense(userID int64, category string, amount float64, comments string) (*models.Expense, error) {
	t, ts := now()
	result, err := db.conn.Exec(
		"INSERT INTO expenses (user_id, category, amount, comments, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		userID, category, amount, comments, ts, ts,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Expense{
		ID:        id,
		UserID:    userID,
		Category:  category,
		Amount:    amount,
		Comments:  comments,
		CreatedAt: t,
		UpdatedAt: t,
	}, nil
}

// GetExpense retrieves an expense by id, scoped to its owner. A missing row
// and a row owned by another user both return ErrNotFound.
func (db *DB) GetExpense(id, userID int64) (*models.Expense, error) {
	row := db.conn.QueryRow(
		"SELECT id, user_id, category, amount, comments, created_at, updated_at FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)

	var e models.Expense
	var createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Comments, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

// ListExpenses retrieves all expenses owned by a user, newest id first.
func (db *DB) ListExpenses(userID int64) ([]models.Expense, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, category, amount, comments, created_at, updated_at FROM expenses WHERE user_id = ? ORDER BY id DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Comments, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		e.UpdatedAt = parseTime(updatedAt)
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// UpdateExpense updates an owned expense's category, amount and comments,
// refreshing updated_at. created_at is never touched. Returns ErrNotFound
// when the row is missing or owned by another user.
func (db *DB) UpdateExpense(id, userID int64, category string, amount float64, comments string) error {
	_, ts := now()
	result, err := db.conn.Exec(
		"UPDATE expenses SET category = ?, amount = ?, comments = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		category, amount, comments, ts, id, userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense deletes an owned expense. Deleting a missing or
// foreign-owned id is a silent no-op.
func (db *DB) DeleteExpense(id, userID int64) error {
	_, err := db.conn.Exec("DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	return err
}

// CategoryTotals sums a user's expenses per exact category string, ordered
// by category for deterministic output.
func (db *DB) CategoryTotals(userID int64) ([]models.CategoryTotal, error) {
	rows, err := db.conn.Query(
		"SELECT category, SUM(amount) FROM expenses WHERE user_id = ? GROUP BY category ORDER BY category",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}
