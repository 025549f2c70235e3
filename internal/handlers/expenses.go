package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/swpbansode/expense-tracker/internal/models"
	"github.com/swpbansode/expense-tracker/internal/service"
)

// ListViewModel is the data passed to the expense list template.
type ListViewModel struct {
	User     *models.User
	Flash    string
	Expenses []models.Expense
}

// FormViewModel is the data passed to the add/edit form template.
type FormViewModel struct {
	User    *models.User
	Flash   string
	Expense *models.Expense
	IsEdit  bool
}

// ListExpenses renders the authenticated user's expenses, newest first.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	expenses, err := h.expenses.List(user.ID)
	if err != nil {
		slog.Error("list expenses failed", "user_id", user.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "expenses.html", ListViewModel{
		User:     user,
		Flash:    h.popFlash(w, r),
		Expenses: expenses,
	})
}

// AddExpenseForm renders the form to create a new expense.
func (h *Handlers) AddExpenseForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "add_edit.html", FormViewModel{
		User:  GetUserFromContext(r),
		Flash: h.popFlash(w, r),
	})
}

// AddExpense handles the creation of a new expense.
func (h *Handlers) AddExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := r.ParseForm(); err != nil {
		h.redirectFlash(w, r, "/add", "Invalid amount format")
		return
	}

	_, err := h.expenses.Add(user.ID, r.FormValue("category"), r.FormValue("amount"), r.FormValue("comments"))
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		h.redirectFlash(w, r, "/add", "Invalid amount format")
	case err != nil:
		slog.Error("add expense failed", "user_id", user.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		h.redirectFlash(w, r, "/expenses", "Expense added")
	}
}

// EditExpenseForm renders the form to edit an owned expense. A missing or
// foreign-owned id redirects back to the list.
func (h *Handlers) EditExpenseForm(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	expense, ok := h.ownedExpense(w, r, user)
	if !ok {
		return
	}

	h.render(w, r, "add_edit.html", FormViewModel{
		User:    user,
		Flash:   h.popFlash(w, r),
		Expense: expense,
		IsEdit:  true,
	})
}

// EditExpense handles the update of an owned expense.
func (h *Handlers) EditExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	expense, ok := h.ownedExpense(w, r, user)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.redirectFlash(w, r, fmt.Sprintf("/edit/%d", expense.ID), "Invalid amount format")
		return
	}

	err := h.expenses.Update(expense.ID, user.ID, r.FormValue("category"), r.FormValue("amount"), r.FormValue("comments"))
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		h.redirectFlash(w, r, fmt.Sprintf("/edit/%d", expense.ID), "Invalid amount format")
	case errors.Is(err, service.ErrNotFound):
		h.redirectFlash(w, r, "/expenses", "Not found")
	case err != nil:
		slog.Error("update expense failed", "user_id", user.ID, "expense_id", expense.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		h.redirectFlash(w, r, "/expenses", "Updated")
	}
}

// DeleteExpense removes an owned expense. The flash reads "Deleted" whether
// or not the row existed; deletion is idempotent.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if id, err := strconv.ParseInt(r.PathValue("id"), 10, 64); err == nil {
		if err := h.expenses.Delete(id, user.ID); err != nil {
			slog.Error("delete expense failed", "user_id", user.ID, "expense_id", id, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	h.redirectFlash(w, r, "/expenses", "Deleted")
}

// ownedExpense parses the id path segment and fetches the expense scoped to
// its owner. On any failure it flashes "Not found" and redirects to the
// list, reporting ok=false.
func (h *Handlers) ownedExpense(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Expense, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.redirectFlash(w, r, "/expenses", "Not found")
		return nil, false
	}

	expense, err := h.expenses.Get(id, user.ID)
	if errors.Is(err, service.ErrNotFound) {
		h.redirectFlash(w, r, "/expenses", "Not found")
		return nil, false
	}
	if err != nil {
		slog.Error("get expense failed", "user_id", user.ID, "expense_id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return expense, true
}
