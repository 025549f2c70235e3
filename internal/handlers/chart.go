package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/swpbansode/expense-tracker/internal/models"
)

// ChartViewModel holds data for the chart page shell.
type ChartViewModel struct {
	User  *models.User
	Flash string
}

// ChartData is the payload of the chart data API. Labels and values are
// parallel arrays and always serialize as arrays, never null.
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChartPage renders the chart view shell; the data is fetched by the page
// from /api/chart_data.
func (h *Handlers) ChartPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "chart.html", ChartViewModel{
		User:  GetUserFromContext(r),
		Flash: h.popFlash(w, r),
	})
}

// ChartData returns per-category spending sums for the current user.
// Unauthenticated callers get empty arrays rather than an error.
func (h *Handlers) ChartData(w http.ResponseWriter, r *http.Request) {
	data := ChartData{Labels: []string{}, Values: []float64{}}

	if user := h.currentUser(r); user != nil {
		totals, err := h.expenses.AggregateByCategory(user.ID)
		if err != nil {
			slog.Error("aggregate by category failed", "user_id", user.ID, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		for _, ct := range totals {
			data.Labels = append(data.Labels, ct.Category)
			data.Values = append(data.Values, ct.Total)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode chart data failed", "error", err)
	}
}
