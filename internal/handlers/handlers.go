package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/swpbansode/expense-tracker/internal/auth"
	"github.com/swpbansode/expense-tracker/internal/models"
	"github.com/swpbansode/expense-tracker/internal/service"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	users        *service.Users
	expenses     *service.Expenses
	sessions     *auth.Sessions
	templateDir  string
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(users *service.Users, expenses *service.Expenses, sessions *auth.Sessions, templateDir string, secureCookie bool) *Handlers {
	return &Handlers{
		users:        users,
		expenses:     expenses,
		sessions:     sessions,
		templateDir:  templateDir,
		secureCookie: secureCookie,
	}
}

// Router builds the HTTP route table.
func (h *Handlers) Router(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /signup", h.SignupForm)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)

	mux.Handle("GET /expenses", h.RequireAuth(http.HandlerFunc(h.ListExpenses)))
	mux.Handle("GET /add", h.RequireAuth(http.HandlerFunc(h.AddExpenseForm)))
	mux.Handle("POST /add", h.RequireAuth(http.HandlerFunc(h.AddExpense)))
	mux.Handle("GET /edit/{id}", h.RequireAuth(http.HandlerFunc(h.EditExpenseForm)))
	mux.Handle("POST /edit/{id}", h.RequireAuth(http.HandlerFunc(h.EditExpense)))
	mux.Handle("GET /delete/{id}", h.RequireAuth(http.HandlerFunc(h.DeleteExpense)))
	mux.Handle("GET /chart", h.RequireAuth(http.HandlerFunc(h.ChartPage)))

	// Soft-deny: the chart data API answers unauthenticated requests with
	// an empty payload instead of redirecting.
	mux.HandleFunc("GET /api/chart_data", h.ChartData)

	return mux
}

// currentUser resolves the session cookie to a user row. Any failure along
// the way (no cookie, bad token, deleted user) yields nil.
func (h *Handlers) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	userID, err := h.sessions.Resolve(cookie.Value)
	if err != nil {
		return nil
	}
	user, err := h.users.ByID(userID)
	if err != nil {
		return nil
	}
	return user
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// RequireAuth wraps handlers to require authentication, redirecting to the
// login page otherwise.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// HomeViewModel holds data for the landing page.
type HomeViewModel struct {
	User  *models.User
	Flash string
}

// Home renders the landing page for both anonymous and logged-in visitors.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home.html", HomeViewModel{User: h.currentUser(r), Flash: h.popFlash(w, r)})
}

// AuthViewModel holds data for the signup and login pages.
type AuthViewModel struct {
	User  *models.User
	Flash string
}

// SignupForm renders the signup page.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", AuthViewModel{User: h.currentUser(r), Flash: h.popFlash(w, r)})
}

// Signup handles the signup form submission.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectFlash(w, r, "/signup", "Missing username or password")
		return
	}

	_, err := h.users.Signup(r.FormValue("username"), r.FormValue("password"))
	switch {
	case errors.Is(err, service.ErrMissingFields):
		h.redirectFlash(w, r, "/signup", "Missing username or password")
	case errors.Is(err, service.ErrUsernameTaken):
		h.redirectFlash(w, r, "/signup", "Username already exists")
	case err != nil:
		slog.Error("signup failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		h.redirectFlash(w, r, "/login", "Account created. Please login.")
	}
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", AuthViewModel{User: h.currentUser(r), Flash: h.popFlash(w, r)})
}

// Login handles the login form submission. On success it issues a session
// token and redirects to the expense list.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectFlash(w, r, "/login", "Invalid credentials")
		return
	}

	user, err := h.users.Authenticate(r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		h.redirectFlash(w, r, "/login", "Invalid credentials")
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	h.redirectFlash(w, r, "/expenses", "Logged in")
}

// Logout clears the session cookie. Clearing an absent session is a no-op.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	h.redirectFlash(w, r, "/", "Logged out")
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "base.html"), filepath.Join(h.templateDir, viewName))
	if err != nil {
		slog.Error("template parse failed", "view", viewName, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("template execution failed", "view", viewName, "error", err)
	}
}

// redirectFlash sets a one-shot flash message and redirects.
func (h *Handlers) redirectFlash(w http.ResponseWriter, r *http.Request, location, message string) {
	h.setFlash(w, message)
	http.Redirect(w, r, location, http.StatusFound)
}
