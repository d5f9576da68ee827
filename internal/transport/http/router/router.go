package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	// Core auth
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Password management
	PasswordChange(w http.ResponseWriter, r *http.Request)
	PasswordResetRequest(w http.ResponseWriter, r *http.Request)
	PasswordResetConfirm(w http.ResponseWriter, r *http.Request)

	// Session management
	SessionsRevoke(w http.ResponseWriter, r *http.Request)

	// Moderation (account-level)
	LockUser(w http.ResponseWriter, r *http.Request)
	UnlockUser(w http.ResponseWriter, r *http.Request)

	// Admin (privileged)
	AdminSetUserRole(w http.ResponseWriter, r *http.Request)
	AdminRevokeSessions(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler

	AuthMW  func(http.Handler) http.Handler
	ModMW   func(http.Handler) http.Handler
	AdminMW func(http.Handler) http.Handler

	// Applied to every route (request id, logging, ...). Optional.
	Base []func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.ModMW == nil {
		return nil, fmt.Errorf("nil Mod middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()
	for _, mw := range deps.Base {
		r.Use(mw)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		// --- Core auth ---
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)
		r.Post("/refresh", deps.Auth.Refresh)
		r.Post("/logout", deps.Auth.Logout)
		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)

		// --- Password reset (unauthenticated by design) ---
		r.Post("/password/reset/request", deps.Auth.PasswordResetRequest)
		r.Post("/password/reset/confirm", deps.Auth.PasswordResetConfirm)

		// --- Account / session management ---
		r.With(deps.AuthMW).Post("/password/change", deps.Auth.PasswordChange)
		r.With(deps.AuthMW).Post("/sessions/revoke", deps.Auth.SessionsRevoke)

		// --- Moderation (account-level) ---
		r.Route("/mod", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.ModMW)

			r.Post("/users/{id}/lock", deps.Auth.LockUser)
			r.Post("/users/{id}/unlock", deps.Auth.UnlockUser)
		})

		// --- Admin (privileged) ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.AdminMW)

			r.Post("/users/{id}/role", deps.Auth.AdminSetUserRole)
			r.Post("/users/{id}/sessions/revoke", deps.Auth.AdminRevokeSessions)
		})
	})

	return r, nil
}
