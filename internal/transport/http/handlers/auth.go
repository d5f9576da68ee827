package http_handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mentorhub/community-platform/services/auth-service/internal/application/auth"
	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
	"github.com/mentorhub/community-platform/services/auth-service/internal/infrastructure/security"
	"github.com/mentorhub/community-platform/services/auth-service/internal/logger"
	"github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/dto"
	"github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/middleware"
	"github.com/mentorhub/community-platform/services/auth-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	refreshTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	created, err := h.svc.Register(r.Context(), auth.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", created.ID).
		Str("role", created.Role).
		Msg("user_registered")

	response.Created(w, dto.RegisterResponse{
		ID:       created.ID,
		FullName: created.FullName,
		Email:    created.Email,
		Role:     created.Role,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	security.SetRefreshToken(w, res.Tokens.RefreshToken, h.refreshTTL, h.secureCookies)

	response.OK(w, dto.LoginResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		TokenType:    res.Tokens.TokenType,
		ExpiresIn:    res.Tokens.ExpiresIn,
		User:         dto.NewUserView(res.User),
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshTok := h.readRefreshToken(r)
	if refreshTok == "" {
		response.WriteError(w, r, domain.ErrRefreshTokenInvalid())
		return
	}

	toks, err := h.svc.Refresh(r.Context(), refreshTok)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.RefreshResponse{
		AccessToken: toks.AccessToken,
		TokenType:   toks.TokenType,
		ExpiresIn:   toks.ExpiresIn,
	})
}

// Logout always answers 200: removing an already-removed token is fine.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if refreshTok := h.readRefreshToken(r); refreshTok != "" {
		if err := h.svc.Logout(r.Context(), refreshTok); err != nil {
			response.WriteError(w, r, err)
			return
		}
	}

	security.ClearRefreshToken(w, h.secureCookies)
	response.OK(w, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeResponse{User: dto.NewUserView(u)})
}

// -------- Password --------

func (h *AuthHandler) PasswordChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.PasswordChangeRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.PasswordChange(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.ClearRefreshToken(w, h.secureCookies)
	response.OK(w, dto.MessageResponse{Message: "password changed"})
}

// PasswordResetRequest always answers 200 so callers cannot probe which
// emails exist.
func (h *AuthHandler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.PasswordResetRequest(r.Context(), req.Email); err != nil {
		logger.WithCtx(r.Context()).Error().Err(err).Msg("password_reset_request_failed")
	}

	response.OK(w, dto.MessageResponse{Message: "if the account exists, a reset email has been sent"})
}

func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetConfirmRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.PasswordResetConfirm(r.Context(), req.Token, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MessageResponse{Message: "password reset"})
}

// -------- Sessions --------

func (h *AuthHandler) SessionsRevoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.RevokeOwnSessions(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.ClearRefreshToken(w, h.secureCookies)
	response.OK(w, dto.MessageResponse{Message: "sessions revoked"})
}

// -------- Moderation / admin --------

func (h *AuthHandler) LockUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "locked", h.svc.LockUser)
}

func (h *AuthHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "unlocked", h.svc.UnlockUser)
}

func (h *AuthHandler) AdminRevokeSessions(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "sessions revoked", h.svc.RevokeUserSessions)
}

func (h *AuthHandler) AdminSetUserRole(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	actorRole, _ := middleware.RoleFromContext(r.Context())

	targetID := chi.URLParam(r, "id")
	if strings.TrimSpace(targetID) == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	var req dto.SetUserRoleRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.SetUserRole(r.Context(), actorID, actorRole, targetID, req.Role); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ModerationResponse{Status: req.Role, UserID: targetID})
}

// -------- helpers --------

// moderate factors the shared shape of the actor-on-target endpoints:
// pull actor from context, target from the URL, run the use case, answer
// with the new status.
func (h *AuthHandler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	status string,
	op func(ctx context.Context, actorID, actorRole, targetID string) error,
) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	actorRole, _ := middleware.RoleFromContext(r.Context())

	targetID := chi.URLParam(r, "id")
	if strings.TrimSpace(targetID) == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	if err := op(r.Context(), actorID, actorRole, targetID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ModerationResponse{Status: status, UserID: targetID})
}

func (h *AuthHandler) readRefreshToken(r *http.Request) string {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(r, &req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if tok, err := security.ReadRefreshToken(r); err == nil {
		return tok
	}
	return ""
}
