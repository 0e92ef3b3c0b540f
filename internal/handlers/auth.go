package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/signcircle/backend/internal/auth"
	"github.com/signcircle/backend/internal/domain"
	"github.com/signcircle/backend/internal/logging"
	"github.com/signcircle/backend/internal/repositories"
)

// AuthHandler implements member authentication endpoints.
type AuthHandler struct {
	Credentials CredentialStore
	Users       UserDirectory
	Sessions    SessionManager
	Archive     Archivist
	Limiter     RateLimiter
	NowFunc     func() time.Time
}

// SignUp handles POST /api/v1/auth/signup requests. It creates both the login
// credential and the member profile, then issues a session.
func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "signup") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	if h.Credentials == nil || h.Users == nil || h.Sessions == nil {
		logger.Error("authentication dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authentication services unavailable"})
		return
	}

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Handle = strings.TrimSpace(req.Handle)
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || req.Password == "" || req.Handle == "" || req.Name == "" {
		logger.Warn("signup missing fields", "email", req.Email, "handle", req.Handle)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "name, handle, email, and password are required"})
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		logger.Warn("signup invalid email", "email", req.Email, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
		return
	}

	if len(req.Password) < 8 {
		logger.Warn("signup password too short", "email", req.Email)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("signup failed to hash password", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to secure password"})
		return
	}

	rec := domain.Record{}
	for k, v := range req.Profile {
		rec[k] = v
	}
	rec["id"] = uuid.NewString()
	rec["name"] = req.Name
	rec["handle"] = req.Handle
	rec["email"] = req.Email

	user, err := h.Users.Create(rec, req.UserType)
	if err != nil {
		logger.Warn("signup profile rejected", "handle", req.Handle, "error", err)
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	cred := repositories.Credential{
		UserID:       user.ID(),
		Handle:       req.Handle,
		Email:        req.Email,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Credentials.Create(ctx, cred); err != nil {
		// Roll the profile back so a handle conflict leaves no orphan.
		_ = h.Users.Delete(user.ID())
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("signup conflict", "handle", req.Handle)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "account already exists"})
			return
		}
		logger.Error("signup failed to store credential", "error", err, "handle", req.Handle)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create account"})
		return
	}

	archiveSave(ctx, h.Archive, "users", user)

	tokens, err := h.Sessions.Issue(ctx, user.ID())
	if err != nil {
		logger.Error("signup failed to issue session", "error", err, "userId", user.ID())
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, authResponse{Tokens: tokens, User: user.Serialize()})
}

// Login handles POST /api/v1/auth/login requests. Members may log in with
// either their handle or their email address.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	if h.Credentials == nil || h.Sessions == nil {
		logger.Error("authentication dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authentication services unavailable"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Handle = strings.TrimSpace(req.Handle)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if (req.Handle == "" && req.Email == "") || req.Password == "" {
		logger.Warn("login missing credentials")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "handle or email, and password are required"})
		return
	}

	var (
		cred repositories.Credential
		err  error
	)
	if req.Handle != "" {
		cred, err = h.Credentials.FindByHandle(ctx, req.Handle)
	} else {
		cred, err = h.Credentials.FindByEmail(ctx, req.Email)
	}
	if err != nil {
		logger.Warn("login lookup failed", "handle", req.Handle, "email", req.Email, "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", cred.UserID)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	tokens, err := h.Sessions.Issue(ctx, cred.UserID)
	if err != nil {
		logger.Error("failed to issue session", "error", err, "userId", cred.UserID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	resp := authResponse{Tokens: tokens}
	if h.Users != nil {
		if user, err := h.Users.Get(cred.UserID); err == nil {
			if _, err := h.Users.SetOnline(cred.UserID, true); err == nil {
				archiveSave(ctx, h.Archive, "users", user)
			}
			resp.User = user.Serialize()
		}
	}

	respondJSON(ctx, w, http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new session.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session manager unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session service unavailable"})
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid refresh payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		logger.Warn("missing refresh token")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "refresh token is required"})
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrRefreshTokenExpired) || errors.Is(err, auth.ErrSessionNotFound) {
			status = http.StatusUnauthorized
		}
		logger.Error("refresh failed", "error", err, "status", status)
		respondJSON(ctx, w, status, map[string]string{"error": "unable to refresh session"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, authResponse{Tokens: tokens})
}

// Logout handles POST /api/v1/auth/logout requests by revoking the refresh
// token. Logout always succeeds.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && h.Sessions != nil {
		h.Sessions.Revoke(ctx, strings.TrimSpace(req.RefreshToken))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged out"})
}

type signUpRequest struct {
	Name     string         `json:"name"`
	Handle   string         `json:"handle"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	UserType string         `json:"userType"`
	Profile  map[string]any `json:"profile"`
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	Tokens auth.TokenPair `json:"tokens"`
	User   domain.Record  `json:"user,omitempty"`
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
