package account

import (
	"net/http"
	"time"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/middleware"
	"github.com/oggyb/swipe-match/internal/service/view"
	"github.com/oggyb/swipe-match/internal/utils/request"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// Handler exposes the account service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type sessionResponse struct {
	User      view.User `json:"user"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newSessionResponse(s *Session) sessionResponse {
	return sessionResponse{
		User:      view.NewOwnUser(s.User, nil),
		Token:     s.Token,
		TokenType: "Bearer",
		ExpiresAt: s.ExpiresAt,
	}
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := request.DecodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.svc.Register(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusCreated, "User registered successfully", newSessionResponse(session))
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := request.DecodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.svc.Login(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Login successful", newSessionResponse(session))
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	user, pics, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, view.NewOwnUser(user, pics))
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		response.Error(w, r, svcErr.ErrUnauthorized)
		return
	}

	if err := h.svc.Logout(r.Context(), claims); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Logged out successfully", nil)
}
