package profile

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/service/view"
	"github.com/oggyb/swipe-match/internal/utils/request"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// Handler exposes the profile service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Show handles GET /profile.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	user, pics, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, view.NewOwnUser(user, pics))
}

// Update handles PUT /profile.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var in UpdateInput
	if err := request.DecodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	user, pics, err := h.svc.Update(r.Context(), userID, in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Profile updated successfully", view.NewOwnUser(user, pics))
}

// Delete handles DELETE /profile.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), userID); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Account deleted successfully", nil)
}

type likeCountResponse struct {
	UserID uint64 `json:"user_id"`
	Count  int64  `json:"count"`
}

// LikeCount handles GET /profile/likes/count.
func (h *Handler) LikeCount(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	count, err := h.svc.LikeCount(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, likeCountResponse{UserID: userID, Count: count})
}
