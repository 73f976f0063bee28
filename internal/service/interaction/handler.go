package interaction

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/service/view"
	"github.com/oggyb/swipe-match/internal/utils/request"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// Handler exposes the interaction service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type likeResponse struct {
	Matched bool `json:"matched"`
}

// Like handles POST /likes/{userId}.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	from, to, err := pair(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	res, err := h.svc.Like(r.Context(), from, to)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	msg := "User liked successfully"
	if res.Matched {
		msg = "It's a match!"
	}
	response.Message(w, http.StatusCreated, msg, likeResponse{Matched: res.Matched})
}

// Unlike handles DELETE /likes/{userId}; removing a missing like is still 200.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	from, to, err := pair(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	removed, err := h.svc.Unlike(r.Context(), from, to)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "User unliked successfully", map[string]bool{"removed": removed})
}

// Dislike handles POST /dislikes/{userId}.
func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	from, to, err := pair(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Dislike(r.Context(), from, to); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusCreated, "User disliked successfully", nil)
}

// Undislike handles DELETE /dislikes/{userId}.
func (h *Handler) Undislike(w http.ResponseWriter, r *http.Request) {
	from, to, err := pair(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	removed, err := h.svc.Undislike(r.Context(), from, to)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Dislike removed successfully", map[string]bool{"removed": removed})
}

// LikedPeople handles GET /likes?page&per_page.
func (h *Handler) LikedPeople(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	page, pics, err := h.svc.LikedPeople(r.Context(), userID, request.Page(r, h.svc.appCtx.Config))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	items := make([]view.LikedPerson, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, view.NewLikedPerson(p, pics[p.ToUserID]))
	}
	response.Paginated(w, items, page.Meta())
}

func pair(r *http.Request) (from, to uint64, err error) {
	from, err = request.UserID(r)
	if err != nil {
		return 0, 0, err
	}
	to, err = request.PathID(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
