package discovery

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/service/view"
	"github.com/oggyb/swipe-match/internal/utils/request"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// Handler exposes discovery over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// People handles GET /people?page&per_page.
func (h *Handler) People(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	page, pics, err := h.svc.Recommended(r.Context(), userID, request.Page(r, h.svc.appCtx.Config))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	items := make([]view.User, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, view.NewRankedUser(u, pics[u.ID]))
	}
	response.Paginated(w, items, page.Meta())
}

// Person handles GET /people/{userId}.
func (h *Handler) Person(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	targetID, err := request.PathID(r, "userId")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	user, pics, err := h.svc.GetByID(r.Context(), userID, targetID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, view.NewUser(user, pics))
}
