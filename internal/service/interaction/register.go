package interaction

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/server"
)

// Registrar ties the interaction routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the interaction service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the like/dislike routes. Writes are rate limited per user.
func (r *Registrar) Register(routes *server.Routes) {
	h := NewHandler(NewService(r.appCtx))

	routes.Protected("/likes", h.LikedPeople, http.MethodGet)
	routes.Limited("/likes/{userId:[0-9]+}", h.Like, http.MethodPost)
	routes.Limited("/likes/{userId:[0-9]+}", h.Unlike, http.MethodDelete)
	routes.Limited("/dislikes/{userId:[0-9]+}", h.Dislike, http.MethodPost)
	routes.Limited("/dislikes/{userId:[0-9]+}", h.Undislike, http.MethodDelete)
}
