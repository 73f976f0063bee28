package profile

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/server"
)

// Registrar ties the profile routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(routes *server.Routes) {
	h := NewHandler(NewService(r.appCtx))

	routes.Protected("/profile", h.Show, http.MethodGet)
	routes.Limited("/profile", h.Update, http.MethodPut)
	routes.Limited("/profile", h.Delete, http.MethodDelete)
	routes.Protected("/profile/likes/count", h.LikeCount, http.MethodGet)
}
