package picture

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/server"
)

// Registrar ties the picture routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the picture service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(routes *server.Routes) {
	h := NewHandler(NewService(r.appCtx))

	routes.Protected("/pictures", h.List, http.MethodGet)
	routes.Limited("/pictures", h.Upload, http.MethodPost)
	routes.Limited("/pictures/reorder", h.Reorder, http.MethodPost)
	routes.Limited("/pictures/{id:[0-9]+}", h.Delete, http.MethodDelete)
	routes.Limited("/pictures/{id:[0-9]+}/primary", h.SetPrimary, http.MethodPatch)
}
