package discovery

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/server"
)

// Registrar ties the discovery routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(routes *server.Routes) {
	h := NewHandler(NewService(r.appCtx))

	routes.Protected("/people", h.People, http.MethodGet)
	routes.Protected("/people/{userId:[0-9]+}", h.Person, http.MethodGet)
}
