package account

import (
	"net/http"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/server"
)

// Registrar ties the auth routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the account service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches /auth. Register and login are the only public routes.
func (r *Registrar) Register(routes *server.Routes) {
	h := NewHandler(NewService(r.appCtx))

	routes.Public("/auth/register", h.Register, http.MethodPost)
	routes.Public("/auth/login", h.Login, http.MethodPost)
	routes.Protected("/auth/me", h.Me, http.MethodGet)
	routes.Protected("/auth/logout", h.Logout, http.MethodPost)
}
