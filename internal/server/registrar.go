package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Registrar is a common interface for all HTTP module registrars
type Registrar interface {
	Register(routes *Routes)
}

// Routes is the router handed to registrars, with the auth and
// rate-limit chains pre-built.
type Routes struct {
	Router *mux.Router
	auth   func(http.Handler) http.Handler
	limit  func(http.Handler) http.Handler
}

// NewRoutes wraps router. auth must put the user id into the request context;
// limit runs after auth so buckets are per user.
func NewRoutes(router *mux.Router, auth, limit func(http.Handler) http.Handler) *Routes {
	if auth == nil {
		auth = passthrough
	}
	if limit == nil {
		limit = passthrough
	}
	return &Routes{Router: router, auth: auth, limit: limit}
}

// Public registers an unauthenticated route.
func (rt *Routes) Public(path string, h http.HandlerFunc, methods ...string) {
	rt.Router.Handle(path, h).Methods(methods...)
}

// Protected registers a route that requires a bearer token.
func (rt *Routes) Protected(path string, h http.HandlerFunc, methods ...string) {
	rt.Router.Handle(path, rt.auth(h)).Methods(methods...)
}

// Limited registers an authenticated, per-user rate-limited route.
func (rt *Routes) Limited(path string, h http.HandlerFunc, methods ...string) {
	rt.Router.Handle(path, rt.auth(rt.limit(h))).Methods(methods...)
}

func passthrough(next http.Handler) http.Handler { return next }
