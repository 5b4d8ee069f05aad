package server

import (
	"net/http"
)

// Route is a single endpoint served by a [Handler].
type Route struct {
	Method  string
	Path    string
	Auth    bool
	Handler http.HandlerFunc
}

// Pattern returns the [http.ServeMux] pattern for the route.
func (rt Route) Pattern() string {
	if rt.Method == "" {
		return rt.Path
	}
	return rt.Method + " " + rt.Path
}

// Handler groups the routes of one API surface.
type Handler interface {
	Routes() []Route
}

// Router registers handlers behind a middleware stack.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
}

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for routing.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	auth        Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// RequireAuth sets the middleware wrapped around routes flagged Auth.
func (r *BasicRouter) RequireAuth(m Middleware) {
	r.auth = m
}

// Handle registers a handler for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware. The mux answers 405 for other methods.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(Route{Method: method, Path: path}.Pattern(), r.Apply(handler))
}

// Handler registers every route of a custom [Handler] implementation.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		var h http.Handler = route.Handler
		if route.Auth && r.auth != nil {
			h = r.auth(h)
		}
		r.mux.Handle(route.Pattern(), r.Apply(h))
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
