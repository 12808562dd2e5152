package httpapi

import "net/http"

// Route binds one method and path to a handler.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
}

// Resource is anything that declares the routes it serves.
type Resource interface {
	Routes() []Route
}
