package httpapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps defines router construction dependencies.
type RouterDeps struct {
	Resources      []Resource
	Middlewares    []func(http.Handler) http.Handler
	AllowedOrigins []string
	MetricsHandler http.Handler
}

// allowCandidates are the methods probed when building an Allow header.
var allowCandidates = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// NewRouter wires HTTP routes.
func NewRouter(deps RouterDeps) http.Handler {
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(deps.Middlewares...)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	// Preflights fall through to chi so only declared paths answer them.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     origins,
		AllowedMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:     []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:     []string{"X-Request-ID"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))

	methodNotAllowed := func(w http.ResponseWriter, req *http.Request) {
		if allow := allowedMethods(r, req.URL.Path); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		MethodNotAllowed(w, req)
	}
	r.NotFound(NotFound)
	r.MethodNotAllowed(methodNotAllowed)

	declared := map[string][]string{}
	var paths []string
	for _, res := range deps.Resources {
		for _, route := range res.Routes() {
			r.Method(route.Method, route.Path, route.Handler)
			if _, seen := declared[route.Path]; !seen {
				paths = append(paths, route.Path)
			}
			declared[route.Path] = append(declared[route.Path], strings.ToUpper(route.Method))
		}
	}
	for _, path := range paths {
		if slices.Contains(declared[path], http.MethodOptions) {
			continue
		}
		r.Method(http.MethodOptions, path, preflight(declared[path], methodNotAllowed))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}

// preflight accepts a CORS preflight asking for one of methods and rejects
// every other OPTIONS request.
func preflight(methods []string, reject http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requested := strings.ToUpper(req.Header.Get("Access-Control-Request-Method"))
		if req.Header.Get("Origin") != "" && requested != "" && slices.Contains(methods, requested) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		reject(w, req)
	})
}

func allowedMethods(routes chi.Routes, path string) []string {
	var allow []string
	for _, method := range allowCandidates {
		if routes.Match(chi.NewRouteContext(), method, path) {
			allow = append(allow, method)
		}
	}
	return allow
}
