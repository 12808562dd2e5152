package handlers

import (
	"net/http"
	"time"

	"github.com/bengobox/home-service/internal/httpapi"
)

// TimeLayout renders timestamps the way a JavaScript Date serialises to
// JSON: UTC, millisecond precision, Z suffix.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Greeting is the payload served at the root path.
type Greeting struct {
	Hello string `json:"hello"`
	Time  string `json:"time"`
}

// Home serves the root resource.
type Home struct {
	now func() time.Time
}

// NewHome builds the resource. A nil clock falls back to time.Now.
func NewHome(now func() time.Time) *Home {
	if now == nil {
		now = time.Now
	}
	return &Home{now: now}
}

// Routes implements httpapi.Resource.
func (h *Home) Routes() []httpapi.Route {
	return []httpapi.Route{
		{Method: http.MethodGet, Path: "/", Handler: http.HandlerFunc(h.Get)},
	}
}

// Get responds with the fixed greeting and the current time.
func (h *Home) Get(w http.ResponseWriter, r *http.Request) {
	httpapi.JSON(w, http.StatusOK, Greeting{
		Hello: "world",
		Time:  h.now().UTC().Format(TimeLayout),
	})
}
