package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeGet(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHome(func() time.Time { return fixed })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world","time":"2024-01-01T00:00:00.000Z"}`, w.Body.String())
}

func TestHomeGetNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2024, 6, 15, 12, 30, 45, 123456789, loc)
	h := NewHome(func() time.Time { return local })

	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var got Greeting
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "2024-06-15T09:30:45.123Z", got.Time)
}

func TestHomeGetUsesWallClock(t *testing.T) {
	h := NewHome(nil)

	before := time.Now().UTC().Truncate(time.Millisecond)
	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))
	after := time.Now().UTC()

	var got Greeting
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "world", got.Hello)

	ts, err := time.Parse(time.RFC3339Nano, got.Time)
	require.NoError(t, err)
	assert.False(t, ts.Before(before), "timestamp %s before %s", ts, before)
	assert.False(t, ts.After(after), "timestamp %s after %s", ts, after)
}

func TestHomeRoutes(t *testing.T) {
	routes := NewHome(nil).Routes()

	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/", routes[0].Path)
	assert.NotNil(t, routes[0].Handler)
}
