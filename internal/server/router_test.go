package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubHandler struct{ routes []Route }

func (s stubHandler) Routes() []Route { return s.routes }

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("unexpected order %s", got)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Auth Only On Flagged Routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.RequireAuth(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		})
		ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
		r.Handler(stubHandler{routes: []Route{
			{Method: http.MethodGet, Path: "/open", Handler: ok},
			{Method: http.MethodGet, Path: "/closed", Auth: true, Handler: ok},
		}})

		for path, want := range map[string]int{"/open": http.StatusNoContent, "/closed": http.StatusUnauthorized} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != want {
				t.Errorf("%s: expected %d, got %d", path, want, rec.Code)
			}
		}
	})

	t.Run("Route Pattern", func(t *testing.T) {
		if got := (Route{Method: "GET", Path: "/movies/{title}"}).Pattern(); got != "GET /movies/{title}" {
			t.Errorf("unexpected pattern %s", got)
		}
		if got := (Route{Path: "/"}).Pattern(); got != "/" {
			t.Errorf("unexpected pattern %s", got)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestID Generated", func(t *testing.T) {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(RequestIDHeader) == "" {
				t.Error("expected request id on request")
			}
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected request id on response")
		}
	})

	t.Run("RequestID Kept", func(t *testing.T) {
		h := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Header().Get(RequestIDHeader) != "abc" {
			t.Errorf("expected caller id kept, got %s", rec.Header().Get(RequestIDHeader))
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		h := Recoverer(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}
