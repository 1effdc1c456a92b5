package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/courier/pkg/routes"
)

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func threadGroups() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/logs",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: status(http.StatusOK)},
			},
		},
		{
			Prefix: "/threads",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{id}", Handler: status(http.StatusOK)},
			},
			Children: []routes.Group{
				{
					Prefix: "/{id}",
					Routes: []routes.Route{
						{Method: "GET", Pattern: "/source", Handler: status(http.StatusAccepted)},
					},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, threadGroups()...)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list", "GET", "/logs", http.StatusOK},
		{"thread", "GET", "/threads/abc", http.StatusOK},
		{"nested child", "GET", "/threads/abc/source", http.StatusAccepted},
		{"wrong method", "POST", "/logs", http.StatusMethodNotAllowed},
		{"unknown", "GET", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	got := routes.Patterns(threadGroups()...)
	want := []string{
		"GET /logs",
		"GET /threads/{id}",
		"GET /threads/{id}/source",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}

func TestPatternAnyMethod(t *testing.T) {
	got := routes.Patterns(routes.Group{
		Routes: []routes.Route{{Pattern: "", Handler: status(http.StatusOK)}},
	})
	if !slices.Equal(got, []string{"/"}) {
		t.Errorf("Patterns() = %v, want [/]", got)
	}
}
