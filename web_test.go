package envdep

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textHandler(text string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, text)
	})
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestWebContext_Handle(t *testing.T) {
	w := NewWebContext()
	w.Handle("/a", textHandler("a1"))
	w.HandleFunc("/b", func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(rw, "b")
	})
	w.Handle("/a", textHandler("a2"))

	assert.Equal(t, []string{"/a", "/b"}, w.Patterns())

	_, ok := w.Lookup("/missing")
	assert.False(t, ok)
	h, ok := w.Lookup("/a")
	require.True(t, ok)
	assert.Equal(t, "a2", serve(t, h, "/a").Body.String())

	root := w.Handler()
	assert.Equal(t, "a2", serve(t, root, "/a").Body.String())
	assert.Equal(t, "b", serve(t, root, "/b").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(t, root, "/c").Code)
}

func TestWebContext_MiddlewareOrder(t *testing.T) {
	w := NewWebContext()
	w.Handle("/", textHandler("handler"))

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(rw, name+">")
				next.ServeHTTP(rw, r)
			})
		}
	}
	w.Use(tag("outer"), tag("inner"))

	assert.Equal(t, "outer>inner>handler", serve(t, w.Handler(), "/").Body.String())
}

func TestWebContext_Decorate(t *testing.T) {
	w := NewWebContext()
	w.Handle("/a", textHandler("a"))
	w.Handle("/b", textHandler("b"))

	require.NoError(t, w.Decorate(func(pattern string, h http.Handler) (http.Handler, error) {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(rw, strings.TrimPrefix(pattern, "/")+":")
			h.ServeHTTP(rw, r)
		}), nil
	}))
	root := w.Handler()
	assert.Equal(t, "a:a", serve(t, root, "/a").Body.String())
	assert.Equal(t, "b:b", serve(t, root, "/b").Body.String())
}

func TestWebContext_Decorate_FailureReplacesNothing(t *testing.T) {
	w := NewWebContext()
	w.Handle("/a", textHandler("a"))
	w.Handle("/b", textHandler("b"))

	err := w.Decorate(func(pattern string, h http.Handler) (http.Handler, error) {
		if pattern == "/b" {
			return nil, errors.New("cannot decorate /b")
		}
		return textHandler("decorated"), nil
	})

	require.EqualError(t, err, "cannot decorate /b")
	assert.Equal(t, "a", serve(t, w.Handler(), "/a").Body.String())
}
