package envdep

import (
	"net/http"
	"sync"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

type registration struct {
	pattern string
	handler http.Handler
}

// WebContext is the application-wide context of a web application: an attribute store
// plus the handlers and middleware the application registered. Integrations write their
// Injector into it and their hooks rework the registered handlers before the server
// starts.
type WebContext struct {
	*Attributes

	mu            sync.Mutex
	registrations []registration
	middleware    []Middleware
}

func NewWebContext() *WebContext {
	return &WebContext{Attributes: NewAttributes()}
}

// Handle registers h for pattern, replacing an earlier registration of the same pattern.
// Patterns use http.ServeMux syntax.
func (w *WebContext) Handle(pattern string, h http.Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.registrations {
		if w.registrations[i].pattern == pattern {
			w.registrations[i].handler = h
			return
		}
	}
	w.registrations = append(w.registrations, registration{pattern: pattern, handler: h})
}

func (w *WebContext) HandleFunc(pattern string, f func(http.ResponseWriter, *http.Request)) {
	w.Handle(pattern, http.HandlerFunc(f))
}

// Use appends middleware. The first middleware added is the outermost.
func (w *WebContext) Use(mw ...Middleware) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.middleware = append(w.middleware, mw...)
}

// Patterns returns the registered patterns in registration order.
func (w *WebContext) Patterns() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	patterns := make([]string, len(w.registrations))
	for i, r := range w.registrations {
		patterns[i] = r.pattern
	}
	return patterns
}

// Lookup returns the handler registered for pattern.
func (w *WebContext) Lookup(pattern string) (http.Handler, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.registrations {
		if r.pattern == pattern {
			return r.handler, true
		}
	}
	return nil, false
}

// Decorate replaces every registered handler with the result of fn. If fn fails for any
// registration no handler is replaced and the error is returned.
func (w *WebContext) Decorate(fn func(pattern string, h http.Handler) (http.Handler, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	decorated := make([]http.Handler, len(w.registrations))
	for i, r := range w.registrations {
		h, err := fn(r.pattern, r.handler)
		if err != nil {
			return err
		}
		decorated[i] = h
	}
	for i := range w.registrations {
		w.registrations[i].handler = decorated[i]
	}
	return nil
}

// Handler builds the application's root handler: a ServeMux with every registration,
// wrapped by the middleware chain.
func (w *WebContext) Handler() http.Handler {
	w.mu.Lock()
	defer w.mu.Unlock()

	mux := http.NewServeMux()
	for _, r := range w.registrations {
		mux.Handle(r.pattern, r.handler)
	}
	var h http.Handler = mux
	for i := len(w.middleware) - 1; i >= 0; i-- {
		h = w.middleware[i](h)
	}
	return h
}
