package envdep

import (
	"context"
	"fmt"
	"net/http"
)

// Hook is the one-time setup an integration runs on the web context after its Injector
// has been registered.
type Hook interface {
	Process(ctx context.Context, w *WebContext) error
}

// HookFunc adapts a function to a Hook.
type HookFunc func(ctx context.Context, w *WebContext) error

func (f HookFunc) Process(ctx context.Context, w *WebContext) error {
	return f(ctx, w)
}

// HandlerInjectionHook injects the registered Injector into every handler of the web
// context that is a pointer to a struct, and wraps every handler so that requests carry
// the Injector on their context (see FromContext and Get). Middleware is not injected;
// it can still reach dependencies through the request context.
//
// Handler fields are only written once every handler has resolved. If any of them
// fails, no handler is changed.
type HandlerInjectionHook struct{}

func (HandlerInjectionHook) Process(ctx context.Context, w *WebContext) error {
	inj, err := InjectorFrom(w)
	if err != nil {
		return err
	}
	var pending []*pendingInjection
	err = w.Decorate(func(pattern string, h http.Handler) (http.Handler, error) {
		// A second run replaces the injector rather than stacking wrappers.
		if ih, ok := h.(*injectingHandler); ok {
			h = ih.next
		}
		if Injectable(h) {
			p, err := inj.resolve(ctx, h)
			if err != nil {
				return nil, fmt.Errorf("handler %q: %w", pattern, err)
			}
			pending = append(pending, p)
		}
		return &injectingHandler{injector: inj, next: h}, nil
	})
	if err != nil {
		return err
	}
	for _, p := range pending {
		p.apply()
	}
	return nil
}

// unwrapInjectingHandlers removes the request-context wrappers that carry inj.
func unwrapInjectingHandlers(w *WebContext, inj *Injector) {
	_ = w.Decorate(func(_ string, h http.Handler) (http.Handler, error) {
		if ih, ok := h.(*injectingHandler); ok && ih.injector == inj {
			return ih.next, nil
		}
		return h, nil
	})
}

type injectingHandler struct {
	injector *Injector
	next     http.Handler
}

func (h *injectingHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	h.next.ServeHTTP(rw, r.WithContext(WithInjector(r.Context(), h.injector)))
}
