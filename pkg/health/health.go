// Package health implements a json health endpoint with named checkers.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker reports whether a single dependency is usable.
type Checker interface {
	Check(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Response is the json body of a health request.
type Response struct {
	Status string            `json:"status"`
	Errors map[string]string `json:"errors,omitempty"`
}

type Option func(*Health)

// WithChecker adds a checker whose failure makes the endpoint unhealthy.
func WithChecker(name string, c Checker) Option {
	return func(h *Health) {
		h.checkers[name] = c
	}
}

// WithObserver adds a checker whose failure is reported but does not
// affect the overall status.
func WithObserver(name string, c Checker) Option {
	return func(h *Health) {
		h.observers[name] = c
	}
}

// WithTimeout bounds the time every check may take. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(h *Health) {
		h.timeout = d
	}
}

type Health struct {
	checkers  map[string]Checker
	observers map[string]Checker
	timeout   time.Duration
}

func NewHealth(opts ...Option) *Health {
	h := &Health{
		checkers:  make(map[string]Checker),
		observers: make(map[string]Checker),
		timeout:   30 * time.Second,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		mu          sync.Mutex
		wg          sync.WaitGroup
		checkErrors = make(map[string]string)
		unhealthy   bool
	)

	run := func(name string, checker Checker, observable bool) {
		defer wg.Done()

		errCh := make(chan error, 1)
		go func() { errCh <- checker.Check(ctx) }()

		var msg string
		select {
		case err := <-errCh:
			if err == nil {
				return
			}
			msg = err.Error()
		case <-ctx.Done():
			msg = "max check time exceeded"
		}

		mu.Lock()
		checkErrors[name] = msg
		if !observable {
			unhealthy = true
		}
		mu.Unlock()
	}

	for name, checker := range h.checkers {
		wg.Add(1)
		go run(name, checker, false)
	}
	for name, checker := range h.observers {
		wg.Add(1)
		go run(name, checker, true)
	}

	wg.Wait()

	code := http.StatusOK
	if unhealthy {
		code = http.StatusServiceUnavailable
	}

	resp := Response{Status: http.StatusText(code)}
	if len(checkErrors) > 0 {
		resp.Errors = checkErrors
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
