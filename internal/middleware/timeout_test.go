// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// newTestTimeoutWriter creates a timeoutWriter for testing.
func newTestTimeoutWriter() (*timeoutWriter, *httptest.ResponseRecorder) {
	rr := httptest.NewRecorder()
	return newTimeoutWriter(rr), rr
}

// waitTimedOut blocks until the middleware has given up on the handler
// writing to w, calling each on every spin.
func waitTimedOut(w http.ResponseWriter, each func()) {
	tw := w.(*timeoutWriter)
	for {
		if each != nil {
			each()
		}
		tw.mu.Lock()
		timedOut := tw.timedOut
		tw.mu.Unlock()
		if timedOut {
			return
		}
		runtime.Gosched()
	}
}

func TestTimeout_FastHandlerPassesThrough(t *testing.T) {
	defer goleak.VerifyNone(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<h1>Post not found</h1>"))
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rr.Body.String(); body != "<h1>Post not found</h1>" {
		t.Errorf("Body = %q", body)
	}
}

func TestTimeout_SlowContentAPI(t *testing.T) {
	defer goleak.VerifyNone(t)

	upstreamErr := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Stands in for a content API call bound to the request context.
		select {
		case <-time.After(5 * time.Second):
			upstreamErr <- nil
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
			waitTimedOut(w, nil)
			upstreamErr <- r.Context().Err()
		}
	})

	rr := httptest.NewRecorder()
	Timeout(50*time.Millisecond)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if body := rr.Body.String(); body != "Request timeout" {
		t.Errorf("Body = %q, want %q", body, "Request timeout")
	}

	select {
	case err := <-upstreamErr:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("handler context error = %v, want deadline exceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler context was not canceled")
	}
}

func TestTimeout_HandlerSetsHeadersAfterDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)

	finished := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		<-r.Context().Done()
		// An upstream error page rendered while the 503 goes out.
		setHeaders := func() {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
		}
		waitTimedOut(w, setHeaders)
		for range 1000 {
			setHeaders()
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<h1>Bad gateway</h1>"))
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Millisecond)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog", nil))

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("handler did not finish")
	}

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/plain; charset=utf-8", ct)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("Cache-Control = %q, want empty", cc)
	}
	if body := rr.Body.String(); body != "Request timeout" {
		t.Errorf("Body = %q, want %q", body, "Request timeout")
	}
}

func TestTimeoutWriterCopiesHeadersOnWriteHeader(t *testing.T) {
	tw, rr := newTestTimeoutWriter()

	tw.Header().Set("Content-Type", "application/xml; charset=utf-8")
	tw.Header().Add("Vary", "Accept-Encoding")
	if got := rr.Header().Get("Content-Type"); got != "" {
		t.Errorf("Content-Type reached the client before WriteHeader: %q", got)
	}

	tw.WriteHeader(http.StatusOK)
	if got := rr.Header().Get("Content-Type"); got != "application/xml; charset=utf-8" {
		t.Errorf("Content-Type = %q, want application/xml; charset=utf-8", got)
	}
	if got := rr.Header().Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q, want Accept-Encoding", got)
	}

	// Changes after the header is sent do not reach the client.
	tw.Header().Set("X-Late", "1")
	if got := rr.Header().Get("X-Late"); got != "" {
		t.Errorf("X-Late = %q, want empty", got)
	}
}

func TestTimeoutWriterWriteHeader(t *testing.T) {
	tw, rr := newTestTimeoutWriter()

	// First WriteHeader should work
	tw.WriteHeader(http.StatusOK)
	if !tw.wroteHeader {
		t.Error("wroteHeader should be true after WriteHeader")
	}

	// Second WriteHeader should be ignored
	tw.WriteHeader(http.StatusNotFound)
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d (second WriteHeader should be ignored)", rr.Code, http.StatusOK)
	}
}

func TestTimeoutWriterWrite(t *testing.T) {
	tw, rr := newTestTimeoutWriter()

	// Write without WriteHeader should set 200
	n, err := tw.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Write() = %d, want 5", n)
	}
	if !tw.wroteHeader {
		t.Error("wroteHeader should be true after Write")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestTimeoutWriterWriteAfterWriteHeader(t *testing.T) {
	tw, rr := newTestTimeoutWriter()

	tw.WriteHeader(http.StatusCreated)
	_, _ = tw.Write([]byte("created"))

	if rr.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if body := rr.Body.String(); body != "created" {
		t.Errorf("Body = %q, want %q", body, "created")
	}
}

func TestTimeoutWriterDiscardsLateWrites(t *testing.T) {
	tw, rr := newTestTimeoutWriter()
	tw.timedOut = true

	if _, err := tw.Write([]byte("late")); err != http.ErrHandlerTimeout {
		t.Errorf("Write() error = %v, want %v", err, http.ErrHandlerTimeout)
	}
	tw.WriteHeader(http.StatusOK)

	if rr.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", rr.Body.String())
	}
}

func TestTimeoutMiddlewarePropagatesPanic(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	wrapped := Timeout(time.Second)(handler)

	defer func() {
		if p := recover(); p != "boom" {
			t.Errorf("recovered %v, want boom", p)
		}
	}()

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("ServeHTTP should have panicked")
}
