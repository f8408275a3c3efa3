package pkgrouter

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLimitBody(t *testing.T) {
	var readErr error
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}), LimitBody(4))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abcdefgh"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	if !errors.As(readErr, &maxErr) {
		t.Fatalf("expected MaxBytesError, got %v", readErr)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abc"))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if readErr != nil {
		t.Fatalf("unexpected error under the cap: %v", readErr)
	}
}

func TestLimitBodyDisabled(t *testing.T) {
	var n int
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		n = len(b)
	}), LimitBody(0))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abcdefgh")))
	if n != 8 {
		t.Fatalf("expected full body, got %d bytes", n)
	}
}
