package cerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewErrorCapturesStackForServerErrors(t *testing.T) {
	if err := NewError(Internal, "boom", nil); err.Stack == "" {
		t.Error("Internal errors must carry a stack")
	}
	if err := NewError(InvalidArgument, "bad input", nil); err.Stack != "" {
		t.Error("client errors must not capture a stack")
	}
}

func TestIsCode(t *testing.T) {
	err := NewError(NotFound, "pm state is not found", nil)
	if !IsCode(err, NotFound) {
		t.Error("IsCode must match the direct error")
	}
	wrapped := fmt.Errorf("loading state: %w", err)
	if !IsCode(wrapped, NotFound) {
		t.Error("IsCode must unwrap")
	}
	if IsCode(wrapped, Aborted) {
		t.Error("IsCode must not match a different code")
	}
	if IsCode(errors.New("plain"), NotFound) {
		t.Error("IsCode must reject non-cerr errors")
	}
}

func TestCodeHTTPMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{InvalidArgument, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Aborted, http.StatusConflict},
		{FailedPrecondition, http.StatusPreconditionFailed},
		{Internal, http.StatusInternalServerError},
		{Unauthenticated, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPCode(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{OK, "OK"},
		{InvalidArgument, "InvalidArgument"},
		{FailedPrecondition, "FailedPrecondition"},
		{Aborted, "Aborted"},
		{Unauthenticated, "Unauthenticated"},
		{Code(42), "Code(42)"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
