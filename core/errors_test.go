package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestApiError_Error(t *testing.T) {
	err := &ApiError{Method: http.MethodGet, URL: "http://endpoint/v1/clans/%23X", StatusCode: 404}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("status code missing from %q", err.Error())
	}

	err.Message = "notFound"
	if !strings.HasSuffix(err.Error(), ": notFound") {
		t.Errorf("message missing from %q", err.Error())
	}
}

func TestIsApiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ApiError", &ApiError{StatusCode: 500}, true},
		{"wrapped ApiError", fmt.Errorf("context: %w", &ApiError{StatusCode: 500}), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsApiError(tt.err); got != tt.want {
				t.Errorf("IsApiError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIgnoreStatusCodes(t *testing.T) {
	notFound := &ApiError{StatusCode: 404}
	other := errors.New("other")

	tests := []struct {
		name  string
		err   error
		codes []int
		want  error
	}{
		{"ignored code", notFound, []int{404}, nil},
		{"code not listed", notFound, []int{403, 500}, notFound},
		{"non api error", other, []int{404}, other},
		{"nil error", nil, []int{404}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IgnoreStatusCodes(tt.err, tt.codes...); got != tt.want {
				t.Errorf("IgnoreStatusCodes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpectStatusCodes(t *testing.T) {
	err := &ApiError{StatusCode: 429}
	if !ExpectStatusCodes(err, 429, 503) {
		t.Error("expected match for 429")
	}
	if ExpectStatusCodes(err, 404) {
		t.Error("unexpected match for 404")
	}
	if ExpectStatusCodes(errors.New("plain"), 429) {
		t.Error("plain errors never match")
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("wrapped: %w", &TransportError{Method: http.MethodGet, URL: "http://x", Err: cause})

	if !IsTransportError(err) {
		t.Error("IsTransportError() = false")
	}
	if !errors.Is(err, cause) {
		t.Error("TransportError should unwrap to its cause")
	}
	if IsTransportError(&ApiError{}) {
		t.Error("ApiError is not a transport error")
	}
}

func TestMalformedError(t *testing.T) {
	err := &MalformedError{StatusCode: 200, Reason: "unexpected end of JSON input"}
	if !IsMalformedErr(err) {
		t.Error("IsMalformedErr() = false")
	}
	if !strings.Contains(err.Error(), "unexpected end of JSON input") {
		t.Errorf("reason missing from %q", err.Error())
	}
	if IsMalformedErr(errors.New("x")) {
		t.Error("plain errors are not malformed errors")
	}
}

func TestSegmentError(t *testing.T) {
	err := &SegmentError{Index: 2, Value: []int{1}}
	if !strings.Contains(err.Error(), "path segment 2") || !strings.Contains(err.Error(), "[]int") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
