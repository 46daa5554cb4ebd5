package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestNewError_CarriesRequestIDFromContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	err := NewError(ctx, LayerDomain, ErrorTypeValidation, "bad input", nil, "uuid-1")
	if err.GetRequestID() != "req-123" {
		t.Fatalf("expected request id req-123, got %q", err.GetRequestID())
	}

	bare := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "bad input", nil, "uuid-2")
	if bare.GetRequestID() != "" {
		t.Fatalf("expected empty request id, got %q", bare.GetRequestID())
	}
}

func TestIsErrorType(t *testing.T) {
	err := NewError(context.Background(), LayerDomain, ErrorTypeConflict, "duplicate", nil, "")
	wrapped := errors.Join(errors.New("outer"), err)

	if !IsErrorType(err, ErrorTypeConflict) {
		t.Fatal("expected conflict type to match")
	}
	if !IsErrorType(wrapped, ErrorTypeConflict) {
		t.Fatal("expected conflict type to match through wrapping")
	}
	if IsErrorType(err, ErrorTypeNotFound) {
		t.Fatal("expected mismatched type to not match")
	}
	if IsErrorType(nil, ErrorTypeConflict) {
		t.Fatal("expected nil error to not match")
	}
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypePayloadTooLarge, http.StatusBadRequest},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeExternal, http.StatusInternalServerError},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorTypeIO, http.StatusInternalServerError},
		{ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorTypeToHTTPStatus(tt.errorType); got != tt.want {
			t.Errorf("ErrorTypeToHTTPStatus(%s) = %d, want %d", tt.errorType, got, tt.want)
		}
	}
}
