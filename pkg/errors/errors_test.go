package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "target file not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "target file not found" {
		t.Errorf("expected message 'target file not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "merge failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("timeout")
	ctx := map[string]interface{}{
		"command": "nvidia-smi",
		"unit":    "zabbix-agent.service",
	}

	err := WrapWithContext(ErrCodeTimeout, "GPU probe failed", cause, ctx)

	if err.Code != ErrCodeTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeTimeout, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["command"] != "nvidia-smi" {
		t.Errorf("expected command to be nvidia-smi")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestPermissionCausePreserved(t *testing.T) {
	// Permission failures must keep the OS error intact in the chain.
	err := Wrap(ErrCodePermissionDenied, "cannot append to target", os.ErrPermission)
	if !errors.Is(err, os.ErrPermission) {
		t.Error("expected os.ErrPermission to survive wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "direct structured error",
			err:  New(ErrCodeNotFound, "missing"),
			want: ErrCodeNotFound,
		},
		{
			name: "structured error behind fmt wrap",
			err:  fmt.Errorf("outer: %w", New(ErrCodeMalformedDirective, "no separator")),
			want: ErrCodeMalformedDirective,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			want: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(ErrCodeUnavailable, "systemd unreachable"))
	if !IsCode(err, ErrCodeUnavailable) {
		t.Error("expected IsCode to match through wrapping")
	}
	if IsCode(err, ErrCodeNotFound) {
		t.Error("expected IsCode to reject non-matching code")
	}
	if IsCode(errors.New("plain"), ErrCodeUnavailable) {
		t.Error("expected IsCode to reject plain error")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeNotFound,
		ErrCodePermissionDenied,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeMalformedDirective,
		ErrCodeUnavailable,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
