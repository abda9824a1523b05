package errors

import (
	"errors"
	"testing"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "test error" {
		t.Errorf("expected 'test error', got '%s'", err.Error())
	}
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		expected := "wrapped: base error"
		if wrapped.Error() != expected {
			t.Errorf("expected '%s', got '%s'", expected, wrapped.Error())
		}
		if !errors.Is(wrapped, baseErr) {
			t.Error("expected wrapped error to wrap baseErr")
		}
	})

	t.Run("wrap nil error", func(t *testing.T) {
		if wrapped := Wrap(nil, "wrapped"); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})

	t.Run("wrap sentinel error preserves chain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "secret lookup")
		if !Is(wrapped, ErrNotFound) {
			t.Error("expected wrapped error to match ErrNotFound")
		}
	})
}

func TestIs(t *testing.T) {
	wrapped := Wrap(ErrForbidden, "share check")
	if !Is(wrapped, ErrForbidden) {
		t.Error("expected Is to match ErrForbidden")
	}
	if Is(wrapped, ErrNotFound) {
		t.Error("expected Is to not match ErrNotFound")
	}
}

func TestAs(t *testing.T) {
	base := customError{Msg: "custom"}
	wrapped := Wrap(base, "context")

	var target customError
	if !As(wrapped, &target) {
		t.Fatal("expected As to find customError")
	}
	if target.Msg != "custom" {
		t.Errorf("expected 'custom', got '%s'", target.Msg)
	}
}
