package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
	if err.Code != ErrOperationFailed.Code {
		t.Fatalf("expected %s, got %s", ErrOperationFailed.Code, err.Code)
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestWithMessageCopies(t *testing.T) {
	with := ErrQuery.WithMessage("count failed")

	if with == ErrQuery {
		t.Fatal("expected WithMessage to return a copy")
	}
	if ErrQuery.Message == "count failed" {
		t.Fatal("expected original error to remain unchanged")
	}
	if with.Code != ErrQuery.Code || with.StatusCode != ErrQuery.StatusCode {
		t.Fatal("expected code and status to be preserved")
	}
}

func TestFromError(t *testing.T) {
	appErr := ErrQuery
	if out := FromError(appErr); out != appErr {
		t.Fatal("expected FromError to return the same AppError instance")
	}

	raw := stdErrors.New("raw")
	out := FromError(raw)
	if out.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
}

func TestFromErrorUnwrapsWrapped(t *testing.T) {
	inner := ErrConnection.WithInternal(stdErrors.New("refused"))
	out := FromError(Wrap(inner, "list failed"))

	if out.Code != ErrOperationFailed.Code {
		t.Fatalf("expected outermost error, got %s", out.Code)
	}

	var connErr *AppError
	if !stdErrors.As(out.Internal, &connErr) || connErr.Code != ErrConnection.Code {
		t.Fatal("expected the connection error to remain in the chain")
	}
}

func TestNewInvalidArgument(t *testing.T) {
	err := NewInvalidArgument("page must be positive")
	if err.Code != ErrInvalidArgument.Code {
		t.Fatalf("expected %s, got %s", ErrInvalidArgument.Code, err.Code)
	}
	if err.Message != "page must be positive" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", err.StatusCode)
	}
}
