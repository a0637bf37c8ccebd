package httpx

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusFromGRPC(t *testing.T) {
	t.Run("InvalidArgument -> 400", func(t *testing.T) {
		err := status.Error(codes.InvalidArgument, "bad")
		gotStatus, gotCode, gotMsg := StatusFromGRPC(err)
		if gotStatus != http.StatusBadRequest || gotCode != "INVALID_ARGUMENT" || gotMsg != "bad" {
			t.Fatalf("got (%d,%s,%s)", gotStatus, gotCode, gotMsg)
		}
	})

	t.Run("FailedPrecondition -> 400", func(t *testing.T) {
		err := status.Error(codes.FailedPrecondition, "cart is empty")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusBadRequest || gotCode != "FAILED_PRECONDITION" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("NotFound -> 404", func(t *testing.T) {
		err := status.Error(codes.NotFound, "missing")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusNotFound || gotCode != "NOT_FOUND" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unauthenticated -> 401", func(t *testing.T) {
		err := status.Error(codes.Unauthenticated, "no token")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusUnauthorized || gotCode != "UNAUTHENTICATED" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unavailable -> 503", func(t *testing.T) {
		err := status.Error(codes.Unavailable, "down")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("DeadlineExceeded -> 503", func(t *testing.T) {
		err := status.Error(codes.DeadlineExceeded, "timeout")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Internal hides message", func(t *testing.T) {
		err := status.Error(codes.Internal, "db password leaked")
		gotStatus, gotCode, gotMsg := StatusFromGRPC(err)
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" || gotMsg != "internal error" {
			t.Fatalf("got (%d,%s,%s)", gotStatus, gotCode, gotMsg)
		}
	})

	t.Run("non-grpc error -> 500", func(t *testing.T) {
		err := errors.New("boom")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})
}
