package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidRequest:     http.StatusBadRequest,
		KindInvalidMember:      http.StatusBadRequest,
		KindInvalidProduct:     http.StatusBadRequest,
		KindDuplicateRequest:   http.StatusConflict,
		KindTransactionFailure: http.StatusInternalServerError,
		KindAggregationFailure: http.StatusInternalServerError,
		KindNotFound:           http.StatusNotFound,
		KindUnauthorized:       http.StatusUnauthorized,
		Kind("unknown"):        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("outer: %w", Wrap(KindTransactionFailure, "purchase failed", base))

	if KindOf(err) != KindTransactionFailure {
		t.Fatalf("KindOf = %s", KindOf(err))
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped cause lost")
	}
	if KindOf(base) != KindInternal {
		t.Fatalf("plain error kind = %s", KindOf(base))
	}
	if !Is(New(KindDuplicateRequest, "dup"), KindDuplicateRequest) {
		t.Fatal("Is should match kind")
	}
}
