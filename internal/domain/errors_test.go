package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil error", err: nil, want: KindOK},
		{name: "invalid input", err: fmt.Errorf("%w: %w", ErrInvalidInput, ErrItemsRequired), want: KindInvalidInput},
		{name: "duplicate", err: ErrDuplicateOrder, want: KindDuplicateOrder},
		{name: "wrapped duplicate", err: fmt.Errorf("insert order: %w", ErrDuplicateOrder), want: KindDuplicateOrder},
		{name: "not found", err: ErrOrderNotFound, want: KindOrderNotFound},
		{name: "store fault", err: errors.Join(ErrStoreUnavailable, errors.New("connection refused")), want: KindUnavailable},
		{name: "lock timeout", err: ErrLockTimeout, want: KindUnavailable},
		{name: "unknown", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_ClientCaused(t *testing.T) {
	client := []Kind{KindInvalidInput, KindDuplicateOrder, KindOrderNotFound}
	server := []Kind{KindUnavailable, KindInternal}

	for _, k := range client {
		if !k.ClientCaused() {
			t.Errorf("%s must be client caused", k)
		}
	}
	for _, k := range server {
		if k.ClientCaused() {
			t.Errorf("%s must be server caused", k)
		}
	}
}

func TestIsDuplicate(t *testing.T) {
	if !IsDuplicate(errors.Join(ErrDuplicateOrder, errors.New("additional context"))) {
		t.Fatal("expected joined duplicate error to match")
	}
	if IsDuplicate(ErrOrderNotFound) {
		t.Fatal("not found must not be a duplicate")
	}
	if IsDuplicate(nil) {
		t.Fatal("nil must not be a duplicate")
	}
}
