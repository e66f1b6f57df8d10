package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_CancelStopsContext(t *testing.T) {
	r := NewRegistry()
	id, ctx := r.Begin(context.Background())
	defer r.Done(id)

	assert.True(t, r.Cancel(id))
	select {
	case <-ctx.Done():
	default:
		t.Fatal("context should be canceled after Registry.Cancel")
	}
}

func TestRegistry_CancelUnknownIDReturnsFalse(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Cancel("no-such-id"))
}

func TestRegistry_DoneUnregisters(t *testing.T) {
	r := NewRegistry()
	id, _ := r.Begin(context.Background())
	r.Done(id)
	assert.False(t, r.Cancel(id), "a done build is no longer cancelable")
}
