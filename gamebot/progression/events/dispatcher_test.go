package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_EmitInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()

	var order []string
	d.Subscribe(func(Event) error {
		order = append(order, "first")
		return nil
	})
	d.Subscribe(func(Event) error {
		order = append(order, "second")
		return nil
	})
	d.Subscribe(func(Event) error {
		order = append(order, "third")
		return nil
	})

	d.Emit(Event{Type: TypeLevelUp, UserID: "user1"})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDispatcher_ObserverErrorDoesNotStopDelivery(t *testing.T) {
	d := NewDispatcher()

	var delivered int
	d.Subscribe(func(Event) error {
		return errors.New("observer exploded")
	})
	d.Subscribe(func(Event) error {
		delivered++
		return nil
	})

	d.Emit(Event{Type: TypeGameResult, UserID: "user1"})
	assert.Equal(t, 1, delivered)
}

func TestDispatcher_ObserverPanicIsContained(t *testing.T) {
	d := NewDispatcher()

	var delivered int
	d.Subscribe(func(Event) error {
		panic("observer panicked")
	})
	d.Subscribe(func(Event) error {
		delivered++
		return nil
	})

	assert.NotPanics(t, func() {
		d.Emit(Event{Type: TypeAchievementUnlocked, UserID: "user1"})
	})
	assert.Equal(t, 1, delivered)
}

func TestDispatcher_StampsOccurredAt(t *testing.T) {
	d := NewDispatcher()

	var got Event
	d.Subscribe(func(ev Event) error {
		got = ev
		return nil
	})

	d.Emit(Event{Type: TypeLevelUp, UserID: "user1"})
	assert.False(t, got.OccurredAt.IsZero())

	// An explicit timestamp is preserved.
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d.Emit(Event{Type: TypeLevelUp, UserID: "user1", OccurredAt: at})
	assert.Equal(t, at, got.OccurredAt)
}

func TestDispatcher_NoObservers(t *testing.T) {
	d := NewDispatcher()
	require.NotPanics(t, func() {
		d.Emit(Event{Type: TypeLevelUp, UserID: "user1"})
	})
}
