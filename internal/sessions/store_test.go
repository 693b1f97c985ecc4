package sessions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/flows-media/studio-backend/internal/models"
	"github.com/google/uuid"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore()

	sess := store.Create()
	if sess.Step != models.StepIntake {
		t.Errorf("new session step = %q, want %q", sess.Step, models.StepIntake)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("ids differ: %s vs %s", got.ID, sess.ID)
	}
}

func TestGetUnknownIsErrNotFound(t *testing.T) {
	store := NewStore()
	_, err := store.Get(uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	got, _ := store.Get(sess.ID)
	got.Input.Brand = "mutated outside the store"

	again, _ := store.Get(sess.ID)
	if again.Input.Brand != "" {
		t.Error("Get leaked a shared pointer; outside mutation visible")
	}
}

func TestUpdateBumpsUpdatedAt(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	updated, err := store.Update(sess.ID, func(s *models.Session) error {
		s.Input.Brand = "Peak Coffee"
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Input.Brand != "Peak Coffee" {
		t.Errorf("brand = %q", updated.Input.Brand)
	}
	if updated.UpdatedAt.Before(sess.UpdatedAt) {
		t.Error("UpdatedAt not advanced")
	}
}

func TestUpdateSurfacesCallbackError(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	_, err := store.Update(sess.ID, func(s *models.Session) error {
		return fmt.Errorf("inputs are locked")
	})
	if err == nil || err.Error() != "inputs are locked" {
		t.Fatalf("err = %v, want callback error surfaced", err)
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	store.Delete(sess.ID)
	if _, err := store.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestSetWatcherCancelStopsPrevious(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	first, firstCancel := context.WithCancel(context.Background())
	store.SetWatcherCancel(sess.ID, firstCancel)

	_, secondCancel := context.WithCancel(context.Background())
	store.SetWatcherCancel(sess.ID, secondCancel)

	select {
	case <-first.Done():
	default:
		t.Error("previous watcher context not cancelled on replacement")
	}
}

func TestCancelWatcher(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	store.SetWatcherCancel(sess.ID, cancel)
	store.CancelWatcher(sess.ID)

	select {
	case <-ctx.Done():
	default:
		t.Error("watcher context not cancelled")
	}

	// Cancelling again is a no-op.
	store.CancelWatcher(sess.ID)
}

func TestShutdownCancelsAllWatchers(t *testing.T) {
	store := NewStore()

	var ctxs []context.Context
	for i := 0; i < 3; i++ {
		sess := store.Create()
		ctx, cancel := context.WithCancel(context.Background())
		store.SetWatcherCancel(sess.ID, cancel)
		ctxs = append(ctxs, ctx)
	}

	store.Shutdown()

	for i, ctx := range ctxs {
		select {
		case <-ctx.Done():
		default:
			t.Errorf("watcher %d not cancelled by shutdown", i)
		}
	}
}
