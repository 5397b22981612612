package main

import (
	"context"
	"errors"
	"testing"
)

// hookStore lets a test interleave writes between a client's loads, to
// simulate another client racing it.
type hookStore struct {
	Store
	afterGet func(key string)
}

func (s *hookStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.Store.Get(ctx, key)
	if s.afterGet != nil {
		s.afterGet(key)
	}

	return value, ok, err
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newMemoryStore(), 3)
	session := testSession(t, "Alice", "Bob")

	if err := repo.Save(ctx, "ABC123", session); err != nil {
		t.Fatalf("saving: %v", err)
	}

	loaded, err := repo.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if loaded.Phase != PhaseLobby || len(loaded.Players) != 2 || loaded.Version != session.Version {
		t.Errorf("loaded session does not match saved one: %+v", loaded)
	}
	if loaded.Votes == nil {
		t.Error("votes map not initialized on load")
	}
}

func TestLoadMissingRoom(t *testing.T) {
	repo := NewRepository(newMemoryStore(), 3)

	if _, err := repo.Load(context.Background(), "NOROOM"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestUpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newMemoryStore(), 3)

	if err := repo.Save(ctx, "ABC123", testSession(t, "Alice")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	updated, err := repo.Update(ctx, "ABC123", func(s *Session) error {
		_, err := s.join("Bob")
		return err
	})
	if err != nil {
		t.Fatalf("updating: %v", err)
	}

	if updated.Version != 2 {
		t.Errorf("expected version 2, got %d", updated.Version)
	}

	loaded, err := repo.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Version != 2 || len(loaded.Players) != 2 {
		t.Errorf("update not persisted: %+v", loaded)
	}
}

func TestUpdateAbortsWithoutSaving(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newMemoryStore(), 3)

	if err := repo.Save(ctx, "ABC123", testSession(t, "Alice", "Bob")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	_, err := repo.Update(ctx, "ABC123", func(s *Session) error {
		_, err := s.join("Bob")
		return err
	})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	loaded, err := repo.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Version != 1 || len(loaded.Players) != 2 {
		t.Errorf("failed update mutated stored state: %+v", loaded)
	}
}

func TestUpdateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	raw := newMemoryStore()
	inner := NewRepository(raw, 3)

	if err := inner.Save(ctx, "ABC123", testSession(t, "Alice")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	// The first load triggers a concurrent join, so the confirmation
	// read sees a newer version and the attempt is retried.
	raced := false
	hooked := &hookStore{Store: raw}
	hooked.afterGet = func(string) {
		if raced {
			return
		}
		raced = true

		if _, err := inner.Update(ctx, "ABC123", func(s *Session) error {
			_, err := s.join("Bob")
			return err
		}); err != nil {
			t.Errorf("concurrent update: %v", err)
		}
	}

	repo := NewRepository(hooked, 3)

	updated, err := repo.Update(ctx, "ABC123", func(s *Session) error {
		_, err := s.join("Carol")
		return err
	})
	if err != nil {
		t.Fatalf("updating: %v", err)
	}

	// Both the concurrent join and the retried one must survive.
	if len(updated.Players) != 3 {
		t.Errorf("lost an update: %+v", updated.Players)
	}
	if updated.Version != 3 {
		t.Errorf("expected version 3, got %d", updated.Version)
	}
}

func TestUpdateGivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()
	raw := newMemoryStore()
	inner := NewRepository(raw, 3)

	if err := inner.Save(ctx, "ABC123", testSession(t, "Alice")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	// Every load is immediately followed by a foreign write, so no
	// attempt can ever confirm a stable version.
	hooked := &hookStore{Store: raw}
	hooked.afterGet = func(string) {
		session, err := inner.Load(ctx, "ABC123")
		if err != nil {
			t.Errorf("concurrent load: %v", err)
			return
		}
		session.Version++
		if err := inner.Save(ctx, "ABC123", session); err != nil {
			t.Errorf("concurrent save: %v", err)
		}
	}

	repo := NewRepository(hooked, 3)

	_, err := repo.Update(ctx, "ABC123", func(s *Session) error {
		_, err := s.join("Bob")
		return err
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
