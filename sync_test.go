package main

import (
	"context"
	"testing"
	"time"
)

func TestTickNotifiesOnVersionChange(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	repo := NewRepository(newMemoryStore(), cfg.saveRetries)

	if err := repo.Save(ctx, "ABC123", testSession(t, "Alice")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	var snapshots []*Session
	loop := NewSyncLoop(cfg, repo, "ABC123", func(s *Session) {
		snapshots = append(snapshots, s)
	})

	loop.tick(ctx)
	loop.tick(ctx)

	if len(snapshots) != 1 {
		t.Fatalf("expected one snapshot for an unchanged session, got %d", len(snapshots))
	}

	if _, err := repo.Update(ctx, "ABC123", func(s *Session) error {
		_, err := s.join("Bob")
		return err
	}); err != nil {
		t.Fatalf("updating: %v", err)
	}

	loop.tick(ctx)

	if len(snapshots) != 2 {
		t.Fatalf("expected a second snapshot after the join, got %d", len(snapshots))
	}
	if len(snapshots[1].Players) != 2 {
		t.Errorf("stale snapshot delivered: %+v", snapshots[1].Players)
	}
}

func TestTickAdvancesRevealDeadline(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	repo := NewRepository(newMemoryStore(), cfg.saveRetries)

	session := testSession(t, "Alice", "Bob", "Carol")
	if err := session.start(testRNG(), time.Now().Add(-10*time.Second)); err != nil {
		t.Fatalf("starting round: %v", err)
	}
	if err := repo.Save(ctx, "ABC123", session); err != nil {
		t.Fatalf("saving: %v", err)
	}

	loop := NewSyncLoop(cfg, repo, "ABC123", nil)
	loop.tick(ctx)

	loaded, err := repo.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Phase != PhaseDiscussion {
		t.Fatalf("expected discussion phase, got %s", loaded.Phase)
	}

	// A second tick must not write again.
	version := loaded.Version
	loop.tick(ctx)

	loaded, err = repo.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Version != version {
		t.Errorf("idle tick wrote to the store: version %d -> %d", version, loaded.Version)
	}
}

func TestTickLeavesFreshRevealAlone(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	repo := NewRepository(newMemoryStore(), cfg.saveRetries)

	session := testSession(t, "Alice", "Bob", "Carol")
	if err := session.start(testRNG(), time.Now()); err != nil {
		t.Fatalf("starting round: %v", err)
	}
	if err := repo.Save(ctx, "ABC123", session); err != nil {
		t.Fatalf("saving: %v", err)
	}

	loop := NewSyncLoop(cfg, repo, "ABC123", nil)
	loop.tick(ctx)

	loaded, err := repo.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Phase != PhaseReveal {
		t.Errorf("reveal advanced before its deadline: %s", loaded.Phase)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	repo := NewRepository(newMemoryStore(), cfg.saveRetries)

	ctx, cancel := context.WithCancel(context.Background())
	loop := NewSyncLoop(cfg, repo, "ABC123", nil)

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Run did not stop after cancellation")
	}
}
