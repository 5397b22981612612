package main

import (
	"context"
	"errors"
	"time"
)

// SyncLoop reloads the shared session on a fixed interval and hands the
// snapshot to onUpdate whenever the stored version differs from the last
// one seen. It never writes on behalf of the player; its only write is the
// deadline-driven reveal → discussion transition, which is guarded so that
// any number of clients may attempt it and exactly one succeeds.
type SyncLoop struct {
	cfg  *Config
	repo *Repository
	code string

	onUpdate func(*Session)

	lastVersion uint64
}

func NewSyncLoop(cfg *Config, repo *Repository, code string, onUpdate func(*Session)) *SyncLoop {
	return &SyncLoop{
		cfg:      cfg,
		repo:     repo,
		code:     code,
		onUpdate: onUpdate,
	}
}

func (l *SyncLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

func (l *SyncLoop) tick(ctx context.Context) {
	session, err := l.repo.Load(ctx, l.code)
	if err != nil {
		logf(l.cfg, "SYNC: Could not load room %s: %v", l.code, err)

		return
	}

	if session.Version != l.lastVersion {
		l.lastVersion = session.Version

		if l.onUpdate != nil {
			l.onUpdate(session)
		}
	}

	if session.revealElapsed(time.Now(), l.cfg.revealDelay) {
		l.advanceReveal(ctx)
	}
}

// advanceReveal applies the reveal deadline. Clients race to write this
// transition, so losing with ErrWrongPhase (someone else already advanced
// the phase) is the common case and not worth reporting.
func (l *SyncLoop) advanceReveal(ctx context.Context) {
	_, err := l.repo.Update(ctx, l.code, func(s *Session) error {
		if !s.revealElapsed(time.Now(), l.cfg.revealDelay) {
			return ErrWrongPhase
		}

		return s.beginDiscussion()
	})
	if err != nil && !errors.Is(err, ErrWrongPhase) {
		logf(l.cfg, "SYNC: Could not advance room %s to discussion: %v", l.code, err)

		return
	}

	if err == nil {
		logf(l.cfg, "SYNC: Room %s advanced to discussion", l.code)
	}
}
