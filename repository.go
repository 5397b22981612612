package main

import (
	"context"
	"encoding/json"
	"fmt"
)

const sessionKeyPrefix = "game:"

func sessionKey(code string) string {
	return sessionKeyPrefix + code
}

// Repository maps room codes to serialized Sessions in a Store. Every save
// overwrites the stored value with the caller's complete snapshot; the
// version counter carried in the Session is the only defense against two
// clients clobbering each other's writes.
type Repository struct {
	store   Store
	retries int
}

func NewRepository(store Store, retries int) *Repository {
	if retries < 1 {
		retries = 1
	}

	return &Repository{
		store:   store,
		retries: retries,
	}
}

func (r *Repository) Load(ctx context.Context, code string) (*Session, error) {
	value, ok, err := r.store.Get(ctx, sessionKey(code))
	if err != nil {
		return nil, fmt.Errorf("loading room %s: %w", code, err)
	}
	if !ok {
		return nil, ErrRoomNotFound
	}

	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, fmt.Errorf("decoding room %s: %w", code, err)
	}

	if session.Votes == nil {
		session.Votes = make(map[string]string)
	}

	return &session, nil
}

func (r *Repository) Save(ctx context.Context, code string, session *Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding room %s: %w", code, err)
	}

	if err := r.store.Set(ctx, sessionKey(code), string(value)); err != nil {
		return fmt.Errorf("saving room %s: %w", code, err)
	}

	return nil
}

func (r *Repository) Exists(ctx context.Context, code string) (bool, error) {
	_, ok, err := r.store.Get(ctx, sessionKey(code))
	if err != nil {
		return false, fmt.Errorf("checking room %s: %w", code, err)
	}

	return ok, nil
}

// Update runs one read-modify-write cycle with optimistic concurrency:
// load a snapshot, apply fn, reload to confirm no other client has bumped
// the version in the meantime, then save with the version incremented.
// A conflicted attempt is retried with a fresh snapshot.
//
// The store has no compare-and-swap, so a writer landing between the
// confirmation read and the save can still be lost. The window is a
// single round trip instead of a whole user think-time, which is as good
// as it gets without a coordination primitive on the store side.
//
// Errors returned by fn abort the cycle immediately and nothing is saved.
func (r *Repository) Update(ctx context.Context, code string, fn func(*Session) error) (*Session, error) {
	for attempt := 0; attempt < r.retries; attempt++ {
		session, err := r.Load(ctx, code)
		if err != nil {
			return nil, err
		}

		base := session.Version

		if err := fn(session); err != nil {
			return nil, err
		}

		current, err := r.Load(ctx, code)
		if err != nil {
			return nil, err
		}
		if current.Version != base {
			continue
		}

		session.Version = base + 1

		if err := r.Save(ctx, code, session); err != nil {
			return nil, err
		}

		return session, nil
	}

	return nil, ErrConflict
}
