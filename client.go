package main

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is one player's handle on a room. Every action loads the shared
// session, applies the local mutation, and writes the whole snapshot back;
// nothing flows between clients except through the store.
type Client struct {
	cfg  *Config
	repo *Repository
	rng  *rand.Rand

	instance string
	code     string
	player   Player
}

func NewClient(cfg *Config, repo *Repository) *Client {
	return &Client{
		cfg:      cfg,
		repo:     repo,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		instance: uuid.NewString(),
	}
}

func (c *Client) RoomCode() string {
	return c.code
}

func (c *Client) Player() Player {
	return c.player
}

// CreateRoom creates a fresh session with the caller as its only player.
// Generated codes are checked against the store and regenerated on the
// off chance of a collision with a live room.
func (c *Client) CreateRoom(ctx context.Context, name string) (string, error) {
	session, host, err := newSession(name)
	if err != nil {
		return "", err
	}

	var code string
	for {
		code = newRoomCode()

		exists, err := c.repo.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}

		logf(c.cfg, "ROOMS: Code collision on %s, regenerating", code)
	}

	if err := c.repo.Save(ctx, code, session); err != nil {
		return "", err
	}

	c.code = code
	c.player = host

	logf(c.cfg, "ROOMS: %q created room %s (client %s)", host.Name, code, c.instance)

	return code, nil
}

// JoinRoom appends the caller to an existing room. Joining is allowed in
// any phase; a late joiner simply waits out the current round.
func (c *Client) JoinRoom(ctx context.Context, code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	var joined Player

	_, err := c.repo.Update(ctx, code, func(s *Session) error {
		player, err := s.join(name)
		if err != nil {
			return err
		}
		joined = player

		return nil
	})
	if err != nil {
		return err
	}

	c.code = code
	c.player = joined

	logf(c.cfg, "ROOMS: %q joined room %s (client %s)", joined.Name, code, c.instance)

	return nil
}

func (c *Client) StartGame(ctx context.Context) error {
	_, err := c.repo.Update(ctx, c.code, func(s *Session) error {
		return s.start(c.rng, time.Now())
	})
	if err != nil {
		return err
	}

	logf(c.cfg, "ROOMS: %q started a round in room %s", c.player.Name, c.code)

	return nil
}

func (c *Client) StartVoting(ctx context.Context) error {
	_, err := c.repo.Update(ctx, c.code, func(s *Session) error {
		return s.beginVoting()
	})

	return err
}

func (c *Client) CastVote(ctx context.Context, accusedID string) error {
	session, err := c.repo.Update(ctx, c.code, func(s *Session) error {
		return s.castVote(c.player.ID, accusedID)
	})
	if err != nil {
		return err
	}

	if session.Phase == PhaseResults {
		logf(c.cfg, "ROOMS: Round finished in room %s, accused %s", c.code, session.Accused)
	}

	return nil
}

func (c *Client) PlayAgain(ctx context.Context) error {
	_, err := c.repo.Update(ctx, c.code, func(s *Session) error {
		return s.playAgain()
	})

	return err
}

// Snapshot reloads the current shared session.
func (c *Client) Snapshot(ctx context.Context) (*Session, error) {
	return c.repo.Load(ctx, c.code)
}
