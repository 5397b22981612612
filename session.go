// Imposter game session
//
// One Session is the complete shared state for a single room. Every client
// holds a transient copy, mutates it locally, and writes the whole snapshot
// back to the shared store; there is no server-side authority. Within one
// round the phase only moves forward (lobby → reveal → discussion → voting
// → results), and the explicit replay transition returns to the lobby while
// keeping players and their scores.
//
// Phase rules:
// - Any player may join at any phase, as long as their name is unused
// - Starting a round requires at least 3 players
// - The reveal phase ends on a stored deadline, not on a player action;
//   whichever client notices the elapsed deadline first applies the
//   transition, and late appliers are rejected by the phase guard
// - Each player votes at most once per round; the final vote triggers the
//   tally and score update on the client that cast it

package main

import (
	"math/rand"
	"strings"
	"time"
)

// Phase is the current stage of a room's round.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseReveal     Phase = "reveal"
	PhaseDiscussion Phase = "discussion"
	PhaseVoting     Phase = "voting"
	PhaseResults    Phase = "results"
)

const minimumPlayers = 3

// Player holds the data shared between all clients in a room. Scores are
// carried across rounds and only reset by creating a new room.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Session is the root aggregate stored under one room code. Word, Impostor,
// Accused and RevealedAt are only set between the start of a round and the
// next replay.
type Session struct {
	Phase      Phase             `json:"phase"`
	Players    []Player          `json:"players"`
	Category   Category          `json:"category,omitempty"`
	Word       string            `json:"word,omitempty"`
	Impostor   string            `json:"impostor,omitempty"`
	Votes      map[string]string `json:"votes"`
	Accused    string            `json:"accused,omitempty"`
	RevealedAt int64             `json:"revealedAt,omitempty"`
	Version    uint64            `json:"version"`
}

func newSession(name string) (*Session, Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Player{}, ErrEmptyName
	}

	host := Player{
		ID:   newPlayerID(),
		Name: name,
	}

	session := &Session{
		Phase:   PhaseLobby,
		Players: []Player{host},
		Votes:   make(map[string]string),
		Version: 1,
	}

	return session, host, nil
}

func (s *Session) player(id string) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// join appends a new player. Names double as the duplicate-join check, so
// they must be unique within the room; ids are unique by construction.
func (s *Session) join(name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyName
	}

	for _, p := range s.Players {
		if p.Name == name {
			return Player{}, ErrNameTaken
		}
	}

	player := Player{
		ID:   newPlayerID(),
		Name: name,
	}
	s.Players = append(s.Players, player)

	return player, nil
}

// start begins a new round: random category, random word from that
// category, random impostor among the current players.
func (s *Session) start(rng *rand.Rand, now time.Time) error {
	if s.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	if len(s.Players) < minimumPlayers {
		return ErrNotEnoughPlayers
	}

	s.Category, s.Word = pickWord(rng)
	s.Impostor = s.Players[rng.Intn(len(s.Players))].ID
	s.Votes = make(map[string]string)
	s.RevealedAt = now.UnixMilli()
	s.Phase = PhaseReveal

	return nil
}

// revealElapsed reports whether the word has been on screen long enough
// for the discussion phase to begin.
func (s *Session) revealElapsed(now time.Time, delay time.Duration) bool {
	return s.Phase == PhaseReveal && now.UnixMilli()-s.RevealedAt >= delay.Milliseconds()
}

// beginDiscussion is the deadline-driven reveal → discussion transition.
// It changes no round data, only visibility.
func (s *Session) beginDiscussion() error {
	if s.Phase != PhaseReveal {
		return ErrWrongPhase
	}

	s.Phase = PhaseDiscussion

	return nil
}

func (s *Session) beginVoting() error {
	if s.Phase != PhaseDiscussion {
		return ErrWrongPhase
	}

	s.Votes = make(map[string]string)
	s.Phase = PhaseVoting

	return nil
}

// castVote records one player's accusation. A voter's first vote is final;
// repeat votes are rejected without overwriting it. The client whose vote
// completes the set computes the results in the same mutation.
func (s *Session) castVote(voterID, accusedID string) error {
	if s.Phase != PhaseVoting {
		return ErrWrongPhase
	}
	if _, ok := s.player(voterID); !ok {
		return ErrNotAMember
	}
	if _, ok := s.player(accusedID); !ok {
		return ErrUnknownAccused
	}
	if _, voted := s.Votes[voterID]; voted {
		return ErrAlreadyVoted
	}

	s.Votes[voterID] = accusedID

	if len(s.Votes) == len(s.Players) {
		s.finishRound()
	}

	return nil
}

// finishRound tallies the votes and applies scores. Given a fixed Votes
// map this is idempotent, so two racing last-voters computing it
// independently write the same result.
func (s *Session) finishRound() {
	s.Accused = tallyVotes(s.Players, s.Votes)
	applyScores(s.Players, s.Accused, s.Impostor)
	s.Phase = PhaseResults
}

// playAgain returns the room to the lobby for another round. Players and
// scores survive; everything tied to the finished round is cleared.
func (s *Session) playAgain() error {
	if s.Phase != PhaseResults {
		return ErrWrongPhase
	}

	s.Phase = PhaseLobby
	s.Category = ""
	s.Word = ""
	s.Impostor = ""
	s.Votes = make(map[string]string)
	s.Accused = ""
	s.RevealedAt = 0

	return nil
}
