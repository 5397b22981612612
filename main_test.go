package main

import (
	"math/rand"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		bind:         "127.0.0.1",
		pollInterval: 10 * time.Millisecond,
		port:         8080,
		revealDelay:  8 * time.Second,
		saveRetries:  3,
	}
}

// testSession builds a lobby session with the given player names, the
// first one being the host.
func testSession(t *testing.T, names ...string) *Session {
	t.Helper()

	session, _, err := newSession(names[0])
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	for _, name := range names[1:] {
		if _, err := session.join(name); err != nil {
			t.Fatalf("joining %q: %v", name, err)
		}
	}

	return session
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
