package main

import (
	"crypto/rand"
)

const (
	roomCodeLength = 6
	playerIDLength = 8

	roomCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	playerIDLetters = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func randomString(letters string, length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, length)
	for i := range out {
		out[i] = letters[int(buf[i])%len(letters)]
	}

	return string(out)
}

// newRoomCode generates a 6-character uppercase alphanumeric room code.
// Uniqueness against live rooms is checked by the caller at creation time.
func newRoomCode() string {
	return randomString(roomCodeLetters, roomCodeLength)
}

// newPlayerID generates a short opaque player identifier, stable for the
// lifetime of the room. Collisions are improbable rather than impossible.
func newPlayerID() string {
	return randomString(playerIDLetters, playerIDLength)
}
