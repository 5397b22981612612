/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Validation and lookup failures are scoped to the acting client; none of
// them mutate shared state.
var (
	ErrEmptyName        = errors.New("player name must not be empty")
	ErrRoomNotFound     = errors.New("room not found")
	ErrNameTaken        = errors.New("that name is already in use")
	ErrNotEnoughPlayers = errors.New("need at least 3 players to start")
	ErrNotAMember       = errors.New("player is not a member of this room")
	ErrAlreadyVoted     = errors.New("player has already voted this round")
	ErrUnknownAccused   = errors.New("accused player is not a member of this room")
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrConflict         = errors.New("session changed underneath us, gave up after retries")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
