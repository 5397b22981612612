package main

import "testing"

func TestScoresWhenImpostorCaught(t *testing.T) {
	players := []Player{
		{ID: "a", Score: 2},
		{ID: "b", Score: 5},
		{ID: "c"},
	}

	applyScores(players, "b", "b")

	for i, want := range []int{3, 5, 1} {
		if got := players[i].Score; got != want {
			t.Errorf("player %s: expected score %d, got %d", players[i].ID, want, got)
		}
	}
}

func TestScoresWhenImpostorEscapes(t *testing.T) {
	players := []Player{
		{ID: "a", Score: 2},
		{ID: "b", Score: 5},
		{ID: "c"},
	}

	applyScores(players, "a", "b")

	for i, want := range []int{2, 7, 0} {
		if got := players[i].Score; got != want {
			t.Errorf("player %s: expected score %d, got %d", players[i].ID, want, got)
		}
	}
}

func TestScoresNeverDecrease(t *testing.T) {
	players := []Player{
		{ID: "a", Score: 4},
		{ID: "b", Score: 4},
	}

	before := []int{4, 4}

	applyScores(players, "a", "a")
	applyScores(players, "b", "a")

	for i := range players {
		if players[i].Score < before[i] {
			t.Errorf("player %s: score decreased from %d to %d", players[i].ID, before[i], players[i].Score)
		}
	}
}
