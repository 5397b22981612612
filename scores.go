package main

// applyScores awards points for one finished round. If the group accused
// the impostor, every other player gains a point; if the impostor escaped,
// only the impostor gains two. Scores never decrease.
func applyScores(players []Player, accusedID, impostorID string) {
	caught := accusedID == impostorID

	for i := range players {
		switch {
		case caught && players[i].ID != impostorID:
			players[i].Score++
		case !caught && players[i].ID == impostorID:
			players[i].Score += 2
		}
	}
}
