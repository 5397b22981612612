package main

// tallyVotes counts accusations and returns the id with the most votes.
//
// Votes are scanned in voter join order, and the first accused id to reach
// each new strictly-greater count keeps the lead. With the vote set
// {A:X, B:Y, C:Y}, Y wins 2-1; with a true tie {A:X, B:Y}, X wins because
// A voted first. The scan order makes the tie-break deterministic for any
// client replaying the same votes map.
func tallyVotes(players []Player, votes map[string]string) string {
	counts := make(map[string]int, len(votes))

	leader := ""
	leaderCount := 0

	for _, voter := range players {
		accused, ok := votes[voter.ID]
		if !ok {
			continue
		}

		counts[accused]++

		if counts[accused] > leaderCount {
			leaderCount = counts[accused]
			leader = accused
		}
	}

	return leader
}
