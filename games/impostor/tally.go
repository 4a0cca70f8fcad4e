/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "slices"

// tallyLocked counts the votes of the current round, applies the elimination
// and evaluates the win conditions. It assumes exactly one impostor.
func tallyLocked(l *Lobby) *GameResult {
	voteCount := make(map[string]int)
	for _, v := range l.Votes {
		voteCount[v.TargetID]++
	}

	maxVotes := 0
	var mostVoted []string
	for _, v := range l.Votes {
		count := voteCount[v.TargetID]
		switch {
		case count > maxVotes:
			maxVotes = count
			mostVoted = []string{v.TargetID}
		case count == maxVotes && !slices.Contains(mostVoted, v.TargetID):
			mostVoted = append(mostVoted, v.TargetID)
		}
	}

	result := newResultLocked(l)
	result.IsTie = len(mostVoted) > 1

	if len(mostVoted) == 1 {
		if victim := l.player(mostVoted[0]); victim != nil {
			victim.IsEliminated = true
			result.EliminatedID = victim.ID
			result.EliminatedName = victim.Name
		}
	}

	for _, v := range l.Votes {
		voter, target := l.player(v.VoterID), l.player(v.TargetID)
		if voter == nil || target == nil {
			continue
		}
		result.Votes = append(result.Votes, VoteDetail{
			VoterName:  voter.Name,
			TargetName: target.Name,
		})
	}

	evaluateWinLocked(l, result)

	return result
}

// resolveLocked ends the round without counting votes. Used when removals
// leave nobody who could vote the impostor out.
func resolveLocked(l *Lobby) *GameResult {
	result := newResultLocked(l)
	evaluateWinLocked(l, result)

	return result
}

func newResultLocked(l *Lobby) *GameResult {
	result := &GameResult{
		ImpostorID: l.ImpostorID,
		SecretWord: l.SecretWord,
		Votes:      make([]VoteDetail, 0, len(l.Votes)),
	}

	if impostor := l.player(l.ImpostorID); impostor != nil {
		result.ImpostorName = impostor.Name
	}

	return result
}

// activeLocked reports whether the impostor is still in play and how many
// innocents are.
func activeLocked(l *Lobby) (impostor bool, innocents int) {
	for _, p := range l.Players {
		if p.IsEliminated {
			continue
		}
		if p.ID == l.ImpostorID {
			impostor = true
			continue
		}
		innocents++
	}

	return impostor, innocents
}

func evaluateWinLocked(l *Lobby, result *GameResult) {
	activeImpostor, activeInnocents := activeLocked(l)

	switch {
	case !activeImpostor:
		result.GameOver = true
		result.Winner = WinnerPlayers
	case activeInnocents <= 1:
		result.GameOver = true
		result.Winner = WinnerImpostor
	}
}

// validateVoteLocked checks a vote before it is recorded.
func validateVoteLocked(l *Lobby, voter *Player, targetID string) error {
	if targetID == voter.ID {
		return errorf(ErrInvalidTarget, "you cannot vote for yourself")
	}

	target := l.player(targetID)
	if target == nil {
		return errorf(ErrInvalidTarget, "no such player")
	}

	if target.IsEliminated {
		return errorf(ErrInvalidTarget, "%s has already been eliminated", target.Name)
	}

	return nil
}
