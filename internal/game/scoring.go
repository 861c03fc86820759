package game

import (
	"github.com/jahlib/czech-fool/internal/deck"
)

// SeatResult is one seat's line in the end-of-round tally.
type SeatResult struct {
	PlayerID   string
	Nickname   string
	Points     int // penalty added this round; negative for a queen-bonus winner
	TotalScore int
	Hand       []deck.Card // remaining cards; empty for the winner
	QueenBonus int
}

// RoundSummary is everything produced by a round ending.
type RoundSummary struct {
	WinnerID    string
	WinningCard deck.Card
	Results     []SeatResult
	Kicked      []*Player // seats eliminated with more than 101 points
	RoomClosed  bool      // fewer than two seats survived
	FinalWinner *Player   // overall winner when RoomClosed
}

// finishRoundLocked tallies a finished round: every losing seat gains its
// remaining hand's points, the winner takes the queen bonus of the final
// card, the biggest loser becomes next round's dealer, seats at exactly
// 101 reset to zero and seats above 101 are eliminated. If fewer than two
// seats survive the room concludes with the lowest remaining score as
// overall winner (ties break to the earliest seat); otherwise the room
// returns to the lobby with hands cleared and bots re-readied.
func (r *Room) finishRoundLocked(winnerID string) *RoundSummary {
	winningCard, _ := r.topCardLocked()

	queenBonus := 0
	if winningCard.Rank == deck.Queen {
		if winningCard.Suit == deck.Spades {
			queenBonus = -40
		} else {
			queenBonus = -20
		}
	}

	summary := &RoundSummary{WinnerID: winnerID, WinningCard: winningCard}
	for _, p := range r.Players {
		if p.ID == winnerID {
			p.Score += queenBonus
			summary.Results = append(summary.Results, SeatResult{
				PlayerID:   p.ID,
				Nickname:   p.Nickname,
				Points:     queenBonus,
				TotalScore: p.Score,
				Hand:       []deck.Card{},
				QueenBonus: queenBonus,
			})
			continue
		}
		points := deck.HandPoints(p.Hand)
		p.Score += points
		hand := make([]deck.Card, len(p.Hand))
		copy(hand, p.Hand)
		summary.Results = append(summary.Results, SeatResult{
			PlayerID:   p.ID,
			Nickname:   p.Nickname,
			Points:     points,
			TotalScore: p.Score,
			Hand:       hand,
		})
	}

	// The single highest round score among the losers deals next round.
	roundLoserID := ""
	maxPoints := -1
	for _, res := range summary.Results {
		if res.PlayerID != winnerID && res.Points > maxPoints {
			maxPoints = res.Points
			roundLoserID = res.PlayerID
		}
	}

	kicked := map[string]bool{}
	for _, p := range r.Players {
		if p.Score == 101 {
			p.Score = 0
		} else if p.Score > 101 {
			kicked[p.ID] = true
			summary.Kicked = append(summary.Kicked, p)
		}
	}

	if roundLoserID != "" && !kicked[roundLoserID] {
		r.LastLoserID = roundLoserID
	} else {
		r.LastLoserID = ""
	}

	if len(r.Players)-len(summary.Kicked) < 2 {
		summary.RoomClosed = true
		for _, p := range r.Players {
			if kicked[p.ID] {
				continue
			}
			if summary.FinalWinner == nil || p.Score < summary.FinalWinner.Score {
				summary.FinalWinner = p
			}
		}
		return summary
	}

	for _, p := range summary.Kicked {
		r.removePlayerLocked(p.ID)
	}

	// Back to the lobby; scores persist, table state does not.
	r.GameStarted = false
	r.Deck = nil
	r.DiscardPile = nil
	r.ChosenSuit = ""
	r.CardDrawnThisTurn = false
	r.clearEightChainLocked()
	for _, p := range r.Players {
		p.Hand = nil
		p.Ready = p.IsBot
	}
	return summary
}
