package usecase

import (
	"cmp"
	"slices"

	"game2048_backend/domain"
)

const (
	DefaultLeaderboardSize = 20
	MaxLeaderboardSize     = 100
)

// ClampLimit maps a requested board size into [1, MaxLeaderboardSize]; zero or
// less means the default.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLeaderboardSize
	case n > MaxLeaderboardSize:
		return MaxLeaderboardSize
	default:
		return n
	}
}

// RankLeaderboard orders players by high score, fewer moves first on ties, and
// drops anyone without a saved game or a positive score.
func RankLeaderboard(users []domain.User, n int) []domain.LeaderboardEntry {
	ranked := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.GameState == nil || u.HighScore <= 0 {
			continue
		}
		ranked = append(ranked, u)
	}

	slices.SortStableFunc(ranked, func(a, b domain.User) int {
		if c := cmp.Compare(b.HighScore, a.HighScore); c != 0 {
			return c
		}
		return cmp.Compare(a.GameState.Moves, b.GameState.Moves)
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for _, u := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Username: u.Username,
			Score:    u.HighScore,
			MaxTile:  u.GameState.MaxTile,
		})
	}
	return entries
}
