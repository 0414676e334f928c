// Package stats reduces raw game results into the three leaderboard views.
// Every call recomputes from scratch over the rows it is given; there is no
// cached aggregate to invalidate.
package stats

import (
	"sort"
	"strings"
	"time"

	"gameday/internal/model"
)

// Row is one stored result joined with its registrant. Rows exist only for
// registrants that have played at least once.
type Row struct {
	RegistrationID int64
	FIO            string
	Team           string
	GameType       string
	Score          int64
	PlayedAt       time.Time
}

type Entry struct {
	RegistrationID int64     `json:"registration_id"`
	FIO            string    `json:"fio"`
	Team           string    `json:"team"`
	GamesCount     int       `json:"games_count"`
	BestScore      int64     `json:"best_score"`
	LastPlayed     time.Time `json:"last_played"`
}

type TeamEntry struct {
	Team       string    `json:"team"`
	GamesCount int       `json:"games_count"`
	BestScore  int64     `json:"best_score"`
	LastPlayed time.Time `json:"last_played"`
}

type TeamTotalEntry struct {
	Team            string `json:"team"`
	GamesPlayed     int    `json:"games_played"`
	TotalScore      int64  `json:"total_score"`
	MemoBest        *int64 `json:"memo_best"`
	TruthOrMythBest *int64 `json:"truth_or_myth_best"`
	ReactionBest    *int64 `json:"reaction_best"`
}

type group struct {
	registrationID int64
	fio            string
	team           string
	gamesCount     int
	bestScore      int64
	lastPlayed     time.Time
}

func (g *group) add(r Row) {
	g.gamesCount++
	if g.gamesCount == 1 || r.Score < g.bestScore {
		g.bestScore = r.Score
	}
	if r.PlayedAt.After(g.lastPlayed) {
		g.lastPlayed = r.PlayedAt
	}
}

// less is the shared four-key leaderboard order: best score ascending (lower
// is better), games count descending, last played descending, name ascending
// case-insensitively.
func (g *group) less(other *group) bool {
	if g.bestScore != other.bestScore {
		return g.bestScore < other.bestScore
	}
	if g.gamesCount != other.gamesCount {
		return g.gamesCount > other.gamesCount
	}
	if !g.lastPlayed.Equal(other.lastPlayed) {
		return g.lastPlayed.After(other.lastPlayed)
	}
	return strings.ToLower(g.fio) < strings.ToLower(other.fio)
}

// Individual builds the per-registrant leaderboard, optionally filtered to a
// single game type (empty string means all games).
func Individual(rows []Row, gameType string) []Entry {
	groups := make(map[int64]*group)
	order := make([]int64, 0)

	for _, r := range rows {
		if gameType != "" && r.GameType != gameType {
			continue
		}
		g, ok := groups[r.RegistrationID]
		if !ok {
			g = &group{registrationID: r.RegistrationID, fio: r.FIO, team: r.Team}
			groups[r.RegistrationID] = g
			order = append(order, r.RegistrationID)
		}
		g.add(r)
	}

	sorted := make([]*group, 0, len(order))
	for _, id := range order {
		sorted = append(sorted, groups[id])
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })

	entries := make([]Entry, 0, len(sorted))
	for _, g := range sorted {
		entries = append(entries, Entry{
			RegistrationID: g.registrationID,
			FIO:            g.fio,
			Team:           g.team,
			GamesCount:     g.gamesCount,
			BestScore:      g.bestScore,
			LastPlayed:     g.lastPlayed,
		})
	}
	return entries
}

// TeamBest builds the per-game team leaderboard: the same reduction as
// Individual but keyed by team name, so a team's score in a game is its best
// player's score.
func TeamBest(rows []Row, gameType string) []TeamEntry {
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, r := range rows {
		if gameType != "" && r.GameType != gameType {
			continue
		}
		g, ok := groups[r.Team]
		if !ok {
			g = &group{fio: r.Team, team: r.Team}
			groups[r.Team] = g
			order = append(order, r.Team)
		}
		g.add(r)
	}

	sorted := make([]*group, 0, len(order))
	for _, team := range order {
		sorted = append(sorted, groups[team])
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })

	entries := make([]TeamEntry, 0, len(sorted))
	for _, g := range sorted {
		entries = append(entries, TeamEntry{
			Team:       g.team,
			GamesCount: g.gamesCount,
			BestScore:  g.bestScore,
			LastPlayed: g.lastPlayed,
		})
	}
	return entries
}

// TeamTotal builds the cross-game standing. First every (team, game) pair is
// reduced to the minimum score among that team's registrants, so a team is
// credited once per game with its best entry no matter how many teammates
// played. Then per team: games_played counts distinct games, total_score sums
// the per-game cells. Breadth beats score: a team that completed more
// distinct games ranks above one that completed fewer.
func TeamTotal(rows []Row) []TeamTotalEntry {
	type cellKey struct {
		team     string
		gameType string
	}
	cells := make(map[cellKey]int64)
	order := make([]string, 0)
	seen := make(map[string]bool)

	for _, r := range rows {
		key := cellKey{team: r.Team, gameType: r.GameType}
		best, ok := cells[key]
		if !ok || r.Score < best {
			cells[key] = r.Score
		}
		if !seen[r.Team] {
			seen[r.Team] = true
			order = append(order, r.Team)
		}
	}

	entries := make([]TeamTotalEntry, 0, len(order))
	for _, team := range order {
		entry := TeamTotalEntry{Team: team}
		for _, gt := range model.GameTypes {
			best, ok := cells[cellKey{team: team, gameType: gt}]
			if !ok {
				continue
			}
			entry.GamesPlayed++
			entry.TotalScore += best
			score := best
			switch gt {
			case model.GameMemo:
				entry.MemoBest = &score
			case model.GameTruthOrMyth:
				entry.TruthOrMythBest = &score
			case model.GameReaction:
				entry.ReactionBest = &score
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.GamesPlayed != b.GamesPlayed {
			return a.GamesPlayed > b.GamesPlayed
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore < b.TotalScore
		}
		return strings.ToLower(a.Team) < strings.ToLower(b.Team)
	})
	return entries
}
