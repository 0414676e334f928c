package model

import "time"

const (
	GameMemo        = "memo"
	GameTruthOrMyth = "truth_or_myth"
	GameReaction    = "reaction"
)

// GameTypes lists every playable game type in display order.
var GameTypes = []string{GameMemo, GameTruthOrMyth, GameReaction}

func ValidGameType(gameType string) bool {
	for _, gt := range GameTypes {
		if gt == gameType {
			return true
		}
	}
	return false
}

type Registrant struct {
	ID        int64     `db:"id" json:"id"`
	FIO       string    `db:"fio" json:"fio"`
	Team      string    `db:"team" json:"team"`
	Email     string    `db:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type GameResult struct {
	ID             int64     `db:"id" json:"id"`
	RegistrationID int64     `db:"registration_id" json:"registration_id"`
	GameType       string    `db:"game_type" json:"game_type"`
	Score          int64     `db:"score" json:"score"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Team is presentational metadata about a team name (congrats video,
// display order). Registrants reference teams by the name string, not by id,
// so a rename must rewrite the string on every matching registrant.
type Team struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"team" json:"team"`
	MediaPath string `db:"media_path" json:"media_path"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

type Question struct {
	ID        string `db:"id" json:"id"`
	Statement string `db:"statement" json:"statement"`
	IsTrue    bool   `db:"is_true" json:"is_true"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}
