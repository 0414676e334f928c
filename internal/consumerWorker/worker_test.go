package consumerWorker

import (
	"testing"

	"gameday/internal/model"
)

func TestAllGamesPlayed(t *testing.T) {
	tests := []struct {
		name  string
		games []string
		want  bool
	}{
		{"none", nil, false},
		{"one", []string{model.GameMemo}, false},
		{"two", []string{model.GameMemo, model.GameReaction}, false},
		{"all three", []string{model.GameMemo, model.GameTruthOrMyth, model.GameReaction}, true},
		{"all three any order", []string{model.GameReaction, model.GameMemo, model.GameTruthOrMyth}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := allGamesPlayed(tc.games); got != tc.want {
				t.Errorf("allGamesPlayed(%v) = %v, want %v", tc.games, got, tc.want)
			}
		})
	}
}
