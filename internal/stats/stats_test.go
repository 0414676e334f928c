package stats

import (
	"testing"
	"time"

	"gameday/internal/model"
)

var base = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func row(id int64, fio, team, gameType string, score int64, minute int) Row {
	return Row{
		RegistrationID: id,
		FIO:            fio,
		Team:           team,
		GameType:       gameType,
		Score:          score,
		PlayedAt:       base.Add(time.Duration(minute) * time.Minute),
	}
}

func TestIndividualOrdersByBestScore(t *testing.T) {
	rows := []Row{
		row(1, "Alice", "Red", model.GameMemo, 10, 1),
		row(2, "Bob", "Red", model.GameMemo, 5, 2),
		row(3, "Carol", "Blue", model.GameMemo, 2, 3),
	}

	entries := Individual(rows, model.GameMemo)

	want := []string{"Carol", "Bob", "Alice"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, fio := range want {
		if entries[i].FIO != fio {
			t.Errorf("position %d: expected %s, got %s", i, fio, entries[i].FIO)
		}
	}
}

func TestIndividualGameTypeFilter(t *testing.T) {
	rows := []Row{
		row(1, "Alice", "Red", model.GameMemo, 10, 1),
		row(2, "Bob", "Red", model.GameReaction, 3, 2),
	}

	entries := Individual(rows, model.GameReaction)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].FIO != "Bob" {
		t.Errorf("expected Bob, got %s", entries[0].FIO)
	}
}

func TestIndividualAggregatesPerRegistrant(t *testing.T) {
	rows := []Row{
		row(1, "Alice", "Red", model.GameMemo, 10, 1),
		row(1, "Alice", "Red", model.GameReaction, 4, 8),
		row(1, "Alice", "Red", model.GameTruthOrMyth, 7, 5),
	}

	entries := Individual(rows, "")

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.GamesCount != 3 {
		t.Errorf("expected 3 games, got %d", e.GamesCount)
	}
	if e.BestScore != 4 {
		t.Errorf("expected best score 4, got %d", e.BestScore)
	}
	if !e.LastPlayed.Equal(base.Add(8 * time.Minute)) {
		t.Errorf("expected last played at +8m, got %v", e.LastPlayed)
	}
}

func TestIndividualTiebreaks(t *testing.T) {
	// Same best score: more games wins. Same count too: most recent wins.
	// All equal: case-insensitive name order.
	rows := []Row{
		row(1, "zoe", "Red", model.GameMemo, 5, 1),
		row(2, "Adam", "Red", model.GameMemo, 5, 1),
		row(3, "Mia", "Blue", model.GameMemo, 5, 9),
		row(4, "Ben", "Blue", model.GameMemo, 5, 1),
		row(4, "Ben", "Blue", model.GameReaction, 5, 1),
	}

	entries := Individual(rows, "")

	want := []string{"Ben", "Mia", "Adam", "zoe"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, fio := range want {
		if entries[i].FIO != fio {
			t.Errorf("position %d: expected %s, got %s", i, fio, entries[i].FIO)
		}
	}
}

func TestIndividualEmptyInput(t *testing.T) {
	entries := Individual(nil, "")
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestTeamBestTakesTeamMinimum(t *testing.T) {
	rows := []Row{
		row(1, "Alice", "Red", model.GameMemo, 10, 1),
		row(2, "Bob", "Red", model.GameMemo, 5, 2),
		row(3, "Carol", "Blue", model.GameMemo, 2, 3),
	}

	entries := TeamBest(rows, model.GameMemo)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Team != "Blue" || entries[0].BestScore != 2 {
		t.Errorf("expected Blue with best 2 first, got %s with %d", entries[0].Team, entries[0].BestScore)
	}
	if entries[1].Team != "Red" || entries[1].BestScore != 5 {
		t.Errorf("expected Red with best 5 second, got %s with %d", entries[1].Team, entries[1].BestScore)
	}
	if entries[1].GamesCount != 2 {
		t.Errorf("expected Red games count 2, got %d", entries[1].GamesCount)
	}
}

func TestTeamTotalScenario(t *testing.T) {
	// A(Red) memo=10, B(Red) memo=5, B truth_or_myth=3, C(Blue) memo=2.
	rows := []Row{
		row(1, "A", "Red", model.GameMemo, 10, 1),
		row(2, "B", "Red", model.GameMemo, 5, 2),
		row(2, "B", "Red", model.GameTruthOrMyth, 3, 3),
		row(3, "C", "Blue", model.GameMemo, 2, 4),
	}

	entries := TeamTotal(rows)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	red := entries[0]
	if red.Team != "Red" {
		t.Fatalf("expected Red first despite higher total, got %s", red.Team)
	}
	if red.GamesPlayed != 2 || red.TotalScore != 8 {
		t.Errorf("Red: expected 2 games and total 8, got %d and %d", red.GamesPlayed, red.TotalScore)
	}
	if red.MemoBest == nil || *red.MemoBest != 5 {
		t.Errorf("Red: expected memo best 5, got %v", red.MemoBest)
	}
	if red.TruthOrMythBest == nil || *red.TruthOrMythBest != 3 {
		t.Errorf("Red: expected truth_or_myth best 3, got %v", red.TruthOrMythBest)
	}
	if red.ReactionBest != nil {
		t.Errorf("Red: expected no reaction best, got %d", *red.ReactionBest)
	}

	blue := entries[1]
	if blue.GamesPlayed != 1 || blue.TotalScore != 2 {
		t.Errorf("Blue: expected 1 game and total 2, got %d and %d", blue.GamesPlayed, blue.TotalScore)
	}
	if blue.MemoBest == nil || *blue.MemoBest != 2 {
		t.Errorf("Blue: expected memo best 2, got %v", blue.MemoBest)
	}
}

func TestTeamTotalBreadthBeatsScore(t *testing.T) {
	rows := []Row{
		row(1, "A", "Wide", model.GameMemo, 1000, 1),
		row(1, "A", "Wide", model.GameTruthOrMyth, 1000, 2),
		row(1, "A", "Wide", model.GameReaction, 1000, 3),
		row(2, "B", "Deep", model.GameMemo, 1, 4),
		row(3, "C", "Deep", model.GameTruthOrMyth, 1, 5),
	}

	entries := TeamTotal(rows)

	if entries[0].Team != "Wide" {
		t.Errorf("expected Wide (3 games) above Deep (2 games), got %s first", entries[0].Team)
	}
}

func TestTeamTotalTiebreaks(t *testing.T) {
	rows := []Row{
		row(1, "A", "beta", model.GameMemo, 5, 1),
		row(2, "B", "Alpha", model.GameMemo, 5, 2),
		row(3, "C", "Gamma", model.GameMemo, 3, 3),
	}

	entries := TeamTotal(rows)

	want := []string{"Gamma", "Alpha", "beta"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, team := range want {
		if entries[i].Team != team {
			t.Errorf("position %d: expected %s, got %s", i, team, entries[i].Team)
		}
	}
}
