package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const teamVideoBasename = "congrats"

type seedQuestion struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
	IsTrue    bool   `json:"is_true"`
}

// SeedQuestions loads the quiz fixture into an empty question table. A
// non-empty table or a missing fixture file leaves the bank untouched, so
// admin edits survive restarts.
func (r *repository) SeedQuestions(ctx context.Context, path string) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM truth_or_myth_questions`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		r.log.Warn().Str("path", path).Msg("question fixture not found, skipping seed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read question fixture: %w", err)
	}

	var questions []seedQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return fmt.Errorf("failed to parse question fixture: %w", err)
	}

	for _, q := range questions {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO truth_or_myth_questions (id, statement, is_true, is_active)
			VALUES ($1, $2, $3, TRUE)
		`, q.ID, q.Statement, q.IsTrue); err != nil {
			return fmt.Errorf("failed to seed question %s: %w", q.ID, err)
		}
	}

	r.log.Info().Int("count", len(questions)).Msg("question bank seeded from fixture")
	return nil
}

// SeedTeams scans the media directory for per-team folders and upserts a team
// row per folder, pointing media_path at the congrats video inside it.
// Folders are ordered by name to give a stable display order.
func (r *repository) SeedTeams(ctx context.Context, mediaDir string) error {
	entries, err := os.ReadDir(mediaDir)
	if os.IsNotExist(err) {
		r.log.Warn().Str("dir", mediaDir).Msg("media directory not found, skipping team seed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read media directory: %w", err)
	}

	var teamDirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			teamDirs = append(teamDirs, entry.Name())
		}
	}
	sort.Slice(teamDirs, func(i, j int) bool {
		return strings.ToLower(teamDirs[i]) < strings.ToLower(teamDirs[j])
	})

	for sortOrder, team := range teamDirs {
		mediaPath := team + "/" + teamVideoBasename + ".mp4"
		candidates, err := filepath.Glob(filepath.Join(mediaDir, team, teamVideoBasename+".*"))
		if err == nil {
			sort.Strings(candidates)
			for _, candidate := range candidates {
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					mediaPath = team + "/" + filepath.Base(candidate)
					break
				}
			}
		}

		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO teams (team, media_path, sort_order)
			VALUES ($1, $2, $3)
			ON CONFLICT (team) DO UPDATE SET
				media_path = EXCLUDED.media_path,
				sort_order = EXCLUDED.sort_order
		`, team, mediaPath, sortOrder+1); err != nil {
			return fmt.Errorf("failed to seed team %s: %w", team, err)
		}
	}

	r.log.Info().Int("count", len(teamDirs)).Msg("teams seeded from media directory")
	return nil
}
