package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gameday/internal/model"
)

func (r *repository) ListTeams(ctx context.Context) ([]model.Team, error) {
	query := `
		SELECT id, team, media_path, sort_order
		FROM teams
		ORDER BY sort_order ASC, LOWER(team) ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.MediaPath, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *repository) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	query := `
		SELECT id, team, media_path, sort_order
		FROM teams
		WHERE team = $1
	`

	var t model.Team
	err := r.db.QueryRowContext(ctx, query, name).Scan(&t.ID, &t.Name, &t.MediaPath, &t.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}

func (r *repository) UpsertTeam(ctx context.Context, name, mediaPath string) error {
	query := `
		INSERT INTO teams (team, media_path, sort_order)
		VALUES ($1, $2, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM teams))
		ON CONFLICT (team) DO UPDATE SET media_path = EXCLUDED.media_path
	`

	if _, err := r.db.ExecContext(ctx, query, name, mediaPath); err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// RenameTeamTx updates the team metadata row and rewrites the team string on
// every registrant holding the old name in one transaction, so the rename is
// all-or-nothing. Returns (false, nil) when the old team does not exist and
// ErrTeamExists when the new name is already taken by a different team.
func (r *repository) RenameTeamTx(ctx context.Context, oldName, newName, mediaPath string) (bool, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM teams WHERE team = $1 FOR UPDATE
	`, oldName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return false, nil
	}
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to select team for rename: %w", err)
	}

	if newName != oldName {
		var conflict bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM teams WHERE team = $1)
		`, newName).Scan(&conflict)
		if err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("failed to check team name conflict: %w", err)
		}
		if conflict {
			_ = tx.Rollback()
			return false, ErrTeamExists
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE teams SET team = $1, media_path = $2 WHERE id = $3
	`, newName, mediaPath, id); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to update team row: %w", err)
	}

	if newName != oldName {
		if _, err := tx.ExecContext(ctx, `
			UPDATE registrations SET team = $1 WHERE team = $2
		`, newName, oldName); err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("failed to rewrite registrant teams: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit rename transaction: %w", err)
	}

	return true, nil
}

// DeleteTeam removes the metadata row only. Registrants keep the now-orphaned
// team string and still participate in aggregation under it.
func (r *repository) DeleteTeam(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE team = $1`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete team: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted teams: %w", err)
	}
	return affected > 0, nil
}
