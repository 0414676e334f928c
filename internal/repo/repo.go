package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"gameday/internal/model"
	"gameday/internal/stats"
)

var (
	ErrAlreadyPlayed      = errors.New("result already recorded for this game")
	ErrRegistrantNotFound = errors.New("registrant not found")
	ErrTeamExists         = errors.New("team already exists")
)

type Repository interface {
	CreateRegistrant(ctx context.Context, r *model.Registrant) (int64, error)
	GetRegistrantByID(ctx context.Context, id int64) (*model.Registrant, error)

	CreateResult(ctx context.Context, registrationID int64, gameType string, score int64) (int64, error)
	HasPlayed(ctx context.Context, registrationID int64, gameType string) (bool, error)
	PlayedGames(ctx context.Context, registrationID int64) ([]string, error)
	ScoredResults(ctx context.Context, gameType string) ([]stats.Row, error)
	ResetResultsTx(ctx context.Context) (int64, error)

	ListTeams(ctx context.Context) ([]model.Team, error)
	GetTeamByName(ctx context.Context, name string) (*model.Team, error)
	UpsertTeam(ctx context.Context, name, mediaPath string) error
	RenameTeamTx(ctx context.Context, oldName, newName, mediaPath string) (bool, error)
	DeleteTeam(ctx context.Context, name string) (bool, error)

	RandomQuestions(ctx context.Context, limit int) ([]model.Question, error)
	ListQuestions(ctx context.Context, includeInactive bool) ([]model.Question, error)
	CreateQuestion(ctx context.Context, q *model.Question) (string, error)
	UpdateQuestion(ctx context.Context, q *model.Question) (bool, error)
	DeleteQuestion(ctx context.Context, id string) (bool, error)

	SeedQuestions(ctx context.Context, path string) error
	SeedTeams(ctx context.Context, mediaDir string) error

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func isPqError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) CreateRegistrant(ctx context.Context, reg *model.Registrant) (int64, error) {
	query := `
		INSERT INTO registrations (fio, team, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	row := r.db.QueryRowContext(ctx, query, reg.FIO, reg.Team, reg.Email)
	if err := row.Scan(&reg.ID, &reg.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert registrant: %w", err)
	}
	return reg.ID, nil
}

func (r *repository) GetRegistrantByID(ctx context.Context, id int64) (*model.Registrant, error) {
	query := `
		SELECT id, fio, team, email, created_at
		FROM registrations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var reg model.Registrant
	if err := row.Scan(&reg.ID, &reg.FIO, &reg.Team, &reg.Email, &reg.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrantNotFound
		}
		return nil, fmt.Errorf("failed to get registrant: %w", err)
	}
	return &reg, nil
}

// CreateResult appends one result row. The unique index on
// (registration_id, game_type) is the authoritative play-once guard: two
// concurrent inserts for the same pair race at the storage layer and exactly
// one wins, the other comes back as ErrAlreadyPlayed.
func (r *repository) CreateResult(ctx context.Context, registrationID int64, gameType string, score int64) (int64, error) {
	query := `
		INSERT INTO game_results (registration_id, game_type, score)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, registrationID, gameType, score).Scan(&id)
	if err != nil {
		if isPqError(err, "23505") {
			return 0, ErrAlreadyPlayed
		}
		if isPqError(err, "23503") {
			return 0, ErrRegistrantNotFound
		}
		return 0, fmt.Errorf("failed to insert game result: %w", err)
	}
	return id, nil
}

func (r *repository) HasPlayed(ctx context.Context, registrationID int64, gameType string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM game_results
			WHERE registration_id = $1 AND game_type = $2
		)
	`

	var played bool
	if err := r.db.QueryRowContext(ctx, query, registrationID, gameType).Scan(&played); err != nil {
		return false, fmt.Errorf("failed to check played game: %w", err)
	}
	return played, nil
}

func (r *repository) PlayedGames(ctx context.Context, registrationID int64) ([]string, error) {
	query := `
		SELECT game_type
		FROM game_results
		WHERE registration_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get played games: %w", err)
	}
	defer rows.Close()

	games := make([]string, 0, len(model.GameTypes))
	for rows.Next() {
		var gt string
		if err := rows.Scan(&gt); err != nil {
			return nil, fmt.Errorf("failed to scan played game: %w", err)
		}
		games = append(games, gt)
	}
	return games, rows.Err()
}

// ScoredResults loads every result joined with its registrant, the raw input
// for the stats reductions. An empty gameType loads all games.
func (r *repository) ScoredResults(ctx context.Context, gameType string) ([]stats.Row, error) {
	query := `
		SELECT r.id, r.fio, r.team, gr.game_type, gr.score, gr.created_at
		FROM registrations r
		JOIN game_results gr ON gr.registration_id = r.id
	`
	args := []any{}
	if gameType != "" {
		query += ` WHERE gr.game_type = $1`
		args = append(args, gameType)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load scored results: %w", err)
	}
	defer rows.Close()

	var result []stats.Row
	for rows.Next() {
		var row stats.Row
		if err := rows.Scan(&row.RegistrationID, &row.FIO, &row.Team, &row.GameType, &row.Score, &row.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scored result: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ResetResultsTx wipes every result in a single transaction so a concurrent
// reader never observes a partially cleared table.
func (r *repository) ResetResultsTx(ctx context.Context) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM game_results`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to delete game results: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to count deleted results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reset transaction: %w", err)
	}

	r.log.Info().Int64("deleted", deleted).Msg("all game results wiped")
	return deleted, nil
}
