package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"gameday/internal/dto"
	"gameday/internal/model"
	"gameday/internal/repo"
	"gameday/internal/stats"
	"gameday/pkg/validator"
)

const defaultQuestionLimit = 10

// Publisher is the slice of the rabbit client the service needs. A nil
// publisher disables the completion notifications without touching the
// submission path.
type Publisher interface {
	Publish(message []byte) error
}

type Service interface {
	Register(ctx *ginext.Context)
	SubmitResult(ctx *ginext.Context)
	PlayedGames(ctx *ginext.Context)
	Stats(ctx *ginext.Context)
	TeamStats(ctx *ginext.Context)
	TeamTotalStats(ctx *ginext.Context)
	Teams(ctx *ginext.Context)
	Questions(ctx *ginext.Context)

	ResetResults(ctx *ginext.Context)
	UpsertTeam(ctx *ginext.Context)
	RenameTeam(ctx *ginext.Context)
	DeleteTeam(ctx *ginext.Context)
	AdminQuestions(ctx *ginext.Context)
	CreateQuestion(ctx *ginext.Context)
	UpdateQuestion(ctx *ginext.Context)
	DeleteQuestion(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	pub  Publisher
}

func NewService(repo repo.Repository, logger *zerolog.Logger, pub Publisher) Service {
	return &service{
		repo: repo,
		log:  logger,
		pub:  pub,
	}
}

func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse register request")
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	reg := &model.Registrant{
		FIO:   req.FIO,
		Team:  req.Team,
		Email: req.Email,
	}

	id, err := s.repo.CreateRegistrant(ctx, reg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create registrant in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("registration_id", id).Str("team", reg.Team).Msg("registrant created")

	dto.SuccessCreatedResponse(ctx, dto.RegisterResponse{
		ID:        id,
		FIO:       reg.FIO,
		Team:      reg.Team,
		Email:     reg.Email,
		CreatedAt: reg.CreatedAt,
	})
}

func (s *service) SubmitResult(ctx *ginext.Context) {
	var req dto.GameResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if req.GameType != "" && !model.ValidGameType(req.GameType) {
		dto.BadResponseError(ctx, dto.InvalidGameType, "Unknown game type: "+req.GameType)
		return
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 5000) {
		dto.BadResponseError(ctx, dto.ScoreOutOfRange, "Score must be between 0 and 5000")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	id, err := s.repo.CreateResult(ctx, req.RegistrationID, req.GameType, *req.Score)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyPlayed):
			dto.AlreadyPlayedError(ctx, req.GameType)
		case errors.Is(err, repo.ErrRegistrantNotFound):
			dto.RegistrantNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to record game result")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Int64("result_id", id).
		Int64("registration_id", req.RegistrationID).
		Str("game_type", req.GameType).
		Int64("score", *req.Score).
		Msg("game result recorded")

	s.publishResultRecorded(req.RegistrationID, req.GameType, *req.Score)

	dto.SuccessCreatedResponse(ctx, dto.GameResultResponse{
		ID:             id,
		RegistrationID: req.RegistrationID,
		GameType:       req.GameType,
		Score:          *req.Score,
		CreatedAt:      time.Now(),
	})
}

// publishResultRecorded is fire-and-forget: a broker outage must not fail an
// accepted submission.
func (s *service) publishResultRecorded(registrationID int64, gameType string, score int64) {
	if s.pub == nil {
		return
	}

	msg := dto.ResultRecordedMessage{
		RegistrationID: registrationID,
		GameType:       gameType,
		Score:          score,
		RecordedAt:     time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal result message")
		return
	}
	if err := s.pub.Publish(payload); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish result message")
	}
}

func (s *service) PlayedGames(ctx *ginext.Context) {
	registrationID, err := strconv.ParseInt(ctx.Query("registration_id"), 10, 64)
	if err != nil {
		dto.FieldIncorrectError(ctx, "registration_id")
		return
	}

	if _, err := s.repo.GetRegistrantByID(ctx, registrationID); err != nil {
		if errors.Is(err, repo.ErrRegistrantNotFound) {
			dto.RegistrantNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to look up registrant")
		dto.InternalServerError(ctx)
		return
	}

	games, err := s.repo.PlayedGames(ctx, registrationID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get played games")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.PlayedGamesResponse{
		RegistrationID: registrationID,
		Games:          games,
	})
}

// gameTypeFilter reads the optional game_type query parameter.
func gameTypeFilter(ctx *ginext.Context) (string, bool) {
	gameType := ctx.Query("game_type")
	if gameType != "" && !model.ValidGameType(gameType) {
		dto.BadResponseError(ctx, dto.InvalidGameType, "Unknown game type: "+gameType)
		return "", false
	}
	return gameType, true
}

func (s *service) Stats(ctx *ginext.Context) {
	gameType, ok := gameTypeFilter(ctx)
	if !ok {
		return
	}

	rows, err := s.repo.ScoredResults(ctx, gameType)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load results for stats")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.StatsResponse{
		Entries: stats.Individual(rows, gameType),
	})
}

func (s *service) TeamStats(ctx *ginext.Context) {
	gameType, ok := gameTypeFilter(ctx)
	if !ok {
		return
	}

	rows, err := s.repo.ScoredResults(ctx, gameType)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load results for team stats")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.TeamStatsResponse{
		Entries: stats.TeamBest(rows, gameType),
	})
}

func (s *service) TeamTotalStats(ctx *ginext.Context) {
	rows, err := s.repo.ScoredResults(ctx, "")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load results for team total stats")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.TeamTotalStatsResponse{
		Entries: stats.TeamTotal(rows),
	})
}

func (s *service) Teams(ctx *ginext.Context) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list teams")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.TeamsResponse{Teams: teams})
}

func (s *service) Questions(ctx *ginext.Context) {
	limit := defaultQuestionLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			dto.FieldIncorrectError(ctx, "limit")
			return
		}
		limit = parsed
	}

	questions, err := s.repo.RandomQuestions(ctx, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get quiz questions")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.QuestionsResponse{Questions: questions})
}
