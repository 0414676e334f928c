package service

import (
	"errors"
	"fmt"

	"github.com/wb-go/wbf/ginext"

	"gameday/internal/dto"
	"gameday/internal/model"
	"gameday/internal/repo"
	"gameday/pkg/validator"
)

func (s *service) ResetResults(ctx *ginext.Context) {
	deleted, err := s.repo.ResetResultsTx(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to reset game results")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("deleted", deleted).Msg("game results reset by admin")

	dto.SuccessResponse(ctx, dto.ResetResultsResponse{Deleted: deleted})
}

func (s *service) UpsertTeam(ctx *ginext.Context) {
	var req dto.TeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if err := s.repo.UpsertTeam(ctx, req.Team, req.MediaPath); err != nil {
		s.log.Error().Err(err).Msg("failed to upsert team")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("team", req.Team).Msg("team upserted")

	dto.SuccessCreatedResponse(ctx, dto.TeamRequest{
		Team:      req.Team,
		MediaPath: req.MediaPath,
	})
}

func (s *service) RenameTeam(ctx *ginext.Context) {
	oldName := ctx.Param("name")
	if oldName == "" {
		dto.FieldIncorrectError(ctx, "name")
		return
	}

	var req dto.TeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	renamed, err := s.repo.RenameTeamTx(ctx, oldName, req.Team, req.MediaPath)
	if err != nil {
		if errors.Is(err, repo.ErrTeamExists) {
			dto.ConflictResponseError(ctx, dto.TeamExists, "Team '"+req.Team+"' already exists")
			return
		}
		s.log.Error().Err(err).Msg("failed to rename team")
		dto.InternalServerError(ctx)
		return
	}
	if !renamed {
		dto.NotFoundResponseError(ctx, dto.TeamNotFound, "Team '"+oldName+"' not found")
		return
	}

	s.log.Info().Str("old", oldName).Str("new", req.Team).Msg("team renamed")

	dto.SuccessResponse(ctx, dto.TeamRequest{
		Team:      req.Team,
		MediaPath: req.MediaPath,
	})
}

func (s *service) DeleteTeam(ctx *ginext.Context) {
	name := ctx.Param("name")
	if name == "" {
		dto.FieldIncorrectError(ctx, "name")
		return
	}

	deleted, err := s.repo.DeleteTeam(ctx, name)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to delete team")
		dto.InternalServerError(ctx)
		return
	}
	if !deleted {
		dto.NotFoundResponseError(ctx, dto.TeamNotFound, "Team '"+name+"' not found")
		return
	}

	s.log.Info().Str("team", name).Msg("team deleted")

	dto.SuccessResponse(ctx, nil)
}

func (s *service) AdminQuestions(ctx *ginext.Context) {
	includeInactive := ctx.Query("include_inactive") != "false"

	questions, err := s.repo.ListQuestions(ctx, includeInactive)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list questions")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.QuestionsResponse{Questions: questions})
}

func (s *service) CreateQuestion(ctx *ginext.Context) {
	var req dto.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	q := &model.Question{
		Statement: req.Statement,
		IsTrue:    *req.IsTrue,
		IsActive:  *req.IsActive,
	}

	id, err := s.repo.CreateQuestion(ctx, q)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create question")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("question_id", id).Msg("question created")

	dto.SuccessCreatedResponse(ctx, q)
}

func (s *service) UpdateQuestion(ctx *ginext.Context) {
	id := ctx.Param("id")
	if id == "" {
		dto.FieldIncorrectError(ctx, "id")
		return
	}

	var req dto.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	q := &model.Question{
		ID:        id,
		Statement: req.Statement,
		IsTrue:    *req.IsTrue,
		IsActive:  *req.IsActive,
	}

	updated, err := s.repo.UpdateQuestion(ctx, q)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to update question")
		dto.InternalServerError(ctx)
		return
	}
	if !updated {
		dto.NotFoundResponseError(ctx, dto.QuestionNotFound, "Question not found")
		return
	}

	dto.SuccessResponse(ctx, q)
}

func (s *service) DeleteQuestion(ctx *ginext.Context) {
	id := ctx.Param("id")
	if id == "" {
		dto.FieldIncorrectError(ctx, "id")
		return
	}

	deleted, err := s.repo.DeleteQuestion(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to delete question")
		dto.InternalServerError(ctx)
		return
	}
	if !deleted {
		dto.NotFoundResponseError(ctx, dto.QuestionNotFound, "Question not found")
		return
	}

	dto.SuccessResponse(ctx, nil)
}
