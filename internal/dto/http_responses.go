package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"gameday/internal/model"
	"gameday/internal/stats"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	AlreadyPlayed       = "ALREADY_PLAYED"
	InvalidGameType     = "INVALID_GAME_TYPE"
	ScoreOutOfRange     = "SCORE_OUT_OF_RANGE"
	RegistrantNotFound  = "REGISTRATION_NOT_FOUND"
	TeamExists          = "TEAM_EXISTS"
	TeamNotFound        = "TEAM_NOT_FOUND"
	QuestionNotFound    = "QUESTION_NOT_FOUND"
	AdminTokenIncorrect = "ADMIN_TOKEN_INCORRECT"
)

type RegisterRequest struct {
	FIO   string `json:"fio" validate:"required,min=2,max=200"`
	Team  string `json:"team" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

type RegisterResponse struct {
	ID        int64     `json:"id"`
	FIO       string    `json:"fio"`
	Team      string    `json:"team"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GameResultRequest struct {
	RegistrationID int64  `json:"registration_id" validate:"required,gt=0"`
	GameType       string `json:"game_type" validate:"required,gametype"`
	Score          *int64 `json:"score" validate:"required,gte=0,lte=5000"`
}

type GameResultResponse struct {
	ID             int64     `json:"id"`
	RegistrationID int64     `json:"registration_id"`
	GameType       string    `json:"game_type"`
	Score          int64     `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

type PlayedGamesResponse struct {
	RegistrationID int64    `json:"registration_id"`
	Games          []string `json:"games"`
}

type StatsResponse struct {
	Entries []stats.Entry `json:"entries"`
}

type TeamStatsResponse struct {
	Entries []stats.TeamEntry `json:"entries"`
}

type TeamTotalStatsResponse struct {
	Entries []stats.TeamTotalEntry `json:"entries"`
}

type TeamsResponse struct {
	Teams []model.Team `json:"teams"`
}

type TeamRequest struct {
	Team      string `json:"team" validate:"required,min=1,max=100"`
	MediaPath string `json:"media_path"`
}

type QuestionsResponse struct {
	Questions []model.Question `json:"questions"`
}

type QuestionRequest struct {
	Statement string `json:"statement" validate:"required,min=1"`
	IsTrue    *bool  `json:"is_true" validate:"required"`
	IsActive  *bool  `json:"is_active" validate:"required"`
}

type ResetResultsResponse struct {
	Deleted int64 `json:"deleted"`
}

// ResultRecordedMessage is published to RabbitMQ on every accepted result so
// the completion worker can react without blocking the submission path.
type ResultRecordedMessage struct {
	RegistrationID int64     `json:"registration_id"`
	GameType       string    `json:"game_type"`
	Score          int64     `json:"score"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func errorResponse(c *ginext.Context, httpStatus int, code, desc string) {
	c.JSON(httpStatus, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, 400, code, desc)
}

func ConflictResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, 409, code, desc)
}

func NotFoundResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, 404, code, desc)
}

func UnauthorizedError(c *ginext.Context) {
	errorResponse(c, 401, AdminTokenIncorrect, "Admin token is missing or incorrect")
}

func InternalServerError(c *ginext.Context) {
	errorResponse(c, 500, ServiceUnavailable, InternalError)
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func AlreadyPlayedError(c *ginext.Context, gameType string) {
	ConflictResponseError(c, AlreadyPlayed, "You have already completed the '"+gameType+"' game")
}

func RegistrantNotFoundError(c *ginext.Context) {
	NotFoundResponseError(c, RegistrantNotFound, "Registration not found")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
