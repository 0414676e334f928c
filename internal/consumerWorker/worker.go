package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"gameday/internal/dto"
	"gameday/internal/mailer"
	"gameday/internal/model"
	"gameday/internal/rabbit"
	"gameday/internal/repo"
)

// Reader consumes result-recorded messages and congratulates registrants who
// have completed every game. It runs beside the request handlers and never
// feeds anything back into the submission path.
type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	smtp   mailer.Config
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, smtp mailer.Config) *Reader {
	return &Reader{
		RMQ:  rmq,
		repo: repo,
		smtp: smtp,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("result worker started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.ResultRecordedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("registration_id", msg.RegistrationID).
				Str("game_type", msg.GameType).
				Msg("received result message")

			games, err := r.repo.PlayedGames(cctx, msg.RegistrationID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("registration_id", msg.RegistrationID).
					Msg("Failed to get played games in worker")
				return err
			}

			if !allGamesPlayed(games) {
				return nil
			}

			reg, err := r.repo.GetRegistrantByID(cctx, msg.RegistrationID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("registration_id", msg.RegistrationID).
					Msg("Failed to get registrant from DB in worker")
				return nil
			}

			if reg.Email == "" {
				return nil
			}

			if err := mailer.SendCompletionEmail(&zlog.Logger, r.smtp, reg.FIO, reg.Team, reg.Email); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Msg("Failed to send completion email")
			} else {
				zlog.Logger.Info().
					Str("email", reg.Email).
					Int64("registration_id", msg.RegistrationID).
					Msg("completion email sent")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("result worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func allGamesPlayed(games []string) bool {
	if len(games) < len(model.GameTypes) {
		return false
	}
	played := make(map[string]bool, len(games))
	for _, g := range games {
		played[g] = true
	}
	for _, gt := range model.GameTypes {
		if !played[gt] {
			return false
		}
	}
	return true
}
