package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     int
	From     string
	Password string
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SendCompletionEmail congratulates a registrant who has finished all three
// games. Best effort: callers treat a failure as a warning, never as a failed
// submission.
func SendCompletionEmail(log *zerolog.Logger, cfg Config, fio, team, recipient string) error {
	subject := "You completed every game!"
	body := fmt.Sprintf(
		"Hi %s!\n\nYou have finished all the mini-games. Team %s thanks you for playing.\nCheck the leaderboards to see where you and your team stand.",
		fio, team,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipient, subject, body,
	)

	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(cfg.addr(), auth, cfg.From, []string{recipient}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send completion email to %s: %v", recipient, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("completion email sent to %s", recipient)
	return nil
}
