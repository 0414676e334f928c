package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"gameday/internal/mailer"
)

type ServerConfig struct {
	Port          string
	AdminToken    string
	MediaDir      string
	QuestionsPath string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	server := ServerConfig{
		Port:          cfg.GetString("server.port"),
		AdminToken:    cfg.GetString("server.admin_token"),
		MediaDir:      cfg.GetString("server.media_dir"),
		QuestionsPath: cfg.GetString("server.questions_path"),
	}

	if server.Port == "" {
		server.Port = "8080"
	}
	if server.MediaDir == "" {
		server.MediaDir = "./media"
	}
	if server.QuestionsPath == "" {
		server.QuestionsPath = "./truth_or_myth_questions.json"
	}
	if server.AdminToken == "" {
		log.Warn().Msg("server.admin_token is empty, admin routes are effectively disabled")
	}

	return server
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("db.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required")
	}

	slaveDSNs := cfg.GetStringSlice("db.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("db.conn_max_lifetime_seconds")) * time.Second,
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 20
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("DB configuration built")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rabbit := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}

	if rabbit.Url == "" {
		return RabbitConfig{}, fmt.Errorf("rabbit.url is required")
	}
	if rabbit.Exchange == "" {
		rabbit.Exchange = "game_results"
	}
	if rabbit.Queue == "" {
		rabbit.Queue = "game_results_recorded"
	}

	log.Info().Str("exchange", rabbit.Exchange).Str("queue", rabbit.Queue).Msg("RabbitMQ configuration built")
	return rabbit, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	smtp := mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}

	if smtp.Host == "" {
		log.Warn().Msg("smtp.host is empty, completion emails are disabled")
	}
	if smtp.Port == 0 {
		smtp.Port = 587
	}

	return smtp
}
