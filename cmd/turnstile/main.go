package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/turnstile/cmd/turnstile/serve"
	"github.com/andrebq/turnstile/cmd/turnstile/sessions"
	"github.com/andrebq/turnstile/cmd/turnstile/users"
	"github.com/andrebq/turnstile/internal/cmdflags"
	"github.com/andrebq/turnstile/internal/config"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.FromEnv(os.Getenv)
	cfg.RedisPassword = config.TakeSecret("REDIS_PASSWORD", os.Getenv, os.Setenv)
	var logLevel string
	app := &cli.App{
		Name:  "turnstile",
		Usage: "Authentication in front of your web api",
		Flags: []cli.Flag{
			cmdflags.LogLevel(&logLevel),
			cmdflags.Database(&cfg.DatabaseDir),
		},
		Before: func(ctx *cli.Context) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.Logger = logutil.New(os.Stderr, level)
			ctx.Context = logutil.WithLogger(ctx.Context, log.Logger)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(&cfg),
			users.Cmd(&cfg),
			sessions.Cmd(&cfg),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
