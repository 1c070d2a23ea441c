package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/turnstile/internal/config"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/andrebq/turnstile/internal/setup"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Maintenance of the sessions kept in the database",
		Subcommands: []*cli.Command{
			purgeCmd(cfg),
		},
	}
}

func purgeCmd(cfg *config.Config) *cli.Command {
	var olderThan time.Duration
	return &cli.Command{
		Name:  "purge",
		Usage: "Remove sqlite sessions that can no longer be used",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "older-than",
				Usage:       "Remove sessions created before now - older-than (defaults to SESSION_DURATION)",
				Destination: &olderThan,
			},
		},
		Action: func(ctx *cli.Context) error {
			if olderThan <= 0 {
				olderThan = cfg.SessionDuration
			}
			if olderThan <= 0 {
				return errors.New("sessions never expire, set SESSION_DURATION or --older-than")
			}
			env, err := setup.Open(ctx.Context, *cfg)
			if err != nil {
				return err
			}
			defer env.Close()
			store, err := env.SQLiteSessions(ctx.Context)
			if err != nil {
				return err
			}
			n, err := store.PurgeExpired(ctx.Context, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			logger := logutil.GetOrDefault(ctx.Context)
			logger.Info().Int64("purged", n).Dur("older_than", olderThan).Msg("Sessions purged")
			fmt.Fprintln(ctx.App.Writer, n)
			return nil
		},
	}
}
