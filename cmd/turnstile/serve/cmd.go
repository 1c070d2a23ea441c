package serve

import (
	"net/url"

	"github.com/andrebq/turnstile/auth/api"
	"github.com/andrebq/turnstile/internal/cmdflags"
	"github.com/andrebq/turnstile/internal/config"
	"github.com/andrebq/turnstile/internal/gateway"
	"github.com/andrebq/turnstile/internal/httpserver"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/andrebq/turnstile/internal/setup"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	var upstream string
	var secureCookie bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the authentication api (and optionally protect an upstream service)",
		Flags: []cli.Flag{
			cmdflags.Bind(&cfg.Bind),
			cmdflags.AuthType(&cfg.AuthType),
			&cli.StringFlag{
				Name:        "upstream",
				Usage:       "Base url of a service that receives every authenticated request not handled by turnstile",
				EnvVars:     []string{"TURNSTILE_UPSTREAM"},
				Destination: &upstream,
			},
			&cli.BoolFlag{
				Name:        "secure-cookie",
				Usage:       "Only send the session cookie over https",
				Destination: &secureCookie,
			},
		},
		Action: func(ctx *cli.Context) error {
			env, err := setup.Open(ctx.Context, *cfg)
			if err != nil {
				return err
			}
			defer env.Close()
			strategy, err := env.Strategy(ctx.Context)
			if err != nil {
				return err
			}
			opts := api.Options{SecureCookie: secureCookie}
			if upstream != "" {
				target, err := url.Parse(upstream)
				if err != nil {
					return err
				}
				opts.Upstream = gateway.Upstream(target)
			}
			logger := logutil.GetOrDefault(ctx.Context)
			logger.Info().
				Str("auth_type", cfg.AuthType).
				Str("upstream", upstream).
				Msg("Serving authentication api")
			return httpserver.Serve(ctx.Context, cfg.Bind, api.AsHandler(strategy, env.Users, opts))
		},
	}
}
