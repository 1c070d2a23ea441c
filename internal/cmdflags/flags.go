package cmdflags

import (
	"github.com/urfave/cli/v2"
)

func Database(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "database",
		Aliases:     []string{"db", "d"},
		Usage:       "Directory holding the turnstile database",
		EnvVars:     []string{"TURNSTILE_DB"},
		Destination: out,
		Value:       *out,
	}
}

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind for incoming requests",
		EnvVars:     []string{"TURNSTILE_BIND"},
		Destination: out,
		Value:       *out,
	}
}

func AuthType(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "auth-type",
		Usage:       "Authentication strategy: basic_auth, session_auth, session_exp_auth or session_db_auth",
		EnvVars:     []string{"AUTH_TYPE"},
		Destination: out,
		Value:       *out,
	}
}

func LogLevel(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "info"
	}
	return &cli.StringFlag{
		Name:        "log-level",
		Usage:       "Minimum level of log messages (trace, debug, info, warn, error)",
		EnvVars:     []string{"TURNSTILE_LOG_LEVEL"},
		Destination: out,
		Value:       *out,
	}
}
