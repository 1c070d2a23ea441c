package users

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/andrebq/turnstile/internal/config"
	"github.com/andrebq/turnstile/internal/setup"
	"github.com/andrebq/turnstile/users"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	var env *setup.Env
	return &cli.Command{
		Name:  "users",
		Usage: "Manage the users allowed to authenticate",
		Before: func(ctx *cli.Context) error {
			var err error
			env, err = setup.Open(ctx.Context, *cfg)
			return err
		},
		After: func(ctx *cli.Context) error {
			if env == nil {
				return nil
			}
			return env.Close()
		},
		Subcommands: []*cli.Command{
			addCmd(&env),
			passwdCmd(&env),
			listCmd(&env),
		},
	}
}

func readPassword(in io.Reader) (string, error) {
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if sc.Err() != nil {
			return "", sc.Err()
		}
		return "", errors.New("missing password from stdin")
	}
	password := strings.TrimSpace(sc.Text())
	if len(password) == 0 {
		return "", errors.New("missing password from stdin")
	}
	return password, nil
}

func addCmd(env **setup.Env) *cli.Command {
	var email, firstName, lastName string
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email used to login",
				Destination: &email,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "first-name",
				Destination: &firstName,
			},
			&cli.StringFlag{
				Name:        "last-name",
				Destination: &lastName,
			},
		},
		Action: func(ctx *cli.Context) error {
			password, err := readPassword(os.Stdin)
			if err != nil {
				return err
			}
			hash, err := (*env).Hasher.Hash(password)
			if err != nil {
				return err
			}
			u := &users.User{
				Email:          email,
				HashedPassword: string(hash),
				FirstName:      firstName,
				LastName:       lastName,
			}
			err = (*env).Users.Create(ctx.Context, u)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, u.ID)
			return nil
		},
	}
}

func passwdCmd(env **setup.Env) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "passwd",
		Usage: "Change the password of a user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			u, err := (*env).Users.FindUserBy(ctx.Context, users.Attrs{"email": email})
			if err != nil {
				return err
			}
			password, err := readPassword(os.Stdin)
			if err != nil {
				return err
			}
			hash, err := (*env).Hasher.Hash(password)
			if err != nil {
				return err
			}
			return (*env).Users.UpdateUser(ctx.Context, u.ID, users.Attrs{"hashed_password": string(hash)})
		},
	}
}

func listCmd(env **setup.Env) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List registered users, oldest first",
		Action: func(ctx *cli.Context) error {
			all, err := (*env).Users.List(ctx.Context)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tCREATED AT")
			for _, u := range all {
				fmt.Fprintf(tw, "%v\t%v\t%v\t%v\n", u.ID, u.Email, u.DisplayName(), u.CreatedAt.UTC().Format(users.TimestampFormat))
			}
			return tw.Flush()
		},
	}
}
