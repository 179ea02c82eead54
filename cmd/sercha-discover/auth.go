package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the repository and store the bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Account email",
				Sources:  cli.EnvVars("DSPACE_EMAIL"),
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Usage:    "Account password",
				Sources:  cli.EnvVars("DSPACE_PASSWORD"),
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.authService().Login(ctx, a.cfg.Auth.Profile, domain.Credentials{
				Email:    c.String("email"),
				Password: c.String("password"),
			})
			if err != nil {
				return err
			}

			out := c.Root().Writer
			fmt.Fprintf(out, "Logged in as %s\n", displayName(session.User))
			if !session.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Token expires %s\n", session.ExpiresAt.Format("2006-01-02 15:04 MST"))
			}
			if a.cfg.Redis.URL == "" {
				a.logger.Warn("no redis configured, the token is not kept after exit")
			}
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Invalidate and forget the stored bearer token",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.authService().Logout(ctx, a.cfg.Auth.Profile); err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, "Logged out")
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Request an account activation email",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Email to register",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			email := c.String("email")
			if err := a.authService().Register(ctx, a.cfg.Auth.Profile, domain.RegistrationRequest{Email: email}); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Activation email requested for %s\n", email)
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the user of the stored bearer token",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.authService().Current(ctx, a.cfg.Auth.Profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, displayName(user))
			return nil
		},
	}
}

func displayName(u *domain.User) string {
	if u == nil {
		return "unknown user"
	}
	if u.Name != "" && u.Email != "" {
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
