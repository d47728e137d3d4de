package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/koliving/api/cmd/app/commands"
	"github.com/koliving/api/internal/app"
	"github.com/koliving/api/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getUserCommands()...)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getMessageCommands()...)
	return cmds
}

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create an account, optionally with the ADMIN role",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Display name",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to be prompted)",
				},
				&cli.StringSliceFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   []string{"USER"},
					Usage:   "Role to grant, repeatable (USER or ADMIN)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("email"),
					cmd.String("password"),
					cmd.StringSlice("role"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-signing-key",
			Usage: "Generate an access token signing key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Optional KMS key URI used to encrypt the key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateSigningKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}

func getMessageCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set-message",
			Usage: "Store a localized message override",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "locale",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Locale of the message (e.g., en, ko)",
				},
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Message key (e.g., auth.bad_credentials)",
				},
				&cli.StringFlag{
					Name:     "pattern",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Message pattern, {0} placeholders allowed",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				repo, err := container.MessageRepository()
				if err != nil {
					return err
				}

				return commands.RunSetMessage(
					ctx,
					repo,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("locale"),
					cmd.String("key"),
					cmd.String("pattern"),
				)
			},
		},
	}
}
