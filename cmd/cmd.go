// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand creates the config file and initializes the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml, initialize the database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "rollback", Usage: "Revert the most recent database migration instead"},
		},
		Action: r.Setup,
	}
}

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "register",
		Aliases: []string{"signup"},
		Usage:   "Create a new account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Alphanumeric username", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (prompted when omitted)"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true},
			&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "Birthday as YYYY-MM-DD"},
		},
		Action: r.Register,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (prompted when omitted)"},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored session",
		Action: r.Logout,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the logged-in user and token expiry",
		Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
		Action: r.Status,
	}
}

// moviesCommand handles catalog browsing
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every movie",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "cached", Usage: "Read the local catalog cache instead of the API"},
					&cli.StringFlag{Name: "genre", Usage: "Only movies of this genre"},
					&cli.StringFlag{Name: "director", Usage: "Only movies by this director"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "get",
				Usage:     "Show one movie by title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action:    r.MoviesGet,
			},
			{
				Name:      "genre",
				Usage:     "Describe a genre",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.MoviesGenre,
			},
			{
				Name:      "director",
				Usage:     "Describe a director",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.MoviesDirector,
			},
			{
				Name:      "synopsis",
				Usage:     "Show a movie's synopsis by id or title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "movie"}},
				Action:    r.MoviesSynopsis,
			},
		},
	}
}

// favoritesCommand handles the user's favorite movies
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite movies",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie by id or title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "movie"}},
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie by id or title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "movie"}},
				Action:    r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export favorites to csv, md, txt or json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base name for csv, directory for md)",
					},
					&cli.BoolFlag{
						Name:  "poster",
						Usage: "Download the first favorite's poster (md only)",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// profileCommand handles the account of the logged-in user
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show, edit or delete your account",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show profile and favorite movies",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.ProfileShow,
			},
			{
				Name:  "edit",
				Usage: "Update profile fields; omitted flags stay unchanged",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "New username"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "New password"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New email address"},
					&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "New birthday as YYYY-MM-DD"},
				},
				Action: r.ProfileEdit,
			},
			{
				Name:   "delete",
				Usage:  "Delete your account permanently",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"}},
				Action: r.ProfileDelete,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the movie API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Action:  r.TUI,
	}
}

// sandboxCommand runs the local API server.
func sandboxCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "Local in-memory movie API for development",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the sandbox API until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address (default from [server] config)"},
				},
				Action: r.SandboxServe,
			},
		},
	}
}
