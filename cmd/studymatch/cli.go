package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/roster"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "studymatch",
		Usage:   "Study partner matcher for course rosters",
		Version: Version,
		Commands: []*cli.Command{
			importCmd(db, cfg),
			addCmd(db),
			fetchCmd(db),
			listCmd(db),
			removeCmd(db),
			matchCmd(db),
			bestCmd(db),
			resourceAddCmd(db),
			resourcesCmd(db),
			reportCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import students from a CSV roster file",
		ArgsUsage: "<path.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch import <path.csv>"))
			}

			output, err := roster.Import(db, cfg, roster.ImportInput{
				Path: c.Args().First(),
				Mode: roster.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// addCmd creates the add command.
func addCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a single student",
		ArgsUsage: "<eid>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Student name (required)"},
			&cli.StringFlag{Name: "courses", Usage: "Comma-separated course codes"},
			&cli.IntFlag{Name: "confidence", Usage: "Confidence level 1-5", Value: 1},
			&cli.StringFlag{Name: "availability", Usage: "Semicolon-separated meeting slots"},
			&cli.StringFlag{Name: "email", Usage: "Contact email"},
			&cli.StringFlag{Name: "topics", Usage: "Comma-separated topics needing help"},
			&cli.StringFlag{Name: "style", Usage: "Preferred study style"},
			&cli.IntFlag{Name: "work-hours", Usage: "Weekly work hours", Value: 5},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch add <eid> --name <name> [options]"))
			}

			confidence := c.Int("confidence")
			workHours := c.Int("work-hours")

			output, err := roster.Add(db, roster.AddInput{
				EID:          c.Args().First(),
				Name:         c.String("name"),
				Courses:      c.String("courses"),
				Confidence:   &confidence,
				Availability: c.String("availability"),
				Email:        c.String("email"),
				TopicsNeed:   c.String("topics"),
				StudyStyle:   c.String("style"),
				WorkHours:    &workHours,
				Mode:         roster.AddMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a student record with their resources",
		ArgsUsage: "<eid>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch fetch <eid>"))
			}

			output, err := roster.Fetch(db, roster.FetchInput{EID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List students ordered by EID",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Page size (max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := roster.List(db, roster.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a student and their resources",
		ArgsUsage: "<eid>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch remove <eid>"))
			}

			output, err := roster.Remove(db, roster.RemoveInput{EID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// matchCmd creates the match command.
func matchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Rank study partners for a seeker, best first",
		ArgsUsage: "<eid>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum entries (max 100)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch match <eid>"))
			}

			output, err := roster.FindMatches(db, roster.FindMatchesInput{
				SeekerEID: c.Args().First(),
				Limit:     c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// bestCmd creates the best command.
func bestCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "best",
		Usage:     "Show the single best study partner for a seeker",
		ArgsUsage: "<eid>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch best <eid>"))
			}

			output, err := roster.BestMatch(db, roster.BestMatchInput{SeekerEID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// resourceAddCmd creates the resource-add command.
func resourceAddCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "resource-add",
		Usage:     "Attach a study resource note to a student",
		ArgsUsage: "<eid> <text>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: studymatch resource-add <eid> <text>"))
			}

			output, err := roster.AddResource(db, roster.AddResourceInput{
				EID:  c.Args().Get(0),
				Text: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// resourcesCmd creates the resources command.
func resourcesCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "resources",
		Usage:     "List a student's study resources",
		ArgsUsage: "<eid>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch resources <eid>"))
			}

			output, err := roster.Resources(db, roster.ResourcesInput{EID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// reportCmd creates the report command.
func reportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Write a ranked match report for a seeker",
		ArgsUsage: "<eid>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (.md or .html); defaults to ~/.studymatch/exports"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Candidates to include (max 100)"},
			&cli.BoolFlag{Name: "html", Usage: "Render the report as HTML"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: studymatch report <eid>"))
			}

			output, err := roster.Report(db, cfg, roster.ReportInput{
				SeekerEID: c.Args().First(),
				Path:      c.String("path"),
				Limit:     c.Int("limit"),
				HTML:      c.Bool("html"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// outputJSON prints data as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if mErr, ok := err.(*errors.MatchError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
