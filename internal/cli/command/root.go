// Package command provides CLI command definitions for strand-cli.
//
// It uses urfave/cli/v2 for flag parsing and supports both single-command
// mode and an interactive REPL mode.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/strandkv/strand/internal/cli/connection"
	"github.com/strandkv/strand/internal/cli/output"
	"github.com/strandkv/strand/internal/cli/repl"
	"github.com/strandkv/strand/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "strand-cli",
		Usage:   "Strand command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		// With arguments, run one command and exit; without, drop into
		// the interactive prompt.
		Action:          rootAction,
		HideHelpCommand: true,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Strand server address",
			EnvVars: []string{"STRAND_SERVER"},
			Value:   "localhost:6379",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Per-request timeout",
			Value:   connection.DefaultTimeout,
		},
	}
}

func rootAction(c *cli.Context) error {
	client, err := connection.Dial(c.String("server"), connection.WithTimeout(c.Duration("timeout")))
	if err != nil {
		return err
	}
	defer client.Close()

	if c.Args().Present() {
		out, err := runCommand(client, c.Args().Slice())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, out)
		return nil
	}

	fmt.Fprintf(c.App.Writer, "Connected to %s\n", c.String("server"))
	r := repl.New(func(args []string) (string, error) {
		return runCommand(client, args)
	})
	return r.Run()
}

// runCommand sends one command and renders its reply.
func runCommand(client *connection.Client, args []string) (string, error) {
	v, err := client.DoWait(blockingWait(args), args...)
	if err != nil {
		return "", err
	}
	return output.Format(v), nil
}

// blockingWait returns the deadline headroom for commands that park
// server-side. A zero timeout means block indefinitely, so the headroom is
// effectively unbounded.
func blockingWait(args []string) time.Duration {
	if len(args) < 2 {
		return 0
	}
	switch strings.ToUpper(args[0]) {
	case "BLPOP", "BRPOP":
	default:
		return 0
	}

	secs, err := strconv.ParseFloat(args[len(args)-1], 64)
	if err != nil || secs < 0 {
		return 0
	}
	if secs == 0 {
		return 24 * time.Hour
	}
	return time.Duration(secs*float64(time.Second)) + time.Second
}
