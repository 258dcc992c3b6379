package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/habtools/hab/internal/cli"
	"github.com/habtools/hab/internal/output"
	"github.com/habtools/hab/internal/registry"
	"github.com/habtools/hab/internal/secrets"
)

var (
	version = "1.0.0"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("hab"),
		kong.Description("Home Assistant button controller"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Tab completion, including dynamic button labels for "hab press"
	kongplete.Complete(parser,
		kongplete.WithPredictor("label", complete.PredictFunc(predictLabels)),
	)

	// No arguments prints usage and exits cleanly
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"--help"}
	}

	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	// Run command with bound dependencies; translate domain errors to user
	// messages and exit codes in one place
	if err := ctx.Run(); err != nil {
		cliErr := output.Classify(err)
		formatter := output.New("plain")
		formatter.PrintError(cliErr)
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		os.Exit(cliErr.ExitCode)
	}
}

// predictLabels completes configured button labels. Completion must never
// prompt or fail loudly, so every error collapses to "no suggestions".
func predictLabels(complete.Args) []string {
	if err := os.Setenv("HAB_QUIET", "1"); err != nil {
		return nil
	}

	store, err := secrets.NewStore()
	if err != nil {
		return nil
	}

	labels, err := registry.NewButtons(store).List()
	if err != nil {
		return nil
	}
	return labels
}
