package cli

import (
	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/habtools/hab/internal/output"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Setup   SetupCmd   `cmd:"" help:"Configure the Home Assistant connection"`
	Press   PressCmd   `cmd:"" help:"Press a configured button"`
	List    ListCmd    `cmd:"" help:"List configured buttons"`
	Verify  VerifyCmd  `cmd:"" help:"Test the connection to Home Assistant"`
	Button  ButtonCmd  `cmd:"" help:"Manage buttons without the setup wizard"`
	Version VersionCmd `cmd:"" help:"Show version information"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// BeforeApply hook runs before any command execution.
// It creates the formatter and binds shared dependencies.
func (c *CLI) BeforeApply(ctx *kong.Context) error {
	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput()),
	}

	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)

	return nil
}

// ButtonCmd holds the non-interactive button subcommands
type ButtonCmd struct {
	Add    ButtonAddCmd    `cmd:"" help:"Add or overwrite a button"`
	Remove ButtonRemoveCmd `cmd:"" help:"Remove a button"`
	List   ButtonListCmd   `cmd:"" help:"List configured buttons"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	println("hab version " + version)
	return nil
}
