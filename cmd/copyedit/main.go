// Command copyedit highlights parts of speech and URLs in markdown text.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dshills/copyedit/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Configuration file (.toml, .yaml, or a host settings .json)" type:"path"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error); overrides the config file"`
	Filter   string `name:"filter" help:"Lua candidate filter script; overrides the config file" type:"path"`
}

// Validate implements kong's validation hook.
func (g *Globals) Validate() error {
	if g.LogLevel != "" && !logging.IsLevel(g.LogLevel) {
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", g.LogLevel)
	}
	return nil
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Analyze AnalyzeCmd `cmd:"" help:"Print the decorations of a document"`
	URLs    URLsCmd    `cmd:"" name:"urls" help:"List the URLs in a document"`
	Watch   WatchCmd   `cmd:"" help:"Re-annotate a document whenever it changes on disk"`
	Preview PreviewCmd `cmd:"" help:"Show a document with colored decorations in the terminal"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run prints the build metadata.
func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "copyedit %s\n", version)
	fmt.Fprintf(ctx.Stdout, "Commit: %s\n", commit)
	fmt.Fprintf(ctx.Stdout, "Built: %s\n", date)
	return nil
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("copyedit"),
		kong.Description("Highlight nouns, verbs, adjectives, adverbs, conjunctions and URLs in markdown."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	}, opts...)
	return kong.New(cli, opts...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
