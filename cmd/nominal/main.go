package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/broady/nominal/cmd/nominal/internal/check"
	"github.com/broady/nominal/cmd/nominal/internal/gen"
)

type CLI struct {
	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"warn" name:"log-level"`
	LogFormat string `help:"Log format." enum:"text,json" default:"text" name:"log-format"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate the JavaScript registration module."`
	Check   check.Cmd  `cmd:"" help:"Validate declarations without writing files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func (cli *CLI) logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cli.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("nominal"),
		kong.Description("Generate nominal type registrations for the JavaScript runtime."),
		kong.UsageOnError(),
	)
	err := ctx.Run(cli.logger())
	ctx.FatalIfErrorf(err)
}
