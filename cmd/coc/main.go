package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type CLI struct {
	Globals

	Get     GetCmd     `cmd:"" help:"Fetch an API path, e.g. 'coc get locations 32000006 rankings clans'."`
	Routes  RoutesCmd  `cmd:"" help:"List the documented API routes."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

func newParser(cli *CLI, stdout io.Writer) (*kong.Kong, error) {
	cli.stdout = stdout
	return kong.New(cli,
		kong.Name("coc"),
		kong.Description("Command line client for the Clash of Clans API."),
		kong.UsageOnError(),
		kong.Writers(stdout, os.Stderr),
	)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, ".env file not loaded:", err)
	}

	cli := &CLI{}
	parser, err := newParser(cli, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
