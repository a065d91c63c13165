package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "", "Path to the config file (defaults to VIRE_CONFIG, then vire-analytics.toml next to the binary)")
	quiet      = flag.Bool("quiet", false, "Suppress the startup banner")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every subcommand to c.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&performanceCmd{out: os.Stdout}, "reports")
	c.Register(&allocationCmd{out: os.Stdout}, "reports")
	c.Register(&chartCmd{}, "reports")
	c.Register(&versionCmd{out: os.Stdout}, "")
}
