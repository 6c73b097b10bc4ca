// Command fundctl runs maintenance tasks against the fund holdings database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&migrateCmd{}, "database")
	commander.Register(&importCalendarCmd{}, "database")
	commander.Register(&importNavCmd{}, "database")

	commander.Register(&sweepCmd{}, "settlement")
	commander.Register(&holdingsCmd{}, "reports")

	commander.Register(&encryptSecretCmd{}, "config")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
