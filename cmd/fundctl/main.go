// Command fundctl is the operator tool for the fund manager backend. It
// works directly on the configured database, except for dashboard which
// talks to a running server.
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
	commander.Register(&snapshotCmd{}, "database")
	commander.Register(&userAddCmd{}, "database")
	commander.Register(&reportCmd{}, "database")
	commander.Register(&dashboardCmd{}, "remote")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
