// Command lynch classifies stocks into Peter Lynch's categories from the
// fundamentals of several data providers.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/lynch/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	// Answers the shell completion requests and exits, or does nothing.
	cmd.Completion(commander).Complete("lynch")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
