package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
	c.Register(&topicCmd{}, "help")
	c.Register(&fieldsCmd{}, "help")

	c.Register(&ingestCmd{}, "data")
	c.Register(&searchCmd{}, "data")
	c.Register(&auditCmd{}, "data")

	c.Register(&showCmd{}, "analysis")
	c.Register(&historyCmd{}, "analysis")
	c.Register(&topCmd{}, "analysis")
	c.Register(&exportCmd{}, "analysis")

	c.Register(&portfolioCmd{}, "portfolio")
}
