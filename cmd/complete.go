package cmd

import (
	"flag"

	"github.com/etnz/lynch"
	"github.com/etnz/lynch/docs"
	"github.com/etnz/lynch/portfolio"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of the flags whose values are known in advance, by flag name.
func predictors() map[string]complete.Predictor {
	var categories, strategies, fields predict.Set
	for _, c := range lynch.Categories() {
		categories = append(categories, c.String())
	}
	for _, s := range portfolio.DefaultStrategies() {
		strategies = append(strategies, s.Name)
	}
	for _, f := range lynch.Fields() {
		fields = append(fields, f.String())
	}
	return map[string]complete.Predictor{
		"c":       categories,
		"top":     categories,
		"s":       strategies,
		"f":       union{fields, predict.Files("*.json")},
		"o":       predict.Files("*.html"),
		"dir":     predict.Dirs("*"),
		"env-dir": predict.Dirs("*"),
	}
}

// union predicts the values of all its predictors.
type union []complete.Predictor

func (u union) Predict(prefix string) []string {
	var out []string
	for _, p := range u {
		out = append(out, p.Predict(prefix)...)
	}
	return out
}

// Completion describes the commands registered in c for shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	known := predictors()
	flags := func(visit func(func(*flag.Flag))) map[string]complete.Predictor {
		out := make(map[string]complete.Predictor)
		visit(func(f *flag.Flag) {
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				out[f.Name] = predict.Nothing
				return
			}
			if p, ok := known[f.Name]; ok {
				out[f.Name] = p
				return
			}
			out[f.Name] = predict.Something
		})
		return out
	}

	root := &complete.Command{Sub: make(map[string]*complete.Command)}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs.VisitAll)}
		switch cmd.Name() {
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		case "help":
			sub.Args = commandNames(c)
		}
		root.Sub[cmd.Name()] = sub
	})
	root.Flags = flags(c.VisitAll)
	return root
}

func commandNames(c *subcommands.Commander) predict.Set {
	var names predict.Set
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		names = append(names, cmd.Name())
	})
	return names
}
