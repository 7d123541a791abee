package main

import (
	"gopkg.in/urfave/cli.v1"
)

var cmds = cli.Commands{
	{
		Name:      "check",
		Usage:     "explore a scenario and check the property catalogue on it",
		Aliases:   []string{"c"},
		ArgsUsage: "[scenario.toml]",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "bound, b",
				Usage: "override the scenario's ceiling on visited joint states",
			},
			cli.StringFlag{
				Name:  "priority, p",
				Usage: "comma-separated protocol names, most important first",
			},
			cli.StringFlag{
				Name:  "format, f",
				Value: "txt",
				Usage: "output format: \"txt\" (default) or \"json\"",
			},
			cli.BoolFlag{
				Name:  "save, s",
				Usage: "store the run in the archive",
			},
		},
		Action: check,
	},
	{
		Name:      "graph",
		Usage:     "write the reached joint state space as a graphviz dot file",
		Aliases:   []string{"g"},
		ArgsUsage: "[scenario.toml]",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "bound, b",
				Usage: "override the scenario's ceiling on visited joint states",
			},
			cli.StringFlag{
				Name:  "out, o",
				Usage: "write to `FILE.dot` instead of STDOUT",
			},
		},
		Action: graph,
	},
	{
		Name:  "runs",
		Usage: "list the archived verification runs, oldest first",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "format, f",
				Value: "txt",
				Usage: "output format: \"txt\" (default) or \"json\"",
			},
		},
		Action: runs,
	},
	{
		Name:      "show",
		Usage:     "print one archived run",
		ArgsUsage: "[id | latest]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "format, f",
				Value: "txt",
				Usage: "output format: \"txt\" (default) or \"json\"",
			},
		},
		Action: show,
	},
	{
		Name:      "export",
		Usage:     "write the built-in standard scenario as a toml file",
		ArgsUsage: "[scenario.toml]",
		Action:    export,
	},
}
