// vcadmin explores the joint state space of a governance scenario and
// checks the property catalogue on it. Scenarios come from toml files or
// from the built-in standard scenario, runs can be archived and inspected
// later, and the reached state space can be exported as a graphviz graph.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.dedis.ch/onet/v3/cfgpath"
	"go.dedis.ch/onet/v3/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/muveraai/conclave/archive"
	"github.com/muveraai/conclave/model"
	"github.com/muveraai/conclave/scenario"
	"github.com/muveraai/conclave/vcadmin/lib"
	"github.com/muveraai/conclave/verify"
)

var cliApp = cli.NewApp()

// getDataPath is a function pointer so that tests can hook and modify this.
var getDataPath = cfgpath.GetDataPath

var gitTag = "dev"

func init() {
	cliApp.Name = "vcadmin"
	cliApp.Usage = "Verify compositions of governance protocols."
	cliApp.Version = gitTag
	cliApp.Commands = cmds // stored in "commands.go"
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
		cli.StringFlag{
			Name:   "config, c",
			EnvVar: "VC_CONFIG",
			Value:  getDataPath("vcadmin"),
			Usage:  "path to configuration-directory",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		lib.ConfigPath = c.String("config")
		return nil
	}
}

func main() {
	err := cliApp.Run(os.Args)
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

// loadScenario reads the scenario file named on the command line, falling
// back to the built-in standard scenario when none is given.
func loadScenario(c *cli.Context) (scenario.Scenario, error) {
	fn := c.Args().First()
	if fn == "" {
		log.Info("No scenario file given, using the standard scenario")
		return scenario.StandardScenario(), nil
	}
	return scenario.Load(fn)
}

func check(c *cli.Context) error {
	s, err := loadScenario(c)
	if err != nil {
		return err
	}
	if b := c.Int("bound"); b != 0 {
		s.Bound = b
	}
	if p := c.String("priority"); p != "" {
		s.Priority = strings.Split(p, ",")
	}

	v, err := s.Verifier()
	if err != nil {
		return err
	}
	results, err := v.VerifyAll(s.Priority)
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		printJSON(results)
	default:
		printTxt(s, v, results)
	}

	if c.Bool("save") {
		ar, err := lib.OpenArchive()
		if err != nil {
			return err
		}
		defer ar.Close()
		rec, err := ar.Store(archive.Record{
			Scenario: s.Name,
			Priority: s.Priority,
			Bound:    v.MaxStates(),
			Results:  results,
		})
		if err != nil {
			return err
		}
		log.Info("Stored run", rec.ID, "in", lib.ArchivePath())
	}
	return nil
}

func graph(c *cli.Context) error {
	s, err := loadScenario(c)
	if err != nil {
		return err
	}
	if b := c.Int("bound"); b != 0 {
		s.Bound = b
	}
	v, err := s.Verifier()
	if err != nil {
		return err
	}

	out := os.Stdout
	if fn := c.String("out"); fn != "" {
		f, err := os.Create(fn)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
		log.Info("Writing graph to", fn)
	}
	return lib.WriteDot(out, v.Explore())
}

func runs(c *cli.Context) error {
	ar, err := lib.OpenArchive()
	if err != nil {
		return err
	}
	defer ar.Close()
	list, err := ar.List()
	if err != nil {
		return err
	}
	if c.String("format") == "json" {
		printJSON(list)
		return nil
	}
	if len(list) == 0 {
		log.Info("No runs stored yet")
		return nil
	}
	for _, rec := range list {
		verdict := "all hold"
		if !rec.Results.AllHold() {
			verdict = "violations found"
		}
		log.Infof("%s  %s  %s: %s",
			rec.Ran.Format("2006-01-02 15:04:05"), rec.ID, rec.Scenario, verdict)
	}
	return nil
}

func show(c *cli.Context) error {
	ar, err := lib.OpenArchive()
	if err != nil {
		return err
	}
	defer ar.Close()

	var rec archive.Record
	id := c.Args().First()
	if id == "" || id == "latest" {
		rec, err = ar.Latest()
	} else {
		rec, err = ar.Get(id)
	}
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		printJSON(rec)
		return nil
	}
	log.Info("-----------------------------------------------")
	log.Infof("Run = %s", rec.ID)
	log.Infof("Scenario = \"%s\"", rec.Scenario)
	log.Infof("Ran = %s", rec.Ran.Format("2006-01-02 15:04:05"))
	if len(rec.Priority) == 0 {
		log.Info("Priority = composition order")
	} else {
		log.Infof("Priority = %s", strings.Join(rec.Priority, ", "))
	}
	log.Infof("Bound = %d", rec.Bound)
	for _, r := range rec.Results {
		printResultTxt(r)
	}
	log.Info("-----------------------------------------------")
	return nil
}

func export(c *cli.Context) error {
	s := scenario.StandardScenario()
	fn := c.Args().First()
	if fn == "" {
		return toml.NewEncoder(os.Stdout).Encode(s)
	}
	if err := s.Save(fn); err != nil {
		return err
	}
	log.Info("Wrote the standard scenario to", fn)
	return nil
}

// prints the outcome of one exploration and its property verdicts
func printTxt(s scenario.Scenario, v *verify.Verifier, results verify.Results) {
	ss := v.Explore()
	log.Info("-----------------------------------------------")
	log.Infof("Scenario = \"%s\"", s.Name)
	log.Infof("Protocols = %s", strings.Join(ss.Composer().Names(), ", "))
	log.Infof("Reached = %d of %d joint states", ss.Len(), ss.Composer().ProductSize())
	if ss.Truncated() {
		log.Infof("Bound = %d states, reached before exhaustion", v.MaxStates())
	}
	for _, r := range results {
		printResultTxt(r)
	}
	log.Info("-----------------------------------------------")
}

func printResultTxt(r verify.Result) {
	log.Info("-----------------------------------------------")
	log.Infof("Property = %s", r.Property)
	log.Infof("Holds = %v", r.Holds)
	log.Infof("States checked = %d", r.StatesChecked)
	log.Infof("Detail = %s", r.Detail)
	if ce := r.Counterexample; ce != nil {
		log.Infof("Counterexample state = (%s)", strings.Join(ce.State, ", "))
		if ce.Action != "" {
			log.Infof("Counterexample action = %s", ce.Action)
		}
		log.Infof("Counterexample path = %s", pathString(ce.Path))
	}
}

func pathString(path []model.Action) string {
	if len(path) == 0 {
		return "(initial state)"
	}
	strs := make([]string, len(path))
	for i, a := range path {
		strs[i] = string(a)
	}
	return strings.Join(strs, " -> ")
}

func printJSON(v interface{}) {
	b1 := new(bytes.Buffer)
	e := json.NewEncoder(b1)
	e.Encode(v)

	b2 := new(bytes.Buffer)
	json.Indent(b2, b1.Bytes(), "", "  ")

	out := bufio.NewWriter(os.Stdout)
	out.Write(b2.Bytes())
	out.Flush()
}
