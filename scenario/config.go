package scenario

import (
	"bytes"
	"io/ioutil"

	"github.com/BurntSushi/toml"

	"github.com/muveraai/conclave"
	"github.com/muveraai/conclave/compose"
	"github.com/muveraai/conclave/model"
	"github.com/muveraai/conclave/verify"
)

// Scenario is the on-disk description of one verification run: the
// protocols to compose, in composition order, an optional priority list
// used to attribute denials and an optional ceiling on the number of joint
// states to explore. A zero bound means the default, an empty priority list
// means composition order.
type Scenario struct {
	Name      string
	Bound     int
	Priority  []string
	Protocols []model.Def
}

// StandardScenario returns the standard composition, ATP then ASP then
// AEAP, with the default bound.
func StandardScenario() Scenario {
	return Scenario{Name: "standard", Protocols: Standard()}
}

// Models compiles the protocol defs, in order.
func (s Scenario) Models() ([]*model.Protocol, error) {
	return Models(s.Protocols)
}

// Verifier compiles the scenario into a ready verifier.
func (s Scenario) Verifier() (*verify.Verifier, error) {
	models, err := s.Models()
	if err != nil {
		return nil, err
	}
	c, err := compose.New(models...)
	if err != nil {
		return nil, err
	}
	v := verify.New(c)
	if s.Bound != 0 {
		if err := v.SetMaxStates(s.Bound); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Run checks every property of the catalogue against the scenario.
func (s Scenario) Run() (verify.Results, error) {
	v, err := s.Verifier()
	if err != nil {
		return nil, err
	}
	return v.VerifyAll(s.Priority)
}

// Load reads a scenario from a TOML file.
func Load(path string) (Scenario, error) {
	var s Scenario
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return s, conclave.ConfigWrap(err, "reading scenario")
	}
	if _, err := toml.Decode(string(buf), &s); err != nil {
		return s, conclave.ConfigWrap(err, "decoding scenario "+path)
	}
	return s, nil
}

// Save writes the scenario as a TOML file.
func (s Scenario) Save(path string) error {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(s); err != nil {
		return conclave.ConfigWrap(err, "encoding scenario")
	}
	return ioutil.WriteFile(path, b.Bytes(), 0644)
}
