/*
Package rules contains the definition and implementation of a small language
for writing protocol transition tables in scenario files. We define the
language in extended-BNF notation, the syntax we use is from:
https://en.wikipedia.org/wiki/Extended_Backus%E2%80%93Naur_form

	line   = state, ':', clause, [ ',', clause ]*
	clause = action, '->', state
	state  = ident
	action = ident
	ident  = [0-9A-Za-z_]+

Examples:

	low: read -> low, write -> medium
	lockdown: audit -> lockdown

One line describes the transitions leaving one state. An action that appears
in no line of a protocol is denied in every state the protocol can be in, so
the language has no syntax for denials - absence is denial.
*/
package rules

import (
	parsec "github.com/prataprc/goparsec"

	"github.com/muveraai/conclave"
)

const scannerNotEmpty = "parsing failed - scanner is not empty"

// Rule is one parsed transition clause: taking Action in state From moves
// the protocol to state To.
type Rule struct {
	From   string
	Action string
	To     string
}

// InitParser creates the root parser for one rule line.
func InitParser() parsec.Parser {
	// Terminal rats
	var ident = parsec.Token(`[0-9A-Za-z_]+`, "IDENT")
	var colon = parsec.Token(`:`, "COLON")
	var arrow = parsec.Token(`->`, "ARROW")
	var comma = parsec.Token(`,`, "COMMA")

	// clause -> action "->" state
	var clause = parsec.And(clauseNode, ident, arrow, ident)

	// ("," clause)*
	var clauseK = parsec.Kleene(nil, parsec.And(many2many, comma, clause), nil)

	// line -> state ":" clause ("," clause)*
	return parsec.And(lineNode, ident, colon, clause, clauseK)
}

// Parse interprets one rule line and returns the transitions it describes,
// in writing order. A malformed line yields a configuration error.
func Parse(line string) ([]Rule, error) {
	v, s := InitParser()(parsec.NewScanner([]byte(line)))
	_, s = s.SkipWS()
	if !s.Endof() {
		return nil, conclave.Configf("rule %q: %s", line, scannerNotEmpty)
	}
	rs, ok := v.([]Rule)
	if !ok {
		return nil, conclave.Configf("rule %q: expected 'state: action -> state, ...'", line)
	}
	return rs, nil
}

// ParseAll concatenates the transitions of several rule lines.
func ParseAll(lines []string) ([]Rule, error) {
	var all []Rule
	for _, line := range lines {
		rs, err := Parse(line)
		if err != nil {
			return nil, err
		}
		all = append(all, rs...)
	}
	return all, nil
}

func clauseNode(ns []parsec.ParsecNode) parsec.ParsecNode {
	if len(ns) == 0 {
		return nil
	}
	return Rule{
		Action: ns[0].(*parsec.Terminal).Value,
		To:     ns[2].(*parsec.Terminal).Value,
	}
}

func lineNode(ns []parsec.ParsecNode) parsec.ParsecNode {
	if len(ns) == 0 {
		return nil
	}
	first, ok := ns[2].(Rule)
	if !ok {
		return nil
	}
	rs := []Rule{first}
	for _, x := range ns[3].([]parsec.ParsecNode) {
		y := x.([]parsec.ParsecNode)
		next, ok := y[1].(Rule)
		if !ok {
			return nil
		}
		rs = append(rs, next)
	}
	from := ns[0].(*parsec.Terminal).Value
	for i := range rs {
		rs[i].From = from
	}
	return rs
}

func many2many(ns []parsec.ParsecNode) parsec.ParsecNode {
	if ns == nil || len(ns) == 0 {
		return nil
	}
	return ns
}
