package rules

import (
	"strings"
	"testing"

	parsec "github.com/prataprc/goparsec"
)

func TestParsing_One(t *testing.T) {
	rs, err := Parse("lockdown: audit -> lockdown")
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rs))
	}
	want := Rule{From: "lockdown", Action: "audit", To: "lockdown"}
	if rs[0] != want {
		t.Fatalf("wrong rule %+v", rs[0])
	}
}

func TestParsing_Many(t *testing.T) {
	rs, err := Parse("low: read -> low, write -> medium, audit -> low")
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rs))
	}
	if rs[1] != (Rule{From: "low", Action: "write", To: "medium"}) {
		t.Fatalf("wrong rule %+v", rs[1])
	}
	if rs[2] != (Rule{From: "low", Action: "audit", To: "low"}) {
		t.Fatalf("wrong rule %+v", rs[2])
	}
}

func TestParsing_NoSpace(t *testing.T) {
	rs, err := Parse("low:read->low,write->medium")
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs))
	}
	if rs[0] != (Rule{From: "low", Action: "read", To: "low"}) {
		t.Fatalf("wrong rule %+v", rs[0])
	}
}

func TestParsing_LeftSpace(t *testing.T) {
	if _, err := Parse("  normal: escalate -> elevated"); err != nil {
		t.Fatal(err)
	}
}

func TestParsing_RightSpace(t *testing.T) {
	if _, err := Parse("normal: escalate -> elevated  "); err != nil {
		t.Fatal(err)
	}
}

func TestParsing_MissingColon(t *testing.T) {
	_, err := Parse("low read -> low")
	if err == nil {
		t.Fatal("expect an error")
	}
}

func TestParsing_MissingClause(t *testing.T) {
	_, err := Parse("low:")
	if err == nil {
		t.Fatal("expect an error")
	}
}

func TestParsing_TrailingGarbage(t *testing.T) {
	_, err := Parse("low: read -> low extra")
	if err == nil {
		t.Fatal("expect an error")
	}
	if !strings.Contains(err.Error(), scannerNotEmpty) {
		t.Fatalf("wrong error message, got %v", err.Error())
	}
}

func TestParsing_TrailingComma(t *testing.T) {
	_, err := Parse("low: read -> low,")
	if err == nil {
		t.Fatal("expect an error")
	}
}

func TestParsing_Empty(t *testing.T) {
	_, err := Parse("")
	if err == nil {
		t.Fatal("empty line should fail")
	}
}

func TestParsing_Scanner(t *testing.T) {
	Y := InitParser()
	v, s := Y(parsec.NewScanner([]byte("high: delete -> high")))
	rs, ok := v.([]Rule)
	if !ok || len(rs) != 1 {
		t.Fatalf("mismatch value %v", v)
	}
	if !s.Endof() {
		t.Fatal("scanner did not end")
	}
}

func TestParseAll(t *testing.T) {
	rs, err := ParseAll([]string{
		"low: read -> low, write -> medium",
		"medium: write -> high",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rs))
	}
	if rs[2] != (Rule{From: "medium", Action: "write", To: "high"}) {
		t.Fatalf("wrong rule %+v", rs[2])
	}
}

func TestParseAll_Error(t *testing.T) {
	_, err := ParseAll([]string{
		"low: read -> low",
		"medium; write -> high",
	})
	if err == nil {
		t.Fatal("expect an error")
	}
}
