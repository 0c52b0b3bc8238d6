package mython

import (
	"errors"
	"strings"
	"testing"
)

func parseSource(t *testing.T, source string) *Compound {
	t.Helper()
	lx, err := NewLexer(strings.NewReader(source))
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}
	program, err := parse(lx)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func TestParseAssignmentShapes(t *testing.T) {
	program := parseSource(t, "x = 1 + 2\n")
	if len(program.Stmts) != 1 {
		t.Fatalf("statement count %d", len(program.Stmts))
	}
	assign, ok := program.Stmts[0].(*Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", program.Stmts[0])
	}
	if assign.Name != "x" {
		t.Fatalf("target %q", assign.Name)
	}
	if _, ok := assign.RHS.(*Add); !ok {
		t.Fatalf("expected Add on the right, got %T", assign.RHS)
	}
}

func TestParseClassShape(t *testing.T) {
	source := "class A:\n" +
		"  def f(self, a, b):\n" +
		"    return a\n"
	program := parseSource(t, source)
	def, ok := program.Stmts[0].(*ClassDefinition)
	if !ok {
		t.Fatalf("expected ClassDefinition, got %T", program.Stmts[0])
	}
	cls := def.Cls.Class()
	if cls == nil || cls.Name() != "A" {
		t.Fatalf("class value: %s", def.Cls)
	}
	m := cls.GetMethod("f")
	if m == nil {
		t.Fatal("method f missing")
	}
	if len(m.FormalParams) != 2 || m.FormalParams[0] != "a" || m.FormalParams[1] != "b" {
		t.Fatalf("self must be stripped from formal params, got %v", m.FormalParams)
	}
	if _, ok := m.Body.(*MethodBody); !ok {
		t.Fatalf("method body must be wrapped, got %T", m.Body)
	}
}

func TestParseFieldAssignment(t *testing.T) {
	source := "class A:\n" +
		"  def set(self, v):\n" +
		"    self.v = v\n"
	program := parseSource(t, source)
	def := program.Stmts[0].(*ClassDefinition)
	body := def.Cls.Class().GetMethod("set").Body.(*MethodBody).Body.(*Compound)
	fa, ok := body.Stmts[0].(*FieldAssignment)
	if !ok {
		t.Fatalf("expected FieldAssignment, got %T", body.Stmts[0])
	}
	if fa.FieldName != "v" || len(fa.Object.DottedIDs) != 1 || fa.Object.DottedIDs[0] != "self" {
		t.Fatalf("field assignment shape: %+v", fa)
	}
}

func TestParseNotBindsLooserThanComparison(t *testing.T) {
	program := parseSource(t, "x = not 1 == 2\n")
	assign := program.Stmts[0].(*Assignment)
	not, ok := assign.RHS.(*Not)
	if !ok {
		t.Fatalf("expected Not at the top, got %T", assign.RHS)
	}
	if _, ok := not.Arg.(*Comparison); !ok {
		t.Fatalf("expected Comparison under Not, got %T", not.Arg)
	}
}

func TestParseChainedCalls(t *testing.T) {
	source := "class A:\n" +
		"  def self_(self):\n" +
		"    return self\n" +
		"x = A().self_().self_()\n"
	program := parseSource(t, source)
	assign := program.Stmts[1].(*Assignment)
	outer, ok := assign.RHS.(*MethodCall)
	if !ok {
		t.Fatalf("expected MethodCall, got %T", assign.RHS)
	}
	inner, ok := outer.Object.(*MethodCall)
	if !ok {
		t.Fatalf("expected nested MethodCall, got %T", outer.Object)
	}
	if _, ok := inner.Object.(*NewInstance); !ok {
		t.Fatalf("expected NewInstance at the root, got %T", inner.Object)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"statement start", "+ 1\n"},
		{"dangling assignment target", "x\n"},
		{"unknown class call", "x = Missing()\n"},
		{"class without methods", "class A:\n  x = 1\n"},
		{"else without block", "if 1:\n  print 1\nelse print 2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, err := NewLexer(strings.NewReader(tc.source))
			if err != nil {
				t.Fatalf("NewLexer failed: %v", err)
			}
			if _, err := parse(lx); err == nil {
				t.Fatal("expected a parse error")
			}
		})
	}
}

func TestParseErrorKinds(t *testing.T) {
	lx, err := NewLexer(strings.NewReader("x = Missing()\n"))
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}
	_, err = parse(lx)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}

	lx, err = NewLexer(strings.NewReader("if 1\n"))
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}
	_, err = parse(lx)
	var lexErr *LexerError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected LexerError from Expect, got %T: %v", err, err)
	}
}
