package mython

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValueTruthiness(t *testing.T) {
	cls := NewClassDef("Empty", []Method{{Name: "noop", Body: &MethodBody{Body: &Compound{}}}}, nil)
	cases := []struct {
		name string
		val  Value
		want bool
	}{
		{"none", NewNone(), false},
		{"zero", NewNumber(0), false},
		{"nonzero", NewNumber(7), true},
		{"negative", NewNumber(-1), true},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"empty string", NewString(""), false},
		{"string", NewString("x"), true},
		{"class", NewClass(cls), false},
		{"instance", NewInstanceValue(NewInstanceOf(cls)), false},
	}
	for _, tc := range cases {
		if got := tc.val.Truthy(); got != tc.want {
			t.Fatalf("%s: Truthy() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValueString(t *testing.T) {
	cls := NewClassDef("Point", []Method{{Name: "noop", Body: &MethodBody{Body: &Compound{}}}}, nil)
	cases := []struct {
		val  Value
		want string
	}{
		{NewNone(), "None"},
		{NewBool(true), "True"},
		{NewBool(false), "False"},
		{NewNumber(42), "42"},
		{NewNumber(-3), "-3"},
		{NewString("hi"), "hi"},
		{NewClass(cls), "Class Point"},
	}
	for _, tc := range cases {
		if got := tc.val.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMethodLookupWalksParentChain(t *testing.T) {
	base := NewClassDef("Base", []Method{
		{Name: "f", Body: &MethodBody{Body: &Compound{}}},
		{Name: "g", Body: &MethodBody{Body: &Compound{}}},
	}, nil)
	child := NewClassDef("Child", []Method{
		{Name: "g", Body: &MethodBody{Body: &Compound{}}},
	}, base)

	if m := child.GetMethod("f"); m == nil || m.Name != "f" {
		t.Fatalf("f should resolve through the parent, got %v", m)
	}
	if m := child.GetMethod("g"); m == nil || m != &child.methods[0] {
		t.Fatal("g must resolve on the child before the parent")
	}
	if m := child.GetMethod("missing"); m != nil {
		t.Fatalf("missing method should not resolve, got %v", m)
	}
	if child.Parent() != base {
		t.Fatal("parent pointer lost")
	}
}

func TestInstanceCall(t *testing.T) {
	cls := NewClassDef("Box", []Method{
		{
			Name:         "value",
			FormalParams: nil,
			Body:         &MethodBody{Body: &Return{Arg: &Constant{Value: NewNumber(5)}}},
		},
		{
			Name:         "echo",
			FormalParams: []string{"v"},
			Body:         &MethodBody{Body: &Return{Arg: &VariableValue{DottedIDs: []string{"v"}}}},
		},
	}, nil)
	inst := NewInstanceOf(cls)
	exec := NewExecution(&bytes.Buffer{})

	got, err := inst.Call("value", nil, exec)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !got.Equal(NewNumber(5)) {
		t.Fatalf("unexpected result: %s", got)
	}

	got, err = inst.Call("echo", []Value{NewString("hi")}, exec)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !got.Equal(NewString("hi")) {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestInstanceCallErrors(t *testing.T) {
	cls := NewClassDef("Box", []Method{
		{Name: "f", FormalParams: []string{"a"}, Body: &MethodBody{Body: &Compound{}}},
	}, nil)
	inst := NewInstanceOf(cls)
	exec := NewExecution(&bytes.Buffer{})

	_, err := inst.Call("g", nil, exec)
	if err == nil || err.Error() != "Error call g." {
		t.Fatalf("unexpected error: %v", err)
	}
	// Arity mismatch reports the same failure.
	_, err = inst.Call("f", nil, exec)
	if err == nil || err.Error() != "Error call f." {
		t.Fatalf("unexpected error: %v", err)
	}
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("expected RuntimeError, got %T", err)
	}
}

func TestSelfBindingSharesInstance(t *testing.T) {
	// set assigns a field through self; the mutation must be visible on
	// the same instance afterwards.
	cls := NewClassDef("Counter", []Method{
		{
			Name:         "set",
			FormalParams: []string{"v"},
			Body: &MethodBody{Body: &FieldAssignment{
				Object:    VariableValue{DottedIDs: []string{"self"}},
				FieldName: "v",
				RHS:       &VariableValue{DottedIDs: []string{"v"}},
			}},
		},
	}, nil)
	inst := NewInstanceOf(cls)
	exec := NewExecution(&bytes.Buffer{})

	if _, err := inst.Call("set", []Value{NewNumber(9)}, exec); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	field, ok := inst.Fields().Get("v")
	if !ok || !field.Equal(NewNumber(9)) {
		t.Fatalf("field not set on instance: %v %v", field, ok)
	}
}

func TestRecursionLimit(t *testing.T) {
	// loop calls itself without a base case; the execution context must
	// stop it.
	methods := []Method{{
		Name: "loop",
		Body: &MethodBody{Body: &MethodCall{
			Object: &VariableValue{DottedIDs: []string{"self"}},
			Method: "loop",
		}},
	}}
	cls := NewClassDef("Spin", methods, nil)
	inst := NewInstanceOf(cls)
	exec := newExecution(nil, &bytes.Buffer{}, 32)

	_, err := inst.Call("loop", nil, exec)
	if err == nil || !strings.Contains(err.Error(), "recursion limit") {
		t.Fatalf("expected recursion limit error, got %v", err)
	}
}

func TestPrintValueDispatchesStr(t *testing.T) {
	withStr := NewClassDef("Named", []Method{
		{Name: strMethod, Body: &MethodBody{Body: &Return{Arg: &Constant{Value: NewString("hi")}}}},
	}, nil)
	exec := NewExecution(&bytes.Buffer{})

	var sb strings.Builder
	if err := exec.PrintValue(&sb, NewInstanceValue(NewInstanceOf(withStr))); err != nil {
		t.Fatalf("PrintValue failed: %v", err)
	}
	if sb.String() != "hi" {
		t.Fatalf("expected __str__ output, got %q", sb.String())
	}

	plain := NewClassDef("Plain", []Method{
		{Name: "noop", Body: &MethodBody{Body: &Compound{}}},
	}, nil)
	sb.Reset()
	if err := exec.PrintValue(&sb, NewInstanceValue(NewInstanceOf(plain))); err != nil {
		t.Fatalf("PrintValue failed: %v", err)
	}
	if !strings.Contains(sb.String(), "Plain") {
		t.Fatalf("expected an identity token mentioning the class, got %q", sb.String())
	}
}

func TestStringifyValues(t *testing.T) {
	exec := NewExecution(&bytes.Buffer{})
	cases := []struct {
		val  Value
		want string
	}{
		{NewNumber(42), "42"},
		{NewNone(), "None"},
		{NewBool(true), "True"},
		{NewString("x"), "x"},
	}
	for _, tc := range cases {
		got, err := exec.Stringify(tc.val)
		if err != nil {
			t.Fatalf("Stringify failed: %v", err)
		}
		if got.Kind() != KindString || got.Str() != tc.want {
			t.Fatalf("Stringify(%s) = %s, want String{%s}", tc.val, got, tc.want)
		}
	}
}

func eqInstance(t *testing.T, field int) Value {
	t.Helper()
	cls := NewClassDef("Eq", []Method{
		{
			Name:         eqMethod,
			FormalParams: []string{"other"},
			Body: &MethodBody{Body: &Return{Arg: &Comparison{
				Cmp: Equal,
				Lhs: &VariableValue{DottedIDs: []string{"self", "v"}},
				Rhs: &VariableValue{DottedIDs: []string{"other", "v"}},
			}}},
		},
	}, nil)
	inst := NewInstanceOf(cls)
	inst.Fields().Define("v", NewNumber(field))
	return NewInstanceValue(inst)
}

func TestEqualComparator(t *testing.T) {
	exec := NewExecution(&bytes.Buffer{})

	cases := []struct {
		name     string
		lhs, rhs Value
		want     bool
	}{
		{"numbers equal", NewNumber(3), NewNumber(3), true},
		{"numbers differ", NewNumber(3), NewNumber(4), false},
		{"bools", NewBool(true), NewBool(true), true},
		{"strings", NewString("ab"), NewString("ab"), true},
		{"both none", NewNone(), NewNone(), true},
		{"instances via __eq__", eqInstance(t, 3), eqInstance(t, 3), true},
		{"instances differ via __eq__", eqInstance(t, 3), eqInstance(t, 4), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Equal(tc.lhs, tc.rhs, exec)
			if err != nil {
				t.Fatalf("Equal failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Equal = %v, want %v", got, tc.want)
			}
		})
	}

	if _, err := Equal(NewNumber(1), NewString("1"), exec); err == nil {
		t.Fatal("mixed-kind equality must fail")
	}
	if _, err := Equal(NewNone(), NewNumber(1), exec); err == nil {
		t.Fatal("none against number must fail")
	}
}

func TestLessComparator(t *testing.T) {
	exec := NewExecution(&bytes.Buffer{})

	ltCls := NewClassDef("Lt", []Method{
		{
			Name:         ltMethod,
			FormalParams: []string{"other"},
			Body:         &MethodBody{Body: &Return{Arg: &Constant{Value: NewBool(true)}}},
		},
	}, nil)

	cases := []struct {
		name     string
		lhs, rhs Value
		want     bool
	}{
		{"numbers", NewNumber(1), NewNumber(2), true},
		{"numbers not less", NewNumber(2), NewNumber(1), false},
		{"false before true", NewBool(false), NewBool(true), true},
		{"true not before false", NewBool(true), NewBool(false), false},
		{"strings", NewString("abc"), NewString("abd"), true},
		{"instance via __lt__", NewInstanceValue(NewInstanceOf(ltCls)), NewNumber(0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Less(tc.lhs, tc.rhs, exec)
			if err != nil {
				t.Fatalf("Less failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Less = %v, want %v", got, tc.want)
			}
		})
	}

	if _, err := Less(NewNone(), NewNone(), exec); err == nil {
		t.Fatal("Less on none must fail")
	}
}

func TestDerivedComparators(t *testing.T) {
	exec := NewExecution(&bytes.Buffer{})
	pairs := []struct{ a, b Value }{
		{NewNumber(1), NewNumber(2)},
		{NewNumber(2), NewNumber(2)},
		{NewNumber(3), NewNumber(2)},
		{NewString("a"), NewString("b")},
		{NewBool(false), NewBool(true)},
	}
	for _, p := range pairs {
		eq, _ := Equal(p.a, p.b, exec)
		less, _ := Less(p.a, p.b, exec)

		neq, err := NotEqual(p.a, p.b, exec)
		if err != nil || neq != !eq {
			t.Fatalf("NotEqual(%s, %s) = %v, %v", p.a, p.b, neq, err)
		}
		greater, err := Greater(p.a, p.b, exec)
		if err != nil || greater != (!less && neq) {
			t.Fatalf("Greater(%s, %s) = %v, %v", p.a, p.b, greater, err)
		}
		loe, err := LessOrEqual(p.a, p.b, exec)
		if err != nil || loe != !greater {
			t.Fatalf("LessOrEqual(%s, %s) = %v, %v", p.a, p.b, loe, err)
		}
		goe, err := GreaterOrEqual(p.a, p.b, exec)
		if err != nil || goe != !less {
			t.Fatalf("GreaterOrEqual(%s, %s) = %v, %v", p.a, p.b, goe, err)
		}
	}
}
