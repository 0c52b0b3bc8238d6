package mython

import (
	"errors"
	"io"
)

// Statement is one evaluable node of the syntax tree. Execute produces
// the node's value and its side effects against the given scope.
type Statement interface {
	Execute(closure *Env, exec *Execution) (Value, error)
}

// Constant wraps a literal value.
type Constant struct {
	Value Value
}

func (s *Constant) Execute(closure *Env, exec *Execution) (Value, error) {
	return s.Value, nil
}

// Assignment binds the value of RHS to a name in the current scope.
type Assignment struct {
	Name string
	RHS  Statement
}

func (s *Assignment) Execute(closure *Env, exec *Execution) (Value, error) {
	val, err := s.RHS.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	closure.Define(s.Name, val)
	return val, nil
}

// VariableValue reads a name, or a dotted chain of names where every
// intermediate link must be an instance whose field scope is descended
// into.
type VariableValue struct {
	DottedIDs []string
}

func (s *VariableValue) Execute(closure *Env, exec *Execution) (Value, error) {
	scope := closure
	for i, id := range s.DottedIDs {
		val, ok := scope.Get(id)
		if !ok {
			return NewNone(), newRuntimeError("Unknown variable %s", id)
		}
		if i == len(s.DottedIDs)-1 {
			return val, nil
		}
		inst := val.Instance()
		if inst == nil {
			return NewNone(), newRuntimeError("%s is not a class instance", id)
		}
		scope = inst.Fields()
	}
	return NewNone(), newRuntimeError("Unknown variable")
}

// Print evaluates its arguments and writes them to the context output,
// space separated, followed by a newline.
type Print struct {
	Args []Statement
}

func (s *Print) Execute(closure *Env, exec *Execution) (Value, error) {
	out := exec.Output()
	for i, arg := range s.Args {
		val, err := arg.Execute(closure, exec)
		if err != nil {
			return NewNone(), err
		}
		if i > 0 {
			if _, err := io.WriteString(out, " "); err != nil {
				return NewNone(), err
			}
		}
		if err := exec.PrintValue(out, val); err != nil {
			return NewNone(), err
		}
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return NewNone(), err
	}
	return NewNone(), nil
}

// MethodCall evaluates the receiver and dispatches a method on it. A
// receiver that is not an instance, or a missing method, silently yields
// None.
type MethodCall struct {
	Object Statement
	Method string
	Args   []Statement
}

func (s *MethodCall) Execute(closure *Env, exec *Execution) (Value, error) {
	obj, err := s.Object.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	inst := obj.Instance()
	if inst == nil || !inst.HasMethod(s.Method, len(s.Args)) {
		return NewNone(), nil
	}
	args, err := executeArgs(s.Args, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	return inst.Call(s.Method, args, exec)
}

// Stringify evaluates its argument and wraps its print form in a string
// value.
type Stringify struct {
	Arg Statement
}

func (s *Stringify) Execute(closure *Env, exec *Execution) (Value, error) {
	val, err := s.Arg.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	return exec.Stringify(val)
}

// NewInstance constructs a fresh instance of a class and runs __init__
// when one with matching arity exists.
type NewInstance struct {
	Class *Class
	Args  []Statement
}

func (s *NewInstance) Execute(closure *Env, exec *Execution) (Value, error) {
	inst := NewInstanceOf(s.Class)
	if inst.HasMethod(initMethod, len(s.Args)) {
		args, err := executeArgs(s.Args, closure, exec)
		if err != nil {
			return NewNone(), err
		}
		if _, err := inst.Call(initMethod, args, exec); err != nil {
			return NewNone(), err
		}
	}
	return NewInstanceValue(inst), nil
}

// Compound evaluates its children in order and yields None.
type Compound struct {
	Stmts []Statement
}

func (s *Compound) Execute(closure *Env, exec *Execution) (Value, error) {
	for _, stmt := range s.Stmts {
		if err := exec.step(); err != nil {
			return NewNone(), err
		}
		if _, err := stmt.Execute(closure, exec); err != nil {
			return NewNone(), err
		}
	}
	return NewNone(), nil
}

// MethodBody is the boundary that catches a return signal and converts
// it into the method's result. A body that completes normally yields
// None.
type MethodBody struct {
	Body Statement
}

func (s *MethodBody) Execute(closure *Env, exec *Execution) (Value, error) {
	if _, err := s.Body.Execute(closure, exec); err != nil {
		var sig *returnSignal
		if errors.As(err, &sig) {
			return sig.value, nil
		}
		return NewNone(), err
	}
	return NewNone(), nil
}

// Return evaluates its argument and raises a return signal carrying the
// result.
type Return struct {
	Arg Statement
}

func (s *Return) Execute(closure *Env, exec *Execution) (Value, error) {
	val, err := s.Arg.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	return NewNone(), &returnSignal{value: val}
}

// ClassDefinition binds a class under its name in the current scope.
type ClassDefinition struct {
	Cls Value
}

func (s *ClassDefinition) Execute(closure *Env, exec *Execution) (Value, error) {
	closure.Define(s.Cls.Class().Name(), s.Cls)
	return s.Cls, nil
}

// FieldAssignment assigns into the field scope of an instance.
type FieldAssignment struct {
	Object    VariableValue
	FieldName string
	RHS       Statement
}

func (s *FieldAssignment) Execute(closure *Env, exec *Execution) (Value, error) {
	obj, err := s.Object.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	inst := obj.Instance()
	if inst == nil {
		return NewNone(), newRuntimeError("Cannot assign field %s: not a class instance", s.FieldName)
	}
	val, err := s.RHS.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	inst.Fields().Define(s.FieldName, val)
	return val, nil
}

// IfElse evaluates the condition's truthiness and runs the selected
// branch.
type IfElse struct {
	Condition Statement
	IfBody    Statement
	ElseBody  Statement
}

func (s *IfElse) Execute(closure *Env, exec *Execution) (Value, error) {
	cond, err := s.Condition.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if cond.Truthy() {
		return s.IfBody.Execute(closure, exec)
	}
	if s.ElseBody != nil {
		return s.ElseBody.Execute(closure, exec)
	}
	return NewNone(), nil
}

// Or evaluates both sides eagerly and combines their truthiness. Both
// operands must be non-None.
type Or struct {
	Lhs, Rhs Statement
}

func (s *Or) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if lhs.IsNone() || rhs.IsNone() {
		return NewNone(), newRuntimeError("'Or' is not implemented for these operands")
	}
	return NewBool(lhs.Truthy() || rhs.Truthy()), nil
}

// And evaluates both sides eagerly and combines their truthiness. Both
// operands must be non-None.
type And struct {
	Lhs, Rhs Statement
}

func (s *And) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if lhs.IsNone() || rhs.IsNone() {
		return NewNone(), newRuntimeError("'And' is not implemented for these operands")
	}
	return NewBool(lhs.Truthy() && rhs.Truthy()), nil
}

// Not negates the truthiness of its non-None argument.
type Not struct {
	Arg Statement
}

func (s *Not) Execute(closure *Env, exec *Execution) (Value, error) {
	val, err := s.Arg.Execute(closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if val.IsNone() {
		return NewNone(), newRuntimeError("'Not' is not implemented for this argument")
	}
	return NewBool(!val.Truthy()), nil
}

// Comparison applies a comparator to both operands and wraps the result
// as a boolean.
type Comparison struct {
	Cmp      Comparator
	Lhs, Rhs Statement
}

func (s *Comparison) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	res, err := s.Cmp(lhs, rhs, exec)
	if err != nil {
		return NewNone(), err
	}
	return NewBool(res), nil
}

// Add concatenates strings, adds numbers, or dispatches __add__ on an
// instance left-hand side.
type Add struct {
	Lhs, Rhs Statement
}

func (s *Add) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if lhs.Kind() == KindString && rhs.Kind() == KindString {
		return NewString(lhs.Str() + rhs.Str()), nil
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return NewNumber(lhs.Number() + rhs.Number()), nil
	}
	if inst := lhs.Instance(); inst != nil && inst.HasMethod(addMethod, 1) {
		return inst.Call(addMethod, []Value{rhs}, exec)
	}
	return NewNone(), newRuntimeError("Addition is not implemented for these operands")
}

type Sub struct {
	Lhs, Rhs Statement
}

func (s *Sub) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return NewNumber(lhs.Number() - rhs.Number()), nil
	}
	return NewNone(), newRuntimeError("Subtraction is not implemented for these operands")
}

type Mult struct {
	Lhs, Rhs Statement
}

func (s *Mult) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return NewNumber(lhs.Number() * rhs.Number()), nil
	}
	return NewNone(), newRuntimeError("Multiplication is not implemented for these operands")
}

// Div performs integer division; a zero divisor is rejected.
type Div struct {
	Lhs, Rhs Statement
}

func (s *Div) Execute(closure *Env, exec *Execution) (Value, error) {
	lhs, rhs, err := executePair(s.Lhs, s.Rhs, closure, exec)
	if err != nil {
		return NewNone(), err
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber && rhs.Number() != 0 {
		return NewNumber(lhs.Number() / rhs.Number()), nil
	}
	return NewNone(), newRuntimeError("Division is not implemented for these operands")
}

func executeArgs(args []Statement, closure *Env, exec *Execution) ([]Value, error) {
	out := make([]Value, len(args))
	for i, arg := range args {
		val, err := arg.Execute(closure, exec)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func executePair(lhs, rhs Statement, closure *Env, exec *Execution) (Value, Value, error) {
	lv, err := lhs.Execute(closure, exec)
	if err != nil {
		return NewNone(), NewNone(), err
	}
	rv, err := rhs.Execute(closure, exec)
	if err != nil {
		return NewNone(), NewNone(), err
	}
	return lv, rv, nil
}
