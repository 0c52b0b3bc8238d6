package mython

// Comparator is the comparison function applied by a Comparison node.
type Comparator func(lhs, rhs Value, exec *Execution) (bool, error)

// Equal compares two values for script-level equality: matching scalar
// kinds compare directly, an instance on the left may define __eq__, and
// two None values are equal.
func Equal(lhs, rhs Value, exec *Execution) (bool, error) {
	if lhs.Kind() == KindBool && rhs.Kind() == KindBool {
		return lhs.Bool() == rhs.Bool(), nil
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return lhs.Number() == rhs.Number(), nil
	}
	if lhs.Kind() == KindString && rhs.Kind() == KindString {
		return lhs.Str() == rhs.Str(), nil
	}
	if inst := lhs.Instance(); inst != nil && inst.HasMethod(eqMethod, 1) {
		res, err := inst.Call(eqMethod, []Value{rhs}, exec)
		if err != nil {
			return false, err
		}
		if res.Kind() != KindBool {
			return false, newRuntimeError("Cannot compare objects for equality")
		}
		return res.Bool(), nil
	}
	if lhs.IsNone() && rhs.IsNone() {
		return true, nil
	}
	return false, newRuntimeError("Cannot compare objects for equality")
}

// Less orders two values: False < True for booleans, integer order for
// numbers, lexicographic order for strings, and __lt__ for instances.
func Less(lhs, rhs Value, exec *Execution) (bool, error) {
	if lhs.Kind() == KindBool && rhs.Kind() == KindBool {
		return !lhs.Bool() && rhs.Bool(), nil
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return lhs.Number() < rhs.Number(), nil
	}
	if lhs.Kind() == KindString && rhs.Kind() == KindString {
		return lhs.Str() < rhs.Str(), nil
	}
	if inst := lhs.Instance(); inst != nil && inst.HasMethod(ltMethod, 1) {
		res, err := inst.Call(ltMethod, []Value{rhs}, exec)
		if err != nil {
			return false, err
		}
		if res.Kind() != KindBool {
			return false, newRuntimeError("Cannot compare objects for less")
		}
		return res.Bool(), nil
	}
	return false, newRuntimeError("Cannot compare objects for less")
}

func NotEqual(lhs, rhs Value, exec *Execution) (bool, error) {
	eq, err := Equal(lhs, rhs, exec)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func Greater(lhs, rhs Value, exec *Execution) (bool, error) {
	less, err := Less(lhs, rhs, exec)
	if err != nil || less {
		return false, err
	}
	neq, err := NotEqual(lhs, rhs, exec)
	if err != nil {
		return false, err
	}
	return neq, nil
}

func LessOrEqual(lhs, rhs Value, exec *Execution) (bool, error) {
	greater, err := Greater(lhs, rhs, exec)
	if err != nil {
		return false, err
	}
	return !greater, nil
}

func GreaterOrEqual(lhs, rhs Value, exec *Execution) (bool, error) {
	less, err := Less(lhs, rhs, exec)
	if err != nil {
		return false, err
	}
	return !less, nil
}
