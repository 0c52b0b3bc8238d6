package mython

import (
	"fmt"
	"strconv"
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders a value for debugging and for the print forms that need
// no dispatch. Instances that define __str__ are rendered through
// Execution.PrintValue instead.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "None"
	case KindBool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case KindNumber:
		return strconv.Itoa(v.data.(int))
	case KindString:
		return v.data.(string)
	case KindClass:
		return "Class " + v.data.(*Class).Name()
	case KindInstance:
		inst := v.data.(*Instance)
		return fmt.Sprintf("<%s object at %p>", inst.class.Name(), inst)
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// Truthy reports whether a value is considered true in conditions.
// Classes and instances are always falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.data.(int) != 0
	case KindString:
		return v.data.(string) != ""
	default:
		return false
	}
}

// Equal compares two values structurally for scalars and by identity for
// classes and instances. It never dispatches __eq__; script-level equality
// lives in the Equal comparator.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.data.(int) == other.data.(int)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindClass:
		return v.data.(*Class) == other.data.(*Class)
	case KindInstance:
		return v.data.(*Instance) == other.data.(*Instance)
	default:
		return false
	}
}
