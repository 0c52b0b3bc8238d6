package mython

const (
	initMethod = "__init__"
	strMethod  = "__str__"
	eqMethod   = "__eq__"
	ltMethod   = "__lt__"
	addMethod  = "__add__"
)

// Method is one entry of a class's method table. FormalParams excludes
// self, which dispatch binds implicitly.
type Method struct {
	Name         string
	FormalParams []string
	Body         Statement
}

// Class is a descriptor with a name, an immutable method table and an
// optional parent. The parent pointer is a plain back reference; classes
// are declared parents-first, so a parent always outlives its children.
type Class struct {
	name    string
	methods []Method
	index   map[string]int
	parent  *Class
}

func NewClassDef(name string, methods []Method, parent *Class) *Class {
	cls := &Class{
		name:    name,
		methods: methods,
		index:   make(map[string]int, len(methods)),
		parent:  parent,
	}
	for i := range methods {
		cls.index[methods[i].Name] = i
	}
	return cls
}

func (c *Class) Name() string { return c.name }

func (c *Class) Parent() *Class { return c.parent }

// GetMethod resolves a method by name on this class, then along the
// parent chain. First match wins.
func (c *Class) GetMethod(name string) *Method {
	if i, ok := c.index[name]; ok {
		return &c.methods[i]
	}
	if c.parent != nil {
		return c.parent.GetMethod(name)
	}
	return nil
}

// Instance is a runtime object: a reference to its class plus its own
// field scope.
type Instance struct {
	class  *Class
	fields *Env
}

func NewInstanceOf(cls *Class) *Instance {
	return &Instance{class: cls, fields: NewEnv()}
}

func (inst *Instance) Class() *Class { return inst.class }

func (inst *Instance) Fields() *Env { return inst.fields }

// HasMethod reports whether the instance's class resolves a method with
// the given name and formal-parameter count.
func (inst *Instance) HasMethod(name string, argumentCount int) bool {
	m := inst.class.GetMethod(name)
	return m != nil && len(m.FormalParams) == argumentCount
}

// Call dispatches a method on the instance. It creates a fresh local
// scope, binds self and the formal parameters, and evaluates the method
// body. The body result is what the caller sees; bodies built by the
// parser are MethodBody nodes, so a return statement surfaces here as the
// body's value.
func (inst *Instance) Call(method string, args []Value, exec *Execution) (Value, error) {
	if !inst.HasMethod(method, len(args)) {
		return NewNone(), newRuntimeError("Error call %s.", method)
	}
	if err := exec.enterCall(); err != nil {
		return NewNone(), err
	}
	defer exec.leaveCall()

	m := inst.class.GetMethod(method)
	locals := NewEnv()
	locals.Define("self", NewInstanceValue(inst))
	for i, param := range m.FormalParams {
		locals.Define(param, args[i])
	}
	return m.Body.Execute(locals, exec)
}
