package lang

// Env implements a lexical environment chain.
//
// Environments form a tree: a block or call creates a child of the
// environment active when it began, and closures keep their defining
// environment alive for as long as they are reachable.
type Env struct {
	parent *Env
	values map[string]Value
}

// NewEnv creates an environment with optional parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name to value in the current frame, replacing any
// existing binding of the same name.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Lookup retrieves a binding, searching parents if necessary.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Assign updates an existing binding, searching parents if needed.
// It reports false when no frame binds name.
func (e *Env) Assign(name string, val Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return true
		}
	}
	return false
}

// Ancestor returns the environment distance hops up the chain.
// A distance computed by the resolver always lands on an existing frame;
// anything else is an internal error and panics.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance; i++ {
		if env.parent == nil {
			panic("lang: resolved distance exceeds environment depth")
		}
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame distance hops up the chain.
func (e *Env) GetAt(distance int, name string) (Value, bool) {
	val, ok := e.Ancestor(distance).values[name]
	return val, ok
}

// AssignAt writes name in the frame distance hops up the chain.
func (e *Env) AssignAt(distance int, name string, val Value) {
	e.Ancestor(distance).values[name] = val
}
