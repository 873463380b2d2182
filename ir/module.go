package ir

// Module is a decoded module with every function body folded into a tree.
// It is not modified after Build returns.
type Module struct {
	Functions []*Function
	Globals   []*Global
	Memory    Memory
	// Start names the start function, empty when there is none.
	Start    string
	Warnings []Warning
}

// Function is a function of the module index space. Imported functions have
// a nil Body.
type Function struct {
	Name      string
	Signature Signature
	// Vars are the declared locals following the parameters.
	Vars    []Type
	Body    Expression
	Index   uint32
	Exports []string

	// Module and Base are the import names of an imported function.
	Module string
	Base   string
}

// Imported reports whether f has no body.
func (f *Function) Imported() bool {
	return f.Body == nil
}

// NumParams returns the number of parameters.
func (f *Function) NumParams() int {
	return len(f.Signature.Params)
}

// NumLocals returns the number of parameters plus declared locals.
func (f *Function) NumLocals() int {
	return len(f.Signature.Params) + len(f.Vars)
}

// LocalType returns the type of local i. Parameters come first.
func (f *Function) LocalType(i uint32) (Type, bool) {
	n := uint32(len(f.Signature.Params))
	if i < n {
		return f.Signature.Params[i], true
	}
	if int(i-n) < len(f.Vars) {
		return f.Vars[i-n], true
	}
	return TypeNone, false
}

// Signature is a function type with a single result.
type Signature struct {
	Params []Type
	Result Type
}

// Global is a module global. Init is a Const for literal initialisers and
// another node otherwise. Imported globals have a nil Init.
type Global struct {
	Name    string
	Type    Type
	Init    Expression
	Mutable bool
	Module  string
	Base    string
}

// Memory is the page limits of memory 0.
type Memory struct {
	Initial uint64
	Max     uint64
	Exists  bool
}

// Warning records a construct Build could not model.
type Warning struct {
	Function string
	Message  string
}

func (w Warning) String() string {
	if w.Function == "" {
		return w.Message
	}
	return w.Function + ": " + w.Message
}

// Function returns the function named name.
func (m *Module) Function(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
