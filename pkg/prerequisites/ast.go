package prerequisites

import "fmt"

// Possession answers whether a referenced module is satisfied for the module being checked.
type Possession func(ref ModuleRef) bool

// Node is a prerequisite expression.
type Node interface {
	Eval(possessed Possession) bool
	String() string
}

type And struct {
	Left, Right Node
}

func (node And) Eval(possessed Possession) bool {
	return node.Left.Eval(possessed) && node.Right.Eval(possessed)
}

func (node And) String() string {
	return fmt.Sprintf("(%v and %v)", node.Left, node.Right)
}

type Or struct {
	Left, Right Node
}

func (node Or) Eval(possessed Possession) bool {
	return node.Left.Eval(possessed) || node.Right.Eval(possessed)
}

func (node Or) String() string {
	return fmt.Sprintf("(%v or %v)", node.Left, node.Right)
}

type Not struct {
	Operand Node
}

func (node Not) Eval(possessed Possession) bool {
	return !node.Operand.Eval(possessed)
}

func (node Not) String() string {
	return fmt.Sprintf("not %v", node.Operand)
}

// ModuleRef references a module. A co-requisite may also be taken in the same semester.
type ModuleRef struct {
	Code        string
	Corequisite bool
}

func (node ModuleRef) Eval(possessed Possession) bool {
	return possessed(node)
}

func (node ModuleRef) String() string {
	if node.Corequisite {
		return "co-requisite " + node.Code
	}
	return node.Code
}

type Literal struct {
	Value bool
}

func (node Literal) Eval(Possession) bool {
	return node.Value
}

func (node Literal) String() string {
	if node.Value {
		return "True"
	}
	return "False"
}
