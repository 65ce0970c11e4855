package template

import "sort"

// Dependencies is the set of data sources and functions a template
// references, collected statically from its parsed expressions. Every
// reference is included regardless of which branches evaluation would
// actually take.
type Dependencies struct {
	inputPaths map[string]struct{}
	nodeIDs    map[string]struct{}
	envVars    map[string]struct{}
	functions  map[string]struct{}
	system     bool
	execution  bool
	workflow   bool
}

func newDependencies() *Dependencies {
	return &Dependencies{
		inputPaths: make(map[string]struct{}),
		nodeIDs:    make(map[string]struct{}),
		envVars:    make(map[string]struct{}),
		functions:  make(map[string]struct{}),
	}
}

// InputPaths returns the referenced input paths, sorted. A bare $input
// reference appears as the empty path.
func (d *Dependencies) InputPaths() []string { return sortedKeys(d.inputPaths) }

// NodeIDs returns the referenced node identifiers, sorted.
func (d *Dependencies) NodeIDs() []string { return sortedKeys(d.nodeIDs) }

// EnvVars returns the referenced environment variable names, sorted.
func (d *Dependencies) EnvVars() []string { return sortedKeys(d.envVars) }

// Functions returns the names of all functions and pipeline stages
// used, sorted.
func (d *Dependencies) Functions() []string { return sortedKeys(d.functions) }

// UsesSystem reports whether any expression reads $system data.
func (d *Dependencies) UsesSystem() bool { return d.system }

// UsesExecution reports whether any expression reads $execution data.
func (d *Dependencies) UsesExecution() bool { return d.execution }

// UsesWorkflow reports whether any expression reads $workflow data.
func (d *Dependencies) UsesWorkflow() bool { return d.workflow }

// IsEmpty reports whether the template references no external data or
// functions at all.
func (d *Dependencies) IsEmpty() bool {
	return len(d.inputPaths) == 0 && len(d.nodeIDs) == 0 && len(d.envVars) == 0 &&
		len(d.functions) == 0 && !d.system && !d.execution && !d.workflow
}

func (d *Dependencies) collect(expr Expr) {
	switch n := expr.(type) {
	case *Literal:

	case *DataAccess:
		switch n.Source.Kind {
		case SourceInput:
			d.inputPaths[n.Path] = struct{}{}
		case SourceNode:
			d.nodeIDs[n.Source.NodeID] = struct{}{}
		case SourceEnvironment:
			// the whole path names the variable, dots included,
			// matching how resolution keys the env map
			d.envVars[n.Path] = struct{}{}
		case SourceSystem:
			d.system = true
		case SourceExecution:
			d.execution = true
		case SourceWorkflow:
			d.workflow = true
		}

	case *FunctionCall:
		d.functions[n.Name] = struct{}{}
		for _, arg := range n.Args {
			d.collect(arg)
		}

	case *Pipeline:
		d.collect(n.Input)
		for _, stage := range n.Stages {
			d.functions[stage.Name] = struct{}{}
			for _, arg := range stage.Args {
				d.collect(arg)
			}
		}

	case *BinaryOp:
		d.collect(n.Left)
		d.collect(n.Right)

	case *UnaryOp:
		d.collect(n.Operand)

	case *Ternary:
		d.collect(n.Cond)
		d.collect(n.Then)
		d.collect(n.Else)

	case *IfFunc:
		d.collect(n.Cond)
		d.collect(n.Then)
		if n.Else != nil {
			d.collect(n.Else)
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
