package template

import "fmt"

// SourceKind identifies one of the six named data channels a template
// expression can read from.
type SourceKind int

const (
	// SourceInput is the current input data: $input
	SourceInput SourceKind = iota
	// SourceNode is the output of another node: $node('id')
	SourceNode
	// SourceSystem is engine-provided data such as the clock: $system
	SourceSystem
	// SourceExecution is per-execution metadata: $execution
	SourceExecution
	// SourceEnvironment is environment variables: $env
	SourceEnvironment
	// SourceWorkflow is workflow metadata: $workflow
	SourceWorkflow
)

// String returns the reference prefix for the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceInput:
		return "$input"
	case SourceNode:
		return "$node"
	case SourceSystem:
		return "$system"
	case SourceExecution:
		return "$execution"
	case SourceEnvironment:
		return "$env"
	case SourceWorkflow:
		return "$workflow"
	default:
		return "$unknown"
	}
}

// DataSource selects a data channel. It carries no data itself: the
// same DataSource appears in parsed ASTs and in Context lookups.
type DataSource struct {
	// Kind is the channel selector.
	Kind SourceKind

	// NodeID is set only for SourceNode.
	NodeID string
}

// InputSource selects the $input channel.
func InputSource() DataSource { return DataSource{Kind: SourceInput} }

// NodeSource selects the output of the node with the given id.
func NodeSource(id string) DataSource { return DataSource{Kind: SourceNode, NodeID: id} }

// SystemSource selects the $system channel.
func SystemSource() DataSource { return DataSource{Kind: SourceSystem} }

// ExecutionSource selects the $execution channel.
func ExecutionSource() DataSource { return DataSource{Kind: SourceExecution} }

// EnvironmentSource selects the $env channel.
func EnvironmentSource() DataSource { return DataSource{Kind: SourceEnvironment} }

// WorkflowSource selects the $workflow channel.
func WorkflowSource() DataSource { return DataSource{Kind: SourceWorkflow} }

// Ref returns the full reference form, including the node id for node
// sources: "$node('fetch')".
func (s DataSource) Ref() string {
	if s.Kind == SourceNode {
		return fmt.Sprintf("$node('%s')", s.NodeID)
	}
	return s.Kind.String()
}
