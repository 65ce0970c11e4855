package template

import (
	"fmt"
	"sort"
	"time"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

// SystemData is the engine-provided data block under $system. It is
// seeded with a datetime sub-object at construction time and read-only
// during evaluation.
type SystemData struct {
	data map[string]value.Value
}

// newSystemData builds the system block for the given instant.
func newSystemData(now time.Time) *SystemData {
	datetime := map[string]value.Value{
		"now":       value.String(now.Format(time.RFC3339)),
		"timestamp": value.Integer(now.Unix()),
		"iso":       value.String(now.UTC().Format("2006-01-02T15:04:05Z")),
		"date":      value.String(now.Format("2006-01-02")),
		"time":      value.String(now.Format("15:04:05")),
	}
	return &SystemData{
		data: map[string]value.Value{
			"datetime": value.Object(datetime),
		},
	}
}

// Get navigates a dotted path through the system block. The empty path
// returns the whole block.
func (s *SystemData) Get(path string) (value.Value, bool) {
	return value.Object(s.data).Navigate(path)
}

// Set adds or replaces a top-level system entry.
func (s *SystemData) Set(key string, v value.Value) {
	s.data[key] = v
}

// Context aggregates the named data sources for one render. It is
// populated through the setters, then only read during evaluation; a
// Context must not be shared between renders while still being mutated.
type Context struct {
	input       *value.Value
	nodeOutputs map[string]value.Value
	system      *SystemData
	execution   map[string]value.Value
	workflow    map[string]value.Value
	env         map[string]string
}

// NewContext creates an empty context whose system clock is captured
// from the current wall-clock time.
func NewContext() *Context {
	return NewContextAt(time.Now().UTC())
}

// NewContextAt creates an empty context with the system datetime block
// seeded from the given instant. Passing the instant explicitly keeps
// rendering deterministic and testable.
func NewContextAt(now time.Time) *Context {
	return &Context{
		nodeOutputs: make(map[string]value.Value),
		system:      newSystemData(now),
		execution:   make(map[string]value.Value),
		workflow:    make(map[string]value.Value),
		env:         make(map[string]string),
	}
}

// SetInput sets the current input data.
func (c *Context) SetInput(v value.Value) {
	c.input = &v
}

// Input returns the input data, if set.
func (c *Context) Input() (value.Value, bool) {
	if c.input == nil {
		return value.Value{}, false
	}
	return *c.input, true
}

// AddNodeOutput registers the output of a node under its id.
func (c *Context) AddNodeOutput(id string, v value.Value) {
	c.nodeOutputs[id] = v
}

// NodeOutput returns the registered output for a node id.
func (c *Context) NodeOutput(id string) (value.Value, bool) {
	v, ok := c.nodeOutputs[id]
	return v, ok
}

// SetEnv sets an environment variable visible as $env.key.
func (c *Context) SetEnv(key, val string) {
	c.env[key] = val
}

// Env returns an environment variable, if set.
func (c *Context) Env(key string) (string, bool) {
	v, ok := c.env[key]
	return v, ok
}

// SetExecutionData sets a piece of execution metadata.
func (c *Context) SetExecutionData(key string, v value.Value) {
	c.execution[key] = v
}

// ExecutionData returns a piece of execution metadata, if set.
func (c *Context) ExecutionData(key string) (value.Value, bool) {
	v, ok := c.execution[key]
	return v, ok
}

// SetWorkflowData sets a piece of workflow metadata.
func (c *Context) SetWorkflowData(key string, v value.Value) {
	c.workflow[key] = v
}

// WorkflowData returns a piece of workflow metadata, if set.
func (c *Context) WorkflowData(key string) (value.Value, bool) {
	v, ok := c.workflow[key]
	return v, ok
}

// SystemData returns the read-only system block.
func (c *Context) SystemData() *SystemData {
	return c.system
}

// ResolveDataSource resolves a data source and dotted path to a value.
// Failures are DataNotFoundError values carrying the reference that
// missed and the currently resolvable alternatives.
func (c *Context) ResolveDataSource(source DataSource, path string) (value.Value, error) {
	switch source.Kind {
	case SourceInput:
		if c.input == nil {
			return value.Value{}, &errors.DataNotFoundError{
				Path:      "$input",
				Available: []string{"No input data available"},
			}
		}
		if path == "" {
			return c.input.Clone(), nil
		}
		if v, ok := c.input.Navigate(path); ok {
			return v, nil
		}
		return value.Value{}, &errors.DataNotFoundError{
			Path:      "$input." + path,
			Available: []string{"$input"},
		}

	case SourceNode:
		output, ok := c.nodeOutputs[source.NodeID]
		if !ok {
			available := make([]string, 0, len(c.nodeOutputs))
			for id := range c.nodeOutputs {
				available = append(available, fmt.Sprintf("$node('%s')", id))
			}
			sort.Strings(available)
			return value.Value{}, &errors.DataNotFoundError{
				Path:      source.Ref(),
				Available: available,
			}
		}
		if path == "" {
			return output.Clone(), nil
		}
		if v, ok := output.Navigate(path); ok {
			return v, nil
		}
		return value.Value{}, &errors.DataNotFoundError{
			Path:      source.Ref() + "." + path,
			Available: []string{source.Ref()},
		}

	case SourceSystem:
		if v, ok := c.system.Get(path); ok {
			return v, nil
		}
		return value.Value{}, &errors.DataNotFoundError{
			Path:      "$system." + path,
			Available: []string{"$system.datetime"},
		}

	case SourceExecution:
		return resolveMetadata("$execution", c.execution, path)

	case SourceWorkflow:
		return resolveMetadata("$workflow", c.workflow, path)

	case SourceEnvironment:
		if v, ok := c.env[path]; ok {
			return value.String(v), nil
		}
		available := make([]string, 0, len(c.env))
		for key := range c.env {
			available = append(available, "$env."+key)
		}
		sort.Strings(available)
		return value.Value{}, &errors.DataNotFoundError{
			Path:      "$env." + path,
			Available: available,
		}

	default:
		return value.Value{}, &errors.EvaluationError{
			Message: fmt.Sprintf("unknown data source kind %d", source.Kind),
		}
	}
}

// resolveMetadata implements the shared $execution/$workflow lookup:
// the empty path returns the whole mapping, a non-empty path is an
// exact key lookup, not a nested navigation.
func resolveMetadata(prefix string, data map[string]value.Value, path string) (value.Value, error) {
	if path == "" {
		return value.Object(data), nil
	}
	if v, ok := data[path]; ok {
		return v, nil
	}
	available := make([]string, 0, len(data))
	for key := range data {
		available = append(available, prefix+"."+key)
	}
	sort.Strings(available)
	return value.Value{}, &errors.DataNotFoundError{
		Path:      prefix + "." + path,
		Available: available,
	}
}

// AvailableDataSources enumerates every currently resolvable source
// reference, for diagnostics and UI suggestions.
func (c *Context) AvailableDataSources() []string {
	var sources []string
	if c.input != nil {
		sources = append(sources, "$input")
	}
	nodes := make([]string, 0, len(c.nodeOutputs))
	for id := range c.nodeOutputs {
		nodes = append(nodes, fmt.Sprintf("$node('%s')", id))
	}
	sort.Strings(nodes)
	sources = append(sources, nodes...)
	sources = append(sources, "$system", "$execution", "$workflow")
	envs := make([]string, 0, len(c.env))
	for key := range c.env {
		envs = append(envs, "$env."+key)
	}
	sort.Strings(envs)
	return append(sources, envs...)
}

// HasDataSource reports whether a source is available. System,
// execution, environment, and workflow channels always are, even when
// empty; input and node channels depend on data having been set.
func (c *Context) HasDataSource(source DataSource) bool {
	switch source.Kind {
	case SourceInput:
		return c.input != nil
	case SourceNode:
		_, ok := c.nodeOutputs[source.NodeID]
		return ok
	default:
		return true
	}
}
