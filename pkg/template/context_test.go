package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

func TestResolveInput(t *testing.T) {
	ctx := NewContext()
	ctx.SetInput(value.Object(map[string]value.Value{
		"name": value.String("Alice"),
	}))

	v, err := ctx.ResolveDataSource(InputSource(), "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v.String())

	whole, err := ctx.ResolveDataSource(InputSource(), "")
	require.NoError(t, err)
	assert.True(t, whole.IsObject())

	_, err = ctx.ResolveDataSource(InputSource(), "missing")
	var nf *errors.DataNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "$input.missing", nf.Path)
	assert.Equal(t, []string{"$input"}, nf.Available)
}

func TestResolveInputAbsent(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.ResolveDataSource(InputSource(), "name")
	var nf *errors.DataNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "$input", nf.Path)
	assert.Equal(t, []string{"No input data available"}, nf.Available)
}

func TestResolveNode(t *testing.T) {
	ctx := NewContext()
	ctx.AddNodeOutput("fetch", value.Object(map[string]value.Value{
		"status": value.Integer(200),
	}))
	ctx.AddNodeOutput("parse", value.Null())

	v, err := ctx.ResolveDataSource(NodeSource("fetch"), "status")
	require.NoError(t, err)
	assert.True(t, v.Equal(value.Integer(200)))

	_, err = ctx.ResolveDataSource(NodeSource("unknown"), "")
	var nf *errors.DataNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "$node('unknown')", nf.Path)
	assert.Equal(t, []string{"$node('fetch')", "$node('parse')"}, nf.Available)
}

func TestResolveSystemDatetime(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	ctx := NewContextAt(now)

	v, err := ctx.ResolveDataSource(SystemSource(), "datetime.date")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", v.String())

	v, err = ctx.ResolveDataSource(SystemSource(), "datetime.iso")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T10:30:00Z", v.String())

	v, err = ctx.ResolveDataSource(SystemSource(), "datetime.timestamp")
	require.NoError(t, err)
	assert.True(t, v.Equal(value.Integer(now.Unix())))

	_, err = ctx.ResolveDataSource(SystemSource(), "nope")
	var nf *errors.DataNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"$system.datetime"}, nf.Available)
}

func TestResolveMetadataIsExactKeyLookup(t *testing.T) {
	ctx := NewContext()
	ctx.SetExecutionData("run.id", value.String("abc"))

	// keys with dots are exact keys, not paths
	v, err := ctx.ResolveDataSource(ExecutionSource(), "run.id")
	require.NoError(t, err)
	assert.Equal(t, "abc", v.String())

	whole, err := ctx.ResolveDataSource(ExecutionSource(), "")
	require.NoError(t, err)
	assert.True(t, whole.IsObject())

	_, err = ctx.ResolveDataSource(WorkflowSource(), "missing")
	var nf *errors.DataNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "$workflow.missing", nf.Path)
	assert.Empty(t, nf.Available)
}

func TestResolveEnv(t *testing.T) {
	ctx := NewContext()
	ctx.SetEnv("HOME", "/home/alice")
	ctx.SetEnv("API_KEY", "secret")

	v, err := ctx.ResolveDataSource(EnvironmentSource(), "HOME")
	require.NoError(t, err)
	assert.True(t, v.Equal(value.String("/home/alice")))

	_, err = ctx.ResolveDataSource(EnvironmentSource(), "MISSING")
	var nf *errors.DataNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "$env.MISSING", nf.Path)
	assert.Equal(t, []string{"$env.API_KEY", "$env.HOME"}, nf.Available)
}

func TestAvailableDataSources(t *testing.T) {
	ctx := NewContext()
	ctx.SetInput(value.String("x"))
	ctx.AddNodeOutput("b", value.Null())
	ctx.AddNodeOutput("a", value.Null())
	ctx.SetEnv("KEY", "v")

	got := ctx.AvailableDataSources()
	assert.Contains(t, got, "$input")
	assert.Contains(t, got, "$node('a')")
	assert.Contains(t, got, "$node('b')")
	assert.Contains(t, got, "$system")
	assert.Contains(t, got, "$execution")
	assert.Contains(t, got, "$workflow")
	assert.Contains(t, got, "$env.KEY")
}
