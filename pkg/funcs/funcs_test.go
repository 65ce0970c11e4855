package funcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

func call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := Builtins().Lookup(name)
	require.True(t, ok, "builtin %q not registered", name)
	return fn(args)
}

func mustCall(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	v, err := call(t, name, args...)
	require.NoError(t, err)
	return v
}

func TestRegistry(t *testing.T) {
	r := New()
	_, ok := r.Lookup("nope")
	assert.False(t, ok)

	r.Register("id", func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})
	fn, ok := r.Lookup("id")
	require.True(t, ok)
	v, err := fn([]value.Value{value.Integer(7)})
	require.NoError(t, err)
	assert.True(t, v.Equal(value.Integer(7)))

	assert.Equal(t, []string{"id"}, r.Names())
}

func TestStringFuncs(t *testing.T) {
	assert.Equal(t, "HI", mustCall(t, "uppercase", value.String("hi")).String())
	assert.Equal(t, "hi", mustCall(t, "lowercase", value.String("HI")).String())
	assert.Equal(t, "Hello World", mustCall(t, "title", value.String("hello WORLD")).String())
	assert.Equal(t, "x", mustCall(t, "trim", value.String("  x  ")).String())
	assert.Equal(t, "bar", mustCall(t, "trimPrefix", value.String("foobar"), value.String("foo")).String())
	assert.Equal(t, "foo", mustCall(t, "trimSuffix", value.String("foobar"), value.String("bar")).String())
	assert.Equal(t, "a-b-c", mustCall(t, "replace", value.String("a.b.c"), value.String("."), value.String("-")).String())

	parts := mustCall(t, "split", value.String("a,b"), value.String(","))
	assert.True(t, parts.Equal(value.Array(value.String("a"), value.String("b"))))

	joined := mustCall(t, "join", value.Array(value.Integer(1), value.Integer(2)), value.String("+"))
	assert.Equal(t, "1+2", joined.String())
}

func TestLength(t *testing.T) {
	assert.True(t, mustCall(t, "length", value.String("héllo")).Equal(value.Integer(5)))
	assert.True(t, mustCall(t, "length", value.Array(value.Null())).Equal(value.Integer(1)))

	_, err := call(t, "length", value.Integer(5))
	var sigErr *errors.SignatureError
	require.ErrorAs(t, err, &sigErr)
}

func TestCollectionFuncs(t *testing.T) {
	arr := value.Array(value.Integer(1), value.Integer(2), value.Integer(3))
	assert.True(t, mustCall(t, "first", arr).Equal(value.Integer(1)))
	assert.True(t, mustCall(t, "last", arr).Equal(value.Integer(3)))

	_, err := call(t, "first", value.Array())
	var idxErr *errors.IndexError
	require.ErrorAs(t, err, &idxErr)

	obj := value.Object(map[string]value.Value{"b": value.Integer(2), "a": value.Integer(1)})
	assert.True(t, mustCall(t, "keys", obj).Equal(value.Array(value.String("a"), value.String("b"))))
	assert.True(t, mustCall(t, "values", obj).Equal(value.Array(value.Integer(1), value.Integer(2))))
	assert.True(t, mustCall(t, "hasKey", obj, value.String("a")).Equal(value.Bool(true)))
	assert.True(t, mustCall(t, "hasKey", obj, value.String("z")).Equal(value.Bool(false)))

	people := value.Array(
		value.Object(map[string]value.Value{"name": value.String("Alice")}),
		value.Object(map[string]value.Value{"other": value.Null()}),
	)
	plucked := mustCall(t, "pluck", people, value.String("name"))
	assert.True(t, plucked.Equal(value.Array(value.String("Alice"), value.Null())))
}

func TestDefaulting(t *testing.T) {
	assert.True(t, mustCall(t, "default", value.Null(), value.String("x")).Equal(value.String("x")))
	assert.True(t, mustCall(t, "default", value.String(""), value.String("x")).Equal(value.String("x")))
	assert.True(t, mustCall(t, "default", value.Integer(0), value.String("x")).Equal(value.Integer(0)))

	got := mustCall(t, "coalesce", value.Null(), value.String(""), value.String("y"))
	assert.True(t, got.Equal(value.String("y")))
	assert.True(t, mustCall(t, "coalesce", value.Null()).IsNull())
}

func TestMathFuncs(t *testing.T) {
	assert.True(t, mustCall(t, "add", value.Integer(1), value.Integer(2)).Equal(value.Integer(3)))
	assert.True(t, mustCall(t, "add", value.Integer(1), value.Float(0.5)).Equal(value.Float(1.5)))
	assert.True(t, mustCall(t, "sub", value.Integer(5), value.Integer(3)).Equal(value.Integer(2)))
	assert.True(t, mustCall(t, "mul", value.Integer(2), value.Integer(3), value.Integer(4)).Equal(value.Integer(24)))
	assert.True(t, mustCall(t, "divf", value.Integer(7), value.Integer(2)).Equal(value.Float(3.5)))
	assert.True(t, mustCall(t, "round", value.Float(2.5)).Equal(value.Integer(3)))
	assert.True(t, mustCall(t, "round", value.Float(-2.5)).Equal(value.Integer(-3)))
	assert.True(t, mustCall(t, "abs", value.Integer(-4)).Equal(value.Integer(4)))
	assert.True(t, mustCall(t, "abs", value.Float(-1.5)).Equal(value.Float(1.5)))
	assert.True(t, mustCall(t, "min", value.Integer(3), value.Integer(1), value.Integer(2)).Equal(value.Integer(1)))
	assert.True(t, mustCall(t, "max", value.Float(1.5), value.Integer(1)).Equal(value.Float(1.5)))

	_, err := call(t, "divf", value.Integer(1), value.Integer(0))
	var mathErr *errors.MathError
	require.ErrorAs(t, err, &mathErr)
}

func TestArityErrors(t *testing.T) {
	_, err := call(t, "uppercase")
	var sigErr *errors.SignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, "uppercase", sigErr.Function)

	_, err = call(t, "split", value.String("a"))
	require.ErrorAs(t, err, &sigErr)
}

func TestConversionFuncs(t *testing.T) {
	assert.True(t, mustCall(t, "toInt", value.String("42")).Equal(value.Integer(42)))
	assert.True(t, mustCall(t, "toFloat", value.Integer(2)).Equal(value.Float(2)))
	assert.True(t, mustCall(t, "toString", value.Integer(7)).Equal(value.String("7")))
	assert.True(t, mustCall(t, "toBool", value.String("yes")).Equal(value.Bool(true)))

	_, err := call(t, "toInt", value.String("nope"))
	var typeErr *errors.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestJSONFuncs(t *testing.T) {
	obj := value.Object(map[string]value.Value{"a": value.Integer(1)})
	assert.Equal(t, `{"a":1}`, mustCall(t, "toJson", obj).String())

	pretty := mustCall(t, "toJsonPretty", obj)
	assert.Contains(t, pretty.String(), "\n")

	parsed := mustCall(t, "fromJson", value.String(`{"n": 2, "f": 2.5}`))
	assert.True(t, parsed.Equal(value.Object(map[string]value.Value{
		"n": value.Integer(2),
		"f": value.Float(2.5),
	})))

	_, err := call(t, "fromJson", value.String("{broken"))
	var fnErr *errors.FunctionError
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, "fromJson", fnErr.Function)
}

func TestUUID(t *testing.T) {
	a := mustCall(t, "uuid")
	b := mustCall(t, "uuid")
	require.True(t, a.IsString())
	sa, _ := a.Str()
	sb, _ := b.Str()
	assert.Len(t, sa, 36)
	assert.NotEqual(t, sa, sb)
}

func TestJQ(t *testing.T) {
	input := value.Object(map[string]value.Value{
		"users": value.Array(
			value.Object(map[string]value.Value{"name": value.String("Alice")}),
			value.Object(map[string]value.Value{"name": value.String("Bob")}),
		),
	})

	got := mustCall(t, "jq", input, value.String(".users[0].name"))
	assert.True(t, got.Equal(value.String("Alice")))

	many := mustCall(t, "jq", input, value.String(".users[].name"))
	assert.True(t, many.Equal(value.Array(value.String("Alice"), value.String("Bob"))))

	none := mustCall(t, "jq", input, value.String("empty"))
	assert.True(t, none.IsNull())

	_, err := call(t, "jq", input, value.String(".["))
	var fnErr *errors.FunctionError
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, "jq", fnErr.Function)
}
