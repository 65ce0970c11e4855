// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/stencil/pkg/template"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadContextDoc(t *testing.T) {
	path := writeFile(t, "ctx.yaml", `
input:
  name: Alice
nodes:
  fetch:
    status: 200
env:
  API_KEY: secret
execution:
  id: run-1
workflow:
  name: pipeline
`)

	doc, err := LoadContextDoc(path)
	require.NoError(t, err)

	ctx, err := BuildContext(doc, nil, nil)
	require.NoError(t, err)

	v, err := ctx.ResolveDataSource(template.InputSource(), "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v.String())

	v, err = ctx.ResolveDataSource(template.NodeSource("fetch"), "status")
	require.NoError(t, err)
	assert.Equal(t, "200", v.String())

	v, err = ctx.ResolveDataSource(template.EnvironmentSource(), "API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "secret", v.String())

	v, err = ctx.ResolveDataSource(template.ExecutionSource(), "id")
	require.NoError(t, err)
	assert.Equal(t, "run-1", v.String())

	v, err = ctx.ResolveDataSource(template.WorkflowSource(), "name")
	require.NoError(t, err)
	assert.Equal(t, "pipeline", v.String())
}

func TestLoadContextDocErrors(t *testing.T) {
	_, err := LoadContextDoc(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, "bad.yaml", "input: [unclosed")
	_, err = LoadContextDoc(path)
	assert.Error(t, err)
}

func TestBuildContextOverrides(t *testing.T) {
	ctx, err := BuildContext(nil, []string{"name=Bob"}, []string{"HOME=/tmp"})
	require.NoError(t, err)

	v, err := ctx.ResolveDataSource(template.InputSource(), "name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", v.String())

	v, err = ctx.ResolveDataSource(template.EnvironmentSource(), "HOME")
	require.NoError(t, err)
	assert.Equal(t, "/tmp", v.String())
}

func TestBuildContextOverridesMergeWithDoc(t *testing.T) {
	doc := &ContextDoc{Input: map[string]interface{}{"a": 1, "b": 2}}

	ctx, err := BuildContext(doc, []string{"b=override"}, nil)
	require.NoError(t, err)

	v, err := ctx.ResolveDataSource(template.InputSource(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	v, err = ctx.ResolveDataSource(template.InputSource(), "b")
	require.NoError(t, err)
	assert.Equal(t, "override", v.String())
}

func TestBuildContextBadOverride(t *testing.T) {
	_, err := BuildContext(nil, []string{"noequals"}, nil)
	assert.Error(t, err)

	_, err = BuildContext(nil, nil, []string{"=empty"})
	assert.Error(t, err)
}
