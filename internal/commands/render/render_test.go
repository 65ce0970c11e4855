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

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/stencil/internal/commands/shared"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRenderCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderWithDataFile(t *testing.T) {
	tmplPath := writeFile(t, "t.tmpl", "Hello {{ $input.name }}!")
	dataPath := writeFile(t, "ctx.yaml", "input:\n  name: Alice\n")

	out, err := runCommand(t, tmplPath, "--data", dataPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice!", out)
}

func TestRenderWithInputFlags(t *testing.T) {
	tmplPath := writeFile(t, "t.tmpl", "{{ $input.greeting }} {{ $env.USER }}")

	out, err := runCommand(t, tmplPath, "--input", "greeting=hi", "--env", "USER=alice")
	require.NoError(t, err)
	assert.Equal(t, "hi alice", out)
}

func TestRenderToFile(t *testing.T) {
	tmplPath := writeFile(t, "t.tmpl", "static output")
	outPath := filepath.Join(t.TempDir(), "out.txt")

	stdout, err := runCommand(t, tmplPath, "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "static output", string(data))
}

func TestRenderInvalidTemplate(t *testing.T) {
	tmplPath := writeFile(t, "bad.tmpl", "{{ broken")

	_, err := runCommand(t, tmplPath)
	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitInvalidTemplate, exitErr.Code)
}

func TestRenderMissingData(t *testing.T) {
	tmplPath := writeFile(t, "t.tmpl", "{{ $input.name }}")

	_, err := runCommand(t, tmplPath)
	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitMissingData, exitErr.Code)
}

func TestRenderMissingTemplateFile(t *testing.T) {
	_, err := runCommand(t, filepath.Join(t.TempDir(), "nope.tmpl"))
	assert.Error(t, err)
}
