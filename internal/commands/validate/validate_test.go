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

package validate

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
	cmd := NewValidateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateWellFormedTemplate(t *testing.T) {
	path := writeFile(t, "ok.tmpl", "Hello {{ $input.name }}!")

	out, err := runCommand(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
}

func TestValidateSyntaxError(t *testing.T) {
	path := writeFile(t, "bad.tmpl", "Hello {{ $input.name")

	_, err := runCommand(t, path)
	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitInvalidTemplate, exitErr.Code)
}

func TestValidateAgainstContext(t *testing.T) {
	tmplPath := writeFile(t, "t.tmpl", "{{ $input.name }} {{ $env.TOKEN }}")
	dataPath := writeFile(t, "ctx.yaml", "input:\n  name: Alice\n")

	_, err := runCommand(t, tmplPath, "--data", dataPath)
	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitMissingData, exitErr.Code)

	fullPath := writeFile(t, "full.yaml", "input:\n  name: Alice\nenv:\n  TOKEN: abc\n")
	_, err = runCommand(t, tmplPath, "--data", fullPath)
	assert.NoError(t, err)
}

func TestValidateIgnoresUnsetInputSubPaths(t *testing.T) {
	// input is present, so a path that fails to navigate is a render
	// concern, not a validation failure
	tmplPath := writeFile(t, "t.tmpl", "{{ $input.missing }}")
	dataPath := writeFile(t, "ctx.yaml", "input:\n  name: Alice\n")

	_, err := runCommand(t, tmplPath, "--data", dataPath)
	assert.NoError(t, err)
}
