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

package version

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/stencil/internal/commands/shared"
)

func runCommand(t *testing.T) string {
	t.Helper()
	cmd := NewVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersionText(t *testing.T) {
	shared.SetVersion("1.2.3", "abc1234", "2026-08-26")

	out := runCommand(t)
	assert.Contains(t, out, "stencil 1.2.3")
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, runtime.Version())
}

func TestVersionJSON(t *testing.T) {
	shared.SetVersion("1.2.3", "abc1234", "2026-08-26")
	_, _, jsonPtr := shared.RegisterFlagPointers()
	*jsonPtr = true
	defer func() { *jsonPtr = false }()

	out := runCommand(t)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "abc1234", info["commit"])
	assert.Equal(t, runtime.Version(), info["go_version"])
}
