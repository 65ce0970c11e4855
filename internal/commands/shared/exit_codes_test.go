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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitErrorCodes(t *testing.T) {
	tests := []struct {
		err  *ExitError
		code int
	}{
		{NewRenderError("render", nil), ExitRenderFailed},
		{NewInvalidTemplateError("parse", nil), ExitInvalidTemplate},
		{NewMissingDataError("data", nil), ExitMissingData},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
	}
}

func TestExitErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError("render failed", cause)
	assert.Equal(t, "render failed: boom", err.Error())
	assert.Equal(t, "no cause", (&ExitError{Message: "no cause"}).Error())

	var exitErr *ExitError
	require.True(t, errors.As(error(err), &exitErr))
	assert.True(t, errors.Is(err, cause))
}
