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

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{
			&ParseError{Message: "unclosed expression", Position: 6, Template: "x {{ y"},
			"parse error at position 6: unclosed expression",
		},
		{
			&EvaluationError{Message: "bad op"},
			"evaluation error: bad op",
		},
		{
			&EvaluationError{Message: "bad op", Context: "1 % 2"},
			"evaluation error in 1 % 2: bad op",
		},
		{
			&FunctionError{Function: "jq", Message: "parse error"},
			`function "jq" failed: parse error`,
		},
		{
			&TypeError{From: "array", To: "string"},
			"type error: cannot convert array to string",
		},
		{
			&DataNotFoundError{Path: "$input.name", Available: []string{"$input"}},
			"data not found: $input.name (available: $input)",
		},
		{
			&DataNotFoundError{Path: "$workflow.x"},
			"data not found: $workflow.x",
		},
		{
			&SignatureError{Function: "join", Message: "expected 2 argument(s), got 1"},
			`invalid signature for "join": expected 2 argument(s), got 1`,
		},
		{
			&MathError{Message: "division by zero"},
			"math error: division by zero",
		},
		{
			&IndexError{Index: 5, Size: 2},
			"index 5 out of bounds for collection of size 2",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestFunctionErrorUnwrap(t *testing.T) {
	cause := &MathError{Message: "division by zero"}
	err := &FunctionError{Function: "divf", Message: "failed", Cause: cause}

	var mathErr *MathError
	require.True(t, As(err, &mathErr))
	assert.True(t, Is(err, cause))
}

func TestWrap(t *testing.T) {
	base := New("boom")
	wrapped := Wrapf(base, "stage %d", 2)
	assert.Equal(t, "stage 2: boom", wrapped.Error())
	assert.True(t, Is(wrapped, base))
	assert.Nil(t, Wrap(nil, "ignored"))
}
