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
	"fmt"
	"os"
)

// Exit codes for stencil commands
const (
	ExitSuccess         = 0
	ExitRenderFailed    = 1
	ExitInvalidTemplate = 2
	ExitMissingData     = 3
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates an error for render failures
func NewRenderError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitRenderFailed, Message: msg, Cause: cause}
}

// NewInvalidTemplateError creates an error for templates that fail to parse
func NewInvalidTemplateError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitInvalidTemplate, Message: msg, Cause: cause}
}

// NewMissingDataError creates an error for unresolvable data references
func NewMissingDataError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitMissingData, Message: msg, Cause: cause}
}

// HandleExitError checks if an error is an ExitError and exits with the
// appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err.Error())

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(ExitRenderFailed)
}
