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
	"fmt"
	"strings"
)

// ParseError represents malformed template syntax.
// It is raised only during Template parsing; a constructed Template is
// guaranteed syntactically well-formed.
type ParseError struct {
	// Message is the human-readable error description
	Message string

	// Position is the byte offset in the template source where the error occurred
	Position int

	// Template is the source that caused the error
	Template string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// EvaluationError represents an invalid or unimplemented runtime operation.
type EvaluationError struct {
	// Message is the human-readable error description
	Message string

	// Context optionally identifies where evaluation failed (e.g. the expression source)
	Context string
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("evaluation error in %s: %s", e.Context, e.Message)
	}
	return fmt.Sprintf("evaluation error: %s", e.Message)
}

// FunctionError represents a missing function or a failure reported by a
// registry function.
type FunctionError struct {
	// Function is the name the template referenced
	Function string

	// Message is the human-readable error description
	Message string

	// Args are the stringified arguments passed to the function
	Args []string

	// Cause is the underlying error, if the function returned one
	Cause error
}

// Error implements the error interface.
func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %q failed: %s", e.Function, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *FunctionError) Unwrap() error {
	return e.Cause
}

// TypeError represents a value coercion failure.
type TypeError struct {
	// From is the source type name
	From string

	// To is the target type name
	To string

	// Context optionally identifies the operation that needed the coercion
	Context string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("type error: cannot convert %s to %s (%s)", e.From, e.To, e.Context)
	}
	return fmt.Sprintf("type error: cannot convert %s to %s", e.From, e.To)
}

// DataNotFoundError represents an unresolved data-source reference.
// Available always carries suggested alternatives for diagnostics.
type DataNotFoundError struct {
	// Path is the data reference that could not be resolved (e.g. "$input.name")
	Path string

	// Available lists the data references that are currently resolvable
	Available []string
}

// Error implements the error interface.
func (e *DataNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("data not found: %s", e.Path)
	}
	return fmt.Sprintf("data not found: %s (available: %s)", e.Path, strings.Join(e.Available, ", "))
}

// SignatureError represents a function called with the wrong number or
// type of arguments.
type SignatureError struct {
	// Function is the function name
	Function string

	// Message is the human-readable error description
	Message string
}

// Error implements the error interface.
func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid signature for %q: %s", e.Function, e.Message)
}

// MathError represents division by zero and similar arithmetic failures.
type MathError struct {
	// Message is the human-readable error description
	Message string
}

// Error implements the error interface.
func (e *MathError) Error() string {
	return fmt.Sprintf("math error: %s", e.Message)
}

// IndexError represents an out-of-bounds collection access.
type IndexError struct {
	// Index is the index that was out of bounds
	Index int

	// Size is the size of the collection
	Size int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of bounds for collection of size %d", e.Index, e.Size)
}
