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
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tombee/stencil/pkg/template"
	"github.com/tombee/stencil/pkg/value"
)

// ContextDoc is the on-disk shape of a rendering context: a YAML (or
// JSON) document with one section per data source.
type ContextDoc struct {
	Input     interface{}            `yaml:"input"`
	Nodes     map[string]interface{} `yaml:"nodes"`
	Env       map[string]string      `yaml:"env"`
	Execution map[string]interface{} `yaml:"execution"`
	Workflow  map[string]interface{} `yaml:"workflow"`
}

// LoadContextDoc reads and unmarshals a context document.
func LoadContextDoc(path string) (*ContextDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	var doc ContextDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}
	return &doc, nil
}

// BuildContext constructs a rendering context from a document plus
// key=value overrides from the command line. A nil doc yields a
// context with only the overrides applied.
func BuildContext(doc *ContextDoc, inputOverrides, envOverrides []string) (*template.Context, error) {
	ctx := template.NewContext()

	if doc != nil {
		if doc.Input != nil {
			ctx.SetInput(value.FromAny(doc.Input))
		}
		for id, out := range doc.Nodes {
			ctx.AddNodeOutput(id, value.FromAny(out))
		}
		for k, v := range doc.Env {
			ctx.SetEnv(k, v)
		}
		for k, v := range doc.Execution {
			ctx.SetExecutionData(k, value.FromAny(v))
		}
		for k, v := range doc.Workflow {
			ctx.SetWorkflowData(k, value.FromAny(v))
		}
	}

	if len(inputOverrides) > 0 {
		input, ok := ctx.Input()
		if !ok || !input.IsObject() {
			input = value.Object(map[string]value.Value{})
		}
		for _, pair := range inputOverrides {
			k, v, err := splitKeyValue(pair)
			if err != nil {
				return nil, err
			}
			if err := input.Set(k, value.String(v)); err != nil {
				return nil, err
			}
		}
		ctx.SetInput(input)
	}

	for _, pair := range envOverrides {
		k, v, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}
		ctx.SetEnv(k, v)
	}

	return ctx, nil
}

func splitKeyValue(pair string) (string, string, error) {
	k, v, found := strings.Cut(pair, "=")
	if !found || k == "" {
		return "", "", fmt.Errorf("invalid key=value pair %q", pair)
	}
	return k, v, nil
}
