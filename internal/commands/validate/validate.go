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

// Package validate implements the stencil validate command.
package validate

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/stencil/internal/commands/shared"
	"github.com/tombee/stencil/pkg/template"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "validate TEMPLATE_FILE",
		Short: "Check a template for syntax and data availability",
		Long: `Parse a template and report syntax errors. With --data, also verify
that every data reference resolves against the context document,
including references in branches rendering would skip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], dataPath)
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "Path to a YAML/JSON context document")

	return cmd
}

func runValidate(cmd *cobra.Command, templatePath, dataPath string) error {
	source, err := os.ReadFile(templatePath)
	if err != nil {
		return shared.NewRenderError("failed to read template", err)
	}

	tmpl, err := template.Parse(string(source))
	if err != nil {
		return shared.NewInvalidTemplateError("invalid template", err)
	}

	if dataPath != "" {
		doc, err := shared.LoadContextDoc(dataPath)
		if err != nil {
			return shared.NewRenderError("failed to load context", err)
		}
		ctx, err := shared.BuildContext(doc, nil, nil)
		if err != nil {
			return shared.NewRenderError("invalid context", err)
		}
		if err := tmpl.ValidateContext(ctx); err != nil {
			return shared.NewMissingDataError("context validation failed", err)
		}
	}

	if !shared.GetQuiet() {
		cmd.Println(shared.RenderOK(templatePath))
	}
	return nil
}
