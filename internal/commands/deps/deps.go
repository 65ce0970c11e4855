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

// Package deps implements the stencil deps command.
package deps

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/stencil/internal/cli/format"
	"github.com/tombee/stencil/internal/commands/shared"
	"github.com/tombee/stencil/pkg/template"
)

// depsReport is the JSON shape of a dependency listing
type depsReport struct {
	InputPaths []string `json:"input_paths"`
	NodeIDs    []string `json:"node_ids"`
	EnvVars    []string `json:"env_vars"`
	Functions  []string `json:"functions"`
	System     bool     `json:"system"`
	Execution  bool     `json:"execution"`
	Workflow   bool     `json:"workflow"`
}

// NewDepsCommand creates the deps command
func NewDepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps TEMPLATE_FILE",
		Short: "List the data sources and functions a template uses",
		Long: `Statically inspect a template and list every input path, node id,
environment variable, and function it references, without rendering.
Both branches of every conditional are included.`,
		Args: cobra.ExactArgs(1),
		RunE: runDeps,
	}
	return cmd
}

func runDeps(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return shared.NewRenderError("failed to read template", err)
	}

	tmpl, err := template.Parse(string(source))
	if err != nil {
		return shared.NewInvalidTemplateError("invalid template", err)
	}

	deps := tmpl.Dependencies()
	report := depsReport{
		InputPaths: deps.InputPaths(),
		NodeIDs:    deps.NodeIDs(),
		EnvVars:    deps.EnvVars(),
		Functions:  deps.Functions(),
		System:     deps.UsesSystem(),
		Execution:  deps.UsesExecution(),
		Workflow:   deps.UsesWorkflow(),
	}

	if shared.GetJSON() {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal dependencies: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report depsReport) {
	styled := format.IsTTY()
	header := func(s string) string {
		if styled {
			return shared.Header.Render(s)
		}
		return s
	}

	printList(cmd, header("Input paths:"), report.InputPaths)
	printList(cmd, header("Nodes:"), report.NodeIDs)
	printList(cmd, header("Environment:"), report.EnvVars)
	printList(cmd, header("Functions:"), report.Functions)

	var flags []string
	if report.System {
		flags = append(flags, "$system")
	}
	if report.Execution {
		flags = append(flags, "$execution")
	}
	if report.Workflow {
		flags = append(flags, "$workflow")
	}
	if len(flags) > 0 {
		cmd.Println(header("Also uses:"), strings.Join(flags, ", "))
	}
}

func printList(cmd *cobra.Command, header string, items []string) {
	if len(items) == 0 {
		return
	}
	cmd.Println(header)
	for _, item := range items {
		cmd.Printf("  %s\n", item)
	}
}
