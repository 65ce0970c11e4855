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

// Package render implements the stencil render command.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tombee/stencil/internal/commands/shared"
	"github.com/tombee/stencil/internal/log"
	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/template"
)

type options struct {
	dataPath string
	inputs   []string
	envs     []string
	outPath  string
	watch    bool
}

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "render TEMPLATE_FILE",
		Short: "Render a template against context data",
		Long: `Render a template file against a context document and print the
result. Context data comes from a YAML or JSON file with sections for
input, nodes, env, execution, and workflow data; --input and --env
flags override individual values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "", "Path to a YAML/JSON context document")
	cmd.Flags().StringArrayVar(&opts.inputs, "input", nil, "Set an input field (key=value, repeatable)")
	cmd.Flags().StringArrayVar(&opts.envs, "env", nil, "Set a context environment variable (KEY=value, repeatable)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-render when the template or data file changes")

	return cmd
}

func runRender(cmd *cobra.Command, templatePath string, opts *options) error {
	logger := log.New(log.FromEnv())

	if err := renderOnce(cmd, templatePath, opts); err != nil {
		if !opts.watch {
			return err
		}
		// in watch mode a broken template is reported, not fatal
		logger.Error("render failed", "error", err, log.TemplateKey, templatePath)
	}

	if !opts.watch {
		return nil
	}
	return watchAndRender(cmd, templatePath, opts, logger)
}

func renderOnce(cmd *cobra.Command, templatePath string, opts *options) error {
	start := time.Now()

	source, err := os.ReadFile(templatePath)
	if err != nil {
		return shared.NewRenderError("failed to read template", err)
	}

	tmpl, err := template.Parse(string(source))
	if err != nil {
		return shared.NewInvalidTemplateError("invalid template", err)
	}

	ctx, err := buildContext(opts)
	if err != nil {
		return err
	}

	out, err := tmpl.Render(ctx)
	if err != nil {
		var nf *errors.DataNotFoundError
		if errors.As(err, &nf) {
			return shared.NewMissingDataError("render failed", err)
		}
		return shared.NewRenderError("render failed", err)
	}

	if shared.GetVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "rendered %d expression(s) in %s\n",
			tmpl.ExpressionCount(), time.Since(start).Round(time.Microsecond))
	}

	if opts.outPath != "" {
		if err := os.WriteFile(opts.outPath, []byte(out), 0o644); err != nil {
			return shared.NewRenderError("failed to write output", err)
		}
		return nil
	}
	cmd.Print(out)
	return nil
}

func buildContext(opts *options) (*template.Context, error) {
	var doc *shared.ContextDoc
	if opts.dataPath != "" {
		loaded, err := shared.LoadContextDoc(opts.dataPath)
		if err != nil {
			return nil, shared.NewRenderError("failed to load context", err)
		}
		doc = loaded
	}
	ctx, err := shared.BuildContext(doc, opts.inputs, opts.envs)
	if err != nil {
		return nil, shared.NewRenderError("invalid context override", err)
	}
	return ctx, nil
}

// watchAndRender re-renders whenever the template or the data file
// changes, until interrupted.
func watchAndRender(cmd *cobra.Command, templatePath string, opts *options, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return shared.NewRenderError("failed to create file watcher", err)
	}
	defer watcher.Close()

	// watch the containing directories: editors replace files on save,
	// which drops a watch registered on the file itself
	watched := map[string]bool{filepath.Clean(templatePath): true}
	dirs := map[string]bool{filepath.Dir(templatePath): true}
	if opts.dataPath != "" {
		watched[filepath.Clean(opts.dataPath)] = true
		dirs[filepath.Dir(opts.dataPath)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return shared.NewRenderError("failed to watch directory", err)
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", log.TemplateKey, templatePath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("change detected", log.EventKey, event.Op.String(), "file", event.Name)
			if err := renderOnce(cmd, templatePath, opts); err != nil {
				logger.Error("render failed", "error", err, log.TemplateKey, templatePath)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", watchErr)

		case <-sigCtx.Done():
			return nil
		}
	}
}
