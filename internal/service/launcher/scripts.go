package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
)

const (
	// ShellScriptName is the Linux/macOS start script.
	ShellScriptName = "start.sh"
	// BatchScriptName is the Windows start script.
	BatchScriptName = "start.bat"

	scriptMode os.FileMode = 0o755
)

//nolint:gochecknoglobals // Parsed once.
var (
	shellTemplate = template.Must(template.New(ShellScriptName).Parse(`#!/usr/bin/env bash
set -euo pipefail
cd "$(dirname "$0")"
{{ .Command }}
`))

	batchTemplate = template.Must(template.New(BatchScriptName).Parse(`@echo off
setlocal
cd /d %~dp0
{{ .Command }}
pause
`))
)

// WriteScripts renders start.sh and start.bat into r.Dir and returns their paths.
func (r *Runner) WriteScripts(java string) ([]string, error) {
	data := struct{ Command string }{Command: r.CommandLine(java)}

	scripts := []struct {
		name     string
		tmpl     *template.Template
		crlf     bool
		execMode bool
	}{
		{ShellScriptName, shellTemplate, false, true},
		{BatchScriptName, batchTemplate, true, false},
	}

	paths := make([]string, 0, len(scripts))

	for _, s := range scripts {
		var b strings.Builder
		if err := s.tmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", s.name, err)
		}

		contents := b.String()
		if s.crlf {
			contents = strings.ReplaceAll(contents, "\n", "\r\n")
		}

		path := filepath.Join(r.Dir, s.name)
		if err := os.WriteFile(path, []byte(contents), scriptMode); err != nil {
			return nil, fmt.Errorf("%w: write %s: %w", setup.ErrFilesystem, path, err)
		}

		// WriteFile keeps the mode of an existing file.
		if s.execMode && runtime.GOOS != "windows" {
			if err := os.Chmod(path, scriptMode); err != nil {
				return nil, fmt.Errorf("%w: chmod %s: %w", setup.ErrFilesystem, path, err)
			}
		}

		paths = append(paths, path)
	}

	return paths, nil
}
