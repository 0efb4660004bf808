package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/go-drift/nibel/cmd/nibelgen/internal/config"
	"github.com/go-drift/nibel/internal/codegen"
	"github.com/go-drift/nibel/pkg/errors"
)

// run is the outcome of one generation pass.
type run struct {
	Result      *codegen.Result
	Report      *codegen.WriteReport
	Diagnostics codegen.Diagnostics
}

// generate loads patterns, renders entries and writes them. Valid
// declarations are written even when others are rejected; rejections are
// returned in run.Diagnostics.
func generate(ctx context.Context, res *config.Resolved, patterns []string, dryRun bool) (*run, error) {
	if len(patterns) == 0 {
		patterns = res.Patterns
	}
	pkgs, diags, err := codegen.Load(ctx, codegen.LoadConfig{
		Dir:    res.Root,
		Tags:   res.Tags,
		Logger: logger,
	}, patterns...)
	if err != nil {
		return nil, errors.New("nibelgen.Load", errors.KindGenerate, err)
	}

	result, err := codegen.New(codegen.Options{
		RuntimePath: res.RuntimeImport,
		Header:      res.Header,
		Logger:      logger,
	}).Generate(pkgs)
	if err != nil {
		return nil, errors.New("nibelgen.Generate", errors.KindGenerate, err)
	}
	diags = append(diags, result.Diagnostics...)
	diags.Sort()

	w := &codegen.Writer{DryRun: dryRun, Logger: logger}
	report, err := w.Write(result.Files, result.Dirs)
	if err != nil {
		return nil, errors.New("nibelgen.Write", errors.KindGenerate, err)
	}

	logger.Info("generation finished",
		zap.Int("packages", len(pkgs)),
		zap.Int("entries", len(result.Metadata)),
		zap.Int("destinations", len(result.Providers)),
		zap.Int("written", len(report.Written)),
		zap.Int("unchanged", len(report.Unchanged)),
		zap.Int("removed", len(report.Removed)),
		zap.Int("diagnostics", len(diags)),
		zap.Bool("dry_run", dryRun),
	)
	return &run{Result: result, Report: report, Diagnostics: diags}, nil
}

// printDiagnostics writes one line per diagnostic, with paths relative to
// root where possible.
func printDiagnostics(w io.Writer, root string, diags codegen.Diagnostics) {
	for _, d := range diags {
		pos := d.Pos
		if rel, err := filepath.Rel(root, pos.Filename); err == nil && pos.Filename != "" {
			pos.Filename = rel
		}
		line := *d
		line.Pos = pos
		fmt.Fprintln(w, line.Error())
	}
}

// diagnosticsError wraps diagnostics into the command's error.
func diagnosticsError(diags codegen.Diagnostics) error {
	if len(diags) == 0 {
		return nil
	}
	return errors.New("nibelgen", errors.KindGenerate,
		fmt.Errorf("%d declaration(s) rejected: %w", len(diags), diags.Err()))
}
