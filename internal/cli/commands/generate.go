package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/pkg/emit"
)

func (a *app) newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [file|url|-]",
		Aliases: []string{"g"},
		Short:   "Generate Swift model files",
		Long: `Generate one Swift file per model found in the input document.

Files are written to --out when set, otherwise printed to stdout.

Examples:
  modelgen generate pet.json --strategy codable --out Models
  modelgen generate schema/pet.json --mode schema --classpath-base schema
  curl -s https://example.com/pet.json | modelgen generate - --root-name Pet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			req, err := a.request(args, cfg)
			if err != nil {
				return err
			}
			orch, logger, err := a.newOrchestrator(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			out, err := orch.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			logger.Debug("generated files",
				zap.String("mode", out.Mode),
				zap.String("strategy", out.Strategy),
				zap.Int("files", len(out.Files)),
			)

			if cfg.OutputDir == "" {
				return printFiles(cmd, out.Files)
			}
			return a.writeFiles(cmd, cfg.OutputDir, out.Files)
		},
	}
	addGenerationFlags(cmd.Flags())
	return cmd
}

func printFiles(cmd *cobra.Command, files []emit.File) error {
	w := cmd.OutOrStdout()
	for idx, file := range files {
		if idx > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, file.Content); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) writeFiles(cmd *cobra.Command, dir string, files []emit.File) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	status := a.status(cmd)
	for _, file := range files {
		path := filepath.Join(dir, file.Name)
		if err := os.WriteFile(path, []byte(file.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		status.Info("wrote %s", path)
	}
	return nil
}
