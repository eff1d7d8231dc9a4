package commands

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modelgen/pkg/model"
)

// Inspect output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDump = "dump"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (a *app) newInspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [file|url|-]",
		Short: "Print the records a document produces",
		Long: `Walk the input document and print the resulting records without
rendering Swift files.

Formats: json (default), yaml, dump.`,
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

			result, err := orch.Models(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result, format)
		},
	}
	addGenerationFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "output format: json, yaml, dump")
	return cmd
}

func writeResult(w io.Writer, result model.Result, format string) error {
	switch format {
	case FormatJSON:
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(payload))
		return err
	case FormatYAML:
		payload, err := toYAML(result)
		if err != nil {
			return err
		}
		_, err = w.Write(payload)
		return err
	case FormatDump:
		dumpConfig.Fdump(w, result)
		return nil
	default:
		return fmt.Errorf("unknown format %q (json, yaml, dump)", format)
	}
}

// toYAML goes through the JSON encoding so field names and order match the
// json output.
func toYAML(value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(payload, &node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out, nil
}

func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
