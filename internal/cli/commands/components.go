package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-modelgen/pkg/emitters"
)

func (a *app) newComponentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components [file|url|-]",
		Short: "List the component schemas of an OpenAPI document",
		Args:  cobra.MaximumNArgs(1),
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

			components, err := orch.Components(cmd.Context(), req)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tLOCATION")
			for _, component := range components {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", component.Name, component.Title, component.Location)
			}
			return tw.Flush()
		},
	}
	addGenerationFlags(cmd.Flags())
	return cmd
}

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the target libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := emitters.Registry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMODULE\tTEMPLATE")
			for _, name := range registry.List() {
				strategy := registry.MustGet(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", strategy.Name(), strategy.ModuleName(), strategy.TemplateName())
			}
			return tw.Flush()
		},
	}
}
