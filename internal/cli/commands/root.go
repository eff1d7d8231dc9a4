// Package commands implements the modelgen command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/internal/cli/prompt"
	"github.com/goliatone/go-modelgen/internal/cli/ui"
	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/notify"
	"github.com/goliatone/go-modelgen/pkg/orchestrator"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// stdinArg reads the document from standard input.
const stdinArg = "-"

// Option customises the command tree.
type Option func(*app)

// WithStdin replaces standard input.
func WithStdin(in io.Reader) Option {
	return func(a *app) {
		a.stdin = in
	}
}

// WithAsk replaces the interactive prompt driver.
func WithAsk(ask prompt.AskFunc) Option {
	return func(a *app) {
		a.ask = ask
	}
}

// WithLogger bypasses the logger built from --verbose.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

type app struct {
	stdin  io.Reader
	ask    prompt.AskFunc
	logger *zap.Logger

	configFile  string
	verbose     bool
	noColor     bool
	interactive bool
}

// flagBindings maps generation flags onto configuration keys.
var flagBindings = []struct {
	flag string
	key  string
}{
	{"prefix", "name_prefix"},
	{"root-name", "root_name"},
	{"mode", "source_mode"},
	{"strategy", "target_strategy"},
	{"construct", "construct_type"},
	{"explicit-optional", "require_explicit_optional_markers"},
	{"classpath-base", "classpath_base"},
	{"component", "component"},
	{"singularize", "singularize_arrays"},
	{"author", "author_name"},
	{"company", "company_name"},
	{"out", "output_dir"},
	{"nscoding", "support_nscoding"},
	{"final", "is_final_required"},
	{"allow-http", "resolver.allow_http"},
}

// NewRootCommand creates the root command
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{stdin: os.Stdin}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "modelgen",
		Short: "Generate Swift model types from JSON samples, JSON Schema and OpenAPI",
		Long: `modelgen reads a JSON sample, a JSON-Schema document or an OpenAPI
description and writes one Swift source file per model type.

Target libraries: SwiftyJSON, ObjectMapper, Marshal and Codable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "configuration file (default ./modelgen.yaml when present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log resolver and walker diagnostics")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&a.interactive, "interactive", "i", false, "prompt for settings not given as flags")

	rootCmd.AddCommand(a.newGenerateCommand())
	rootCmd.AddCommand(a.newInspectCommand())
	rootCmd.AddCommand(a.newComponentsCommand())
	rootCmd.AddCommand(newStrategiesCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(out, "modelgen version: ")
			fmt.Fprintln(out, Version)
			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		ui.NewStatus(rootCmd.ErrOrStderr(), false).Error(err)
		return err
	}
	return nil
}

// addGenerationFlags registers the flags bound to configuration keys. Flag
// defaults mirror config.Defaults and only take effect when set explicitly.
func addGenerationFlags(flags *pflag.FlagSet) {
	d := config.Defaults()
	flags.String("prefix", d.NamePrefix, "prefix for every generated type name")
	flags.String("root-name", d.RootName, "name of the root model")
	flags.StringP("mode", "m", d.SourceMode, "source mode: "+strings.Join(config.Modes(), ", "))
	flags.StringP("strategy", "s", d.TargetStrategy, "target library: "+strings.Join(config.Strategies(), ", "))
	flags.String("construct", d.ConstructType, "struct or class")
	flags.Bool("explicit-optional", d.RequireExplicitOptionalMarkers, "treat schema properties as optional unless marked required")
	flags.String("classpath-base", d.ClasspathBase, "directory substituted for classpath: references")
	flags.String("component", d.Component, "OpenAPI component schema to generate (default all)")
	flags.Bool("singularize", d.SingularizeArrays, "name array element models after the singular member name")
	flags.String("author", d.AuthorName, "author written in file headers")
	flags.String("company", d.CompanyName, "company written in file headers")
	flags.StringP("out", "o", d.OutputDir, "output directory (stdout when empty)")
	flags.Bool("nscoding", d.SupportNSCoding, "add NSCoding conformance to classes")
	flags.Bool("final", d.IsFinalRequired, "mark classes nobody extends final")
	flags.Bool("allow-http", d.Resolver.AllowHTTP, "allow loading documents over http(s)")
}

func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.NewViper()
	provided := make(map[string]bool)
	for _, binding := range flagBindings {
		flag := cmd.Flags().Lookup(binding.flag)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(binding.key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", binding.flag, err)
		}
		if flag.Changed {
			provided[binding.key] = true
		}
	}

	cfg, err := config.Load(v, a.configFile)
	if err != nil {
		return nil, err
	}
	if a.interactive {
		if err := prompt.New(a.ask).Fill(cfg, provided); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (a *app) buildLogger() (*zap.Logger, error) {
	if a.logger != nil {
		return a.logger, nil
	}
	if a.verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func (a *app) status(cmd *cobra.Command) *ui.Status {
	return ui.NewStatus(cmd.ErrOrStderr(), a.noColor)
}

// newOrchestrator wires the logger and a notifier that reports run summaries
// on stderr.
func (a *app) newOrchestrator(cmd *cobra.Command) (*orchestrator.Orchestrator, *zap.Logger, error) {
	logger, err := a.buildLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	status := a.status(cmd)
	sink := notify.SinkFunc(func(_ context.Context, summary notify.Summary) {
		if summary.Count > 0 {
			status.Success("%s", summary.Message())
			return
		}
		status.Warn("%s", summary.Message())
	})
	orch := orchestrator.New(
		orchestrator.WithLogger(logger),
		orchestrator.WithNotifier(notify.Multi{sink, notify.NewLogger(logger)}),
	)
	return orch, logger, nil
}

// request turns the input argument into an orchestrator request. "-" or no
// argument reads standard input.
func (a *app) request(args []string, cfg *config.Config) (orchestrator.Request, error) {
	req := orchestrator.Request{Config: cfg}
	location := stdinArg
	if len(args) > 0 {
		location = strings.TrimSpace(args[0])
	}

	if location == stdinArg || location == "" {
		if a.stdin == nil {
			return req, fmt.Errorf("no input: pass a file, a URL or pipe a document")
		}
		raw, err := io.ReadAll(a.stdin)
		if err != nil {
			return req, fmt.Errorf("read stdin: %w", err)
		}
		doc, err := schema.NewDocument(schema.SourceFromFile("stdin.json"), raw)
		if err != nil {
			return req, fmt.Errorf("read stdin: %w", err)
		}
		req.Document = &doc
		return req, nil
	}

	src, err := schema.DetectSource(location)
	if err != nil {
		return req, err
	}
	req.Source = src
	return req, nil
}
