// Package config loads generation settings from defaults, an optional
// modelgen.yaml file, MODELGEN_* environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-modelgen/pkg/emitters/codable"
	"github.com/goliatone/go-modelgen/pkg/emitters/marshal"
	"github.com/goliatone/go-modelgen/pkg/emitters/objectmapper"
	"github.com/goliatone/go-modelgen/pkg/emitters/swiftyjson"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/resolver"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MODELGEN"

// Source modes.
const (
	ModeAuto     = "auto"
	ModeInstance = "instance"
	ModeSchema   = "schema"
	ModeOpenAPI  = "openapi"
)

// Modes lists the accepted source modes.
func Modes() []string {
	return []string{ModeAuto, ModeInstance, ModeSchema, ModeOpenAPI}
}

// Strategies lists the built-in emitter strategies.
func Strategies() []string {
	return []string{swiftyjson.Name, objectmapper.Name, marshal.Name, codable.Name}
}

// Config is the full set of generation settings.
type Config struct {
	NamePrefix                     string         `mapstructure:"name_prefix" json:"namePrefix" yaml:"name_prefix"`
	RootName                       string         `mapstructure:"root_name" json:"rootName" yaml:"root_name"`
	SourceMode                     string         `mapstructure:"source_mode" json:"sourceMode" yaml:"source_mode"`
	TargetStrategy                 string         `mapstructure:"target_strategy" json:"targetStrategy" yaml:"target_strategy"`
	RequireExplicitOptionalMarkers bool           `mapstructure:"require_explicit_optional_markers" json:"requireExplicitOptionalMarkers" yaml:"require_explicit_optional_markers"`
	ConstructType                  string         `mapstructure:"construct_type" json:"constructType" yaml:"construct_type"`
	ClasspathPrefix                string         `mapstructure:"classpath_prefix" json:"classpathPrefix" yaml:"classpath_prefix"`
	ClasspathBase                  string         `mapstructure:"classpath_base" json:"classpathBase" yaml:"classpath_base"`
	Component                      string         `mapstructure:"component" json:"component,omitempty" yaml:"component,omitempty"`
	SingularizeArrays              bool           `mapstructure:"singularize_arrays" json:"singularizeArrays" yaml:"singularize_arrays"`
	AuthorName                     string         `mapstructure:"author_name" json:"authorName,omitempty" yaml:"author_name,omitempty"`
	CompanyName                    string         `mapstructure:"company_name" json:"companyName,omitempty" yaml:"company_name,omitempty"`
	OutputDir                      string         `mapstructure:"output_dir" json:"outputDir,omitempty" yaml:"output_dir,omitempty"`
	SupportNSCoding                bool           `mapstructure:"support_nscoding" json:"supportNSCoding" yaml:"support_nscoding"`
	IsFinalRequired                bool           `mapstructure:"is_final_required" json:"isFinalRequired" yaml:"is_final_required"`
	Resolver                       ResolverConfig `mapstructure:"resolver" json:"resolver" yaml:"resolver"`
}

// ResolverConfig bounds reference resolution.
type ResolverConfig struct {
	MaxDepth     int           `mapstructure:"max_depth" json:"maxDepth" yaml:"max_depth"`
	MaxDocuments int           `mapstructure:"max_documents" json:"maxDocuments" yaml:"max_documents"`
	CacheSize    int           `mapstructure:"cache_size" json:"cacheSize" yaml:"cache_size"`
	AllowHTTP    bool          `mapstructure:"allow_http" json:"allowHTTP" yaml:"allow_http"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout" json:"httpTimeout" yaml:"http_timeout"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		RootName:                       "BaseClass",
		SourceMode:                     ModeAuto,
		TargetStrategy:                 swiftyjson.Name,
		RequireExplicitOptionalMarkers: true,
		ConstructType:                  string(model.ConstructStruct),
		ClasspathPrefix:                resolver.DefaultClasspathPrefix,
		Resolver: ResolverConfig{
			MaxDepth:     resolver.DefaultMaxDepth,
			MaxDocuments: 128,
			CacheSize:    64,
			HTTPTimeout:  10 * time.Second,
		},
	}
}

// NewViper returns a viper instance carrying the defaults and environment
// binding. Callers bind flags on it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()

	v.SetDefault("name_prefix", d.NamePrefix)
	v.SetDefault("root_name", d.RootName)
	v.SetDefault("source_mode", d.SourceMode)
	v.SetDefault("target_strategy", d.TargetStrategy)
	v.SetDefault("require_explicit_optional_markers", d.RequireExplicitOptionalMarkers)
	v.SetDefault("construct_type", d.ConstructType)
	v.SetDefault("classpath_prefix", d.ClasspathPrefix)
	v.SetDefault("classpath_base", d.ClasspathBase)
	v.SetDefault("component", d.Component)
	v.SetDefault("singularize_arrays", d.SingularizeArrays)
	v.SetDefault("author_name", d.AuthorName)
	v.SetDefault("company_name", d.CompanyName)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("support_nscoding", d.SupportNSCoding)
	v.SetDefault("is_final_required", d.IsFinalRequired)
	v.SetDefault("resolver.max_depth", d.Resolver.MaxDepth)
	v.SetDefault("resolver.max_documents", d.Resolver.MaxDocuments)
	v.SetDefault("resolver.cache_size", d.Resolver.CacheSize)
	v.SetDefault("resolver.allow_http", d.Resolver.AllowHTTP)
	v.SetDefault("resolver.http_timeout", d.Resolver.HTTPTimeout)

	v.SetConfigName("modelgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. An explicit file must exist; without one a
// modelgen.yaml in the working directory is used when present.
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.NamePrefix = strings.TrimSpace(c.NamePrefix)
	c.RootName = strings.TrimSpace(c.RootName)
	c.SourceMode = strings.ToLower(strings.TrimSpace(c.SourceMode))
	c.TargetStrategy = strings.ToLower(strings.TrimSpace(c.TargetStrategy))
	c.ConstructType = strings.ToLower(strings.TrimSpace(c.ConstructType))
	c.Component = strings.TrimSpace(c.Component)
}

// Validate checks enumerations and bounds.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.RootName) == "" {
		problems = append(problems, "root_name is required")
	}
	if !slices.Contains(Modes(), c.SourceMode) {
		problems = append(problems, fmt.Sprintf("source_mode %q must be one of %s", c.SourceMode, strings.Join(Modes(), ", ")))
	}
	if !slices.Contains(Strategies(), c.TargetStrategy) {
		problems = append(problems, fmt.Sprintf("target_strategy %q must be one of %s", c.TargetStrategy, strings.Join(Strategies(), ", ")))
	}
	switch model.ConstructKind(c.ConstructType) {
	case model.ConstructStruct, model.ConstructClass:
	default:
		problems = append(problems, fmt.Sprintf("construct_type %q must be struct or class", c.ConstructType))
	}
	if c.Resolver.MaxDepth < 0 || c.Resolver.MaxDocuments < 0 || c.Resolver.CacheSize < 0 {
		problems = append(problems, "resolver limits must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Construct returns the configured construct kind.
func (c Config) Construct() model.ConstructKind {
	return model.ConstructKind(c.ConstructType)
}

// ResolverOptions maps the settings onto resolver options.
func (c Config) ResolverOptions() resolver.Options {
	return resolver.Options{
		ClasspathPrefix: c.ClasspathPrefix,
		ClasspathBase:   c.ClasspathBase,
		MaxDepth:        c.Resolver.MaxDepth,
		MaxDocuments:    c.Resolver.MaxDocuments,
	}
}

// LoaderOptions maps the settings onto document loader options.
func (c Config) LoaderOptions() []schema.LoaderOption {
	options := []schema.LoaderOption{schema.WithCache(c.Resolver.CacheSize)}
	if c.Resolver.AllowHTTP {
		options = append(options, schema.WithHTTPFallback(c.Resolver.HTTPTimeout))
	}
	return options
}
