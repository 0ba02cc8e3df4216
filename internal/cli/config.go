package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/layout/spring"
	"github.com/matzehuels/springembed/pkg/store"
)

// Config is the file-backed configuration. Values resolve in the order
// flags, SPRINGEMBED_* environment, config file, built-in defaults.
type Config struct {
	Layout spring.Options `toml:"layout" mapstructure:"layout"`
	Serve  ServeConfig    `toml:"serve" mapstructure:"serve"`
}

// ServeConfig configures the HTTP server and its backends.
type ServeConfig struct {
	Addr string `toml:"addr" mapstructure:"addr"`

	// RedisAddr selects the Redis cache. Empty uses the file cache.
	RedisAddr string `toml:"redis_addr" mapstructure:"redis_addr"`

	// CacheScope prefixes every cache key, so deployments sharing one
	// Redis do not see each other's entries.
	CacheScope string `toml:"cache_scope" mapstructure:"cache_scope"`

	// MongoURI selects the Mongo layout store. Empty keeps layouts in memory.
	MongoURI string `toml:"mongo_uri" mapstructure:"mongo_uri"`
	MongoDB  string `toml:"mongo_database" mapstructure:"mongo_database"`

	LayoutTTL string `toml:"layout_ttl" mapstructure:"layout_ttl"`
	NoCache   bool   `toml:"no_cache" mapstructure:"no_cache"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Layout: spring.DefaultOptions(),
		Serve: ServeConfig{
			Addr:      ":8080",
			MongoDB:   store.DefaultMongoConfig().Database,
			LayoutTTL: store.DefaultTTL.String(),
		},
	}
}

// layoutKeys maps layout flag names onto config keys.
var layoutKeys = map[string]string{
	"iterations":        "layout.iterations",
	"cooling":           "layout.cooling",
	"cool-factor-x":     "layout.cool_factor_x",
	"cool-factor-y":     "layout.cool_factor_y",
	"ideal-edge-length": "layout.ideal_edge_length",
	"min-dist-cc":       "layout.min_dist_cc",
	"page-ratio":        "layout.page_ratio",
	"use-node-weight":   "layout.use_node_weight",
	"check-convergence": "layout.check_convergence",
	"conv-tolerance":    "layout.conv_tolerance",
	"noise":             "layout.noise",
	"kernel":            "layout.kernel",
	"workers":           "layout.workers",
}

// newViper returns a viper instance carrying the built-in defaults and the
// SPRINGEMBED_ environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	l := d.Layout
	for key, val := range map[string]any{
		"layout.iterations":        l.Iterations,
		"layout.cooling":           string(l.Cooling),
		"layout.cool_factor_x":     l.CoolFactorX,
		"layout.cool_factor_y":     l.CoolFactorY,
		"layout.ideal_edge_length": l.IdealEdgeLength,
		"layout.min_dist_cc":       l.MinDistCC,
		"layout.page_ratio":        l.PageRatio,
		"layout.use_node_weight":   l.UseNodeWeight,
		"layout.check_convergence": l.CheckConvergence,
		"layout.conv_tolerance":    l.ConvTolerance,
		"layout.noise":             l.Noise,
		"layout.kernel":            string(l.Kernel),
		"layout.workers":           l.Workers,
		"serve.addr":               d.Serve.Addr,
		"serve.redis_addr":         d.Serve.RedisAddr,
		"serve.cache_scope":        d.Serve.CacheScope,
		"serve.mongo_uri":          d.Serve.MongoURI,
		"serve.mongo_database":     d.Serve.MongoDB,
		"serve.layout_ttl":         d.Serve.LayoutTTL,
		"serve.no_cache":           d.Serve.NoCache,
	} {
		v.SetDefault(key, val)
	}
	return v
}

// configDir returns $XDG_CONFIG_HOME/springembed (or the platform equivalent).
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// configPath returns the file the CLI reads its configuration from.
func (c *CLI) configPath() (string, error) {
	if c.configFile != "" {
		return c.configFile, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}

// readConfig loads the config file into viper. A missing default file is
// fine; a missing file named with --config is not.
func (c *CLI) readConfig() error {
	path, err := c.configPath()
	if err != nil {
		c.Logger.Debug("no config directory", "error", err)
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && c.configFile == "" {
			return nil
		}
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if stderrors.As(err, &parseErr) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// bindFlags binds each named flag to its config key so that an explicitly
// set flag wins and an unset one falls through to env, file and defaults.
func (c *CLI) bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := c.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// config resolves the effective configuration and validates the layout
// options.
func (c *CLI) config() (Config, error) {
	var cfg Config
	if err := c.v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// addLayoutFlags registers the solver flags. Their defaults only document
// the built-in values; the effective values come from config().
func addLayoutFlags(flags *pflag.FlagSet) {
	d := spring.DefaultOptions()
	flags.Int("iterations", d.Iterations, "iteration budget per component")
	flags.String("cooling", string(d.Cooling), "cooling function: factor, logarithmic")
	flags.Float64("cool-factor-x", d.CoolFactorX, "x temperature multiplier (factor cooling)")
	flags.Float64("cool-factor-y", d.CoolFactorY, "y temperature multiplier (factor cooling)")
	flags.Float64("ideal-edge-length", d.IdealEdgeLength, "ideal edge length k")
	flags.Float64("min-dist-cc", d.MinDistCC, "minimum gap between connected components")
	flags.Float64("page-ratio", d.PageRatio, "target width/height ratio")
	flags.Bool("use-node-weight", d.UseNodeWeight, "scale repulsion by node weight")
	flags.Bool("check-convergence", d.CheckConvergence, "stop a component once it settles")
	flags.Float64("conv-tolerance", d.ConvTolerance, "convergence tolerance relative to k")
	flags.Bool("noise", d.Noise, "accepted for compatibility; has no effect")
	flags.String("kernel", string(spring.KernelAuto), "force kernel: auto, scalar, unrolled")
	flags.Int("workers", d.Workers, "worker goroutines for the unrolled kernel, capped at GOMAXPROCS (0 = GOMAXPROCS)")
}

// =============================================================================
// config command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}
			if err := writeConfigFile(path, DefaultConfig()); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func writeConfigFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
