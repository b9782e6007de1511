// Package config loads indmath settings from defaults, an optional YAML
// file, INDMATH_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/indmath/eoq"
	"github.com/njchilds90/indmath/internal/logging"
	"github.com/njchilds90/indmath/lp"
	"github.com/njchilds90/indmath/partial"
	"github.com/njchilds90/indmath/queue"
)

// EnvPrefix prefixes every environment override, e.g. INDMATH_SERVER_ADDR.
const EnvPrefix = "INDMATH"

// Config is the effective configuration.
type Config struct {
	Server  Server          `mapstructure:"server" yaml:"server"`
	Log     logging.Options `mapstructure:"log" yaml:"log"`
	Display Display         `mapstructure:"display" yaml:"display"`
	Plot    Plot            `mapstructure:"plot" yaml:"plot"`
	Tabs    Tabs            `mapstructure:"tabs" yaml:"tabs"`
}

// Server configures the HTTP tool surface.
type Server struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// MaxBodyBytes caps the size of a POST /tool request.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Display configures number formatting.
type Display struct {
	Locale   string `mapstructure:"locale" yaml:"locale"`
	Currency string `mapstructure:"currency" yaml:"currency"`
}

// Plot configures the LP chart. Sizes are in inches.
type Plot struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
	Format string  `mapstructure:"format" yaml:"format"`
}

// Tabs holds the inputs each tab opens with.
type Tabs struct {
	LP      LPDefaults      `mapstructure:"lp" yaml:"lp"`
	EOQ     EOQDefaults     `mapstructure:"eoq" yaml:"eoq"`
	MM1     MM1Defaults     `mapstructure:"mm1" yaml:"mm1"`
	Partial PartialDefaults `mapstructure:"partial" yaml:"partial"`
}

type LPDefaults struct {
	C1 float64 `mapstructure:"c1" yaml:"c1"`
	C2 float64 `mapstructure:"c2" yaml:"c2"`
	Y2 float64 `mapstructure:"y2" yaml:"y2"`
	X3 float64 `mapstructure:"x3" yaml:"x3"`
}

// Input converts the defaults into an lp.Input.
func (d LPDefaults) Input() lp.Input {
	return lp.Input{Objective: lp.Objective{C1: d.C1, C2: d.C2}, Y2: d.Y2, X3: d.X3}
}

type EOQDefaults struct {
	Demand       float64 `mapstructure:"demand" yaml:"demand"`
	OrderingCost float64 `mapstructure:"ordering_cost" yaml:"ordering_cost"`
	HoldingCost  float64 `mapstructure:"holding_cost" yaml:"holding_cost"`
}

func (d EOQDefaults) Params() eoq.Params {
	return eoq.Params{Demand: d.Demand, OrderingCost: d.OrderingCost, HoldingCost: d.HoldingCost}
}

type MM1Defaults struct {
	ArrivalRate float64 `mapstructure:"arrival_rate" yaml:"arrival_rate"`
	ServiceRate float64 `mapstructure:"service_rate" yaml:"service_rate"`
}

func (d MM1Defaults) Params() queue.Params {
	return queue.Params{ArrivalRate: d.ArrivalRate, ServiceRate: d.ServiceRate}
}

type PartialDefaults struct {
	Function string `mapstructure:"function" yaml:"function"`
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", int64(1<<20))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("display.locale", "en")
	v.SetDefault("display.currency", "Rp")

	v.SetDefault("plot.width", 6.0)
	v.SetDefault("plot.height", 4.0)
	v.SetDefault("plot.format", "svg")

	in := lp.DefaultInput()
	v.SetDefault("tabs.lp.c1", in.C1)
	v.SetDefault("tabs.lp.c2", in.C2)
	v.SetDefault("tabs.lp.y2", in.Y2)
	v.SetDefault("tabs.lp.x3", in.X3)

	ep := eoq.DefaultParams()
	v.SetDefault("tabs.eoq.demand", ep.Demand)
	v.SetDefault("tabs.eoq.ordering_cost", ep.OrderingCost)
	v.SetDefault("tabs.eoq.holding_cost", ep.HoldingCost)

	qp := queue.DefaultParams()
	v.SetDefault("tabs.mm1.arrival_rate", qp.ArrivalRate)
	v.SetDefault("tabs.mm1.service_rate", qp.ServiceRate)

	v.SetDefault("tabs.partial.function", partial.DefaultFunction)
}

// BindFlags registers the global flags on fs and binds them to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("config", "", "path to a YAML config file")
	fs.String("log-level", "info", "log level: trace, debug, info, warn or error")
	fs.String("log-format", "json", "log encoding: json or console")
	fs.String("currency", "Rp", "currency symbol for profit values")
	fs.String("locale", "en", "BCP 47 locale used for digit grouping")

	bindings := map[string]string{
		"config":           "config",
		"log.level":        "log-level",
		"log.format":       "log-format",
		"display.currency": "currency",
		"display.locale":   "locale",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	return v
}

// Load reads the config file named by the "config" key, if any, and
// decodes the result.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with nothing overridden.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Decoding the registered defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if !(c.Plot.Width > 0 && c.Plot.Height > 0) {
		errs = append(errs, errors.New("plot.width and plot.height must be positive"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Dump writes cfg as YAML.
func Dump(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
