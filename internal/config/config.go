package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	RunAddress   string
	FixturesPath string
	Log          LogConfig
	Actor        ActorConfig
	Orders       OrdersConfig
	Simulator    SimulatorConfig
	HTTP         HTTPConfig
	Stats        StatsConfig
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// ActorConfig controls how the acting manager is identified on requests.
type ActorConfig struct {
	Secret  string // HS256 key for actor tokens
	Default string // identity used when a request carries no token
}

type OrdersConfig struct {
	NumberPrefix string
}

type SimulatorConfig struct {
	Interval time.Duration // 0 disables the location simulator
	MaxStep  float64       // largest per-tick move, in degrees
}

type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
}

type StatsConfig struct {
	Timezone string
	Location *time.Location
}

const envPrefix = "COURIER"

// DefaultActorSecret signs actor tokens when none is configured. Anyone who
// knows it can mint any identity.
const DefaultActorSecret = "dev-actor-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("run_address", "localhost:8080")
	v.SetDefault("fixtures.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("actor.secret", DefaultActorSecret)
	v.SetDefault("actor.default", "Manager")
	v.SetDefault("orders.number_prefix", "LK-2024-")
	v.SetDefault("simulator.interval", 10*time.Second)
	v.SetDefault("simulator.max_step", 0.0005)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.cors_allowed_origins", []string{"*"})
	v.SetDefault("stats.timezone", "Asia/Kolkata")
}

// Load reads configuration. Priority, highest first: command-line flags,
// COURIER_* environment variables, courierdesk.yaml, built-in defaults.
func Load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	fs := pflag.NewFlagSet("courierdesk", pflag.ContinueOnError)
	fs.StringP("address", "a", "", "server address and port")
	fs.StringP("fixtures", "f", "", "seed fixtures file (default: embedded)")
	fs.StringP("log-level", "l", "", "log level: debug, info, warn, error")
	fs.StringP("config", "c", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	for key, flag := range map[string]string{
		"run_address":   "address",
		"fixtures.path": "fixtures",
		"log.level":     "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("courierdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/courierdesk")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		RunAddress:   v.GetString("run_address"),
		FixturesPath: v.GetString("fixtures.path"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Actor: ActorConfig{
			Secret:  v.GetString("actor.secret"),
			Default: v.GetString("actor.default"),
		},
		Orders: OrdersConfig{
			NumberPrefix: v.GetString("orders.number_prefix"),
		},
		Simulator: SimulatorConfig{
			Interval: v.GetDuration("simulator.interval"),
			MaxStep:  v.GetFloat64("simulator.max_step"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:        v.GetDuration("http.read_timeout"),
			WriteTimeout:       v.GetDuration("http.write_timeout"),
			CORSAllowedOrigins: splitList(v.GetStringSlice("http.cors_allowed_origins")),
		},
		Stats: StatsConfig{
			Timezone: v.GetString("stats.timezone"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.RunAddress) == "" {
		return errors.New("run_address must not be empty")
	}
	if strings.TrimSpace(c.Actor.Default) == "" {
		return errors.New("actor.default must not be empty")
	}
	if c.Simulator.Interval < 0 {
		return errors.New("simulator.interval must not be negative")
	}
	loc, err := time.LoadLocation(c.Stats.Timezone)
	if err != nil {
		return fmt.Errorf("stats.timezone: %w", err)
	}
	c.Stats.Location = loc
	return nil
}

// splitList accepts both list values and a single comma-separated string, the
// form environment variables arrive in.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// UsesDefaultSecret reports whether actor tokens are signed with the built-in
// development key.
func (a ActorConfig) UsesDefaultSecret() bool {
	return a.Secret == DefaultActorSecret
}

// String masks the actor secret.
func (c *Config) String() string {
	return fmt.Sprintf("Config{addr: %s, log: %s/%s, fixtures: %q, simulator: %s, actor: %s, secret: ***}",
		c.RunAddress, c.Log.Level, c.Log.Format, c.FixturesPath, c.Simulator.Interval, c.Actor.Default)
}
