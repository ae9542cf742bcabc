package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tsunami_usgs/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "TSUNAMI"

type Server struct {
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

type USGS struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

type Display struct {
	Timezone string `mapstructure:"timezone"` // IANA name; empty means local zone
	Console  bool   `mapstructure:"console"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

type Auth struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server  Server  `mapstructure:"server"`
	USGS    USGS    `mapstructure:"usgs"`
	Display Display `mapstructure:"display"`
	DB      DB      `mapstructure:"db"`
	Auth    Auth    `mapstructure:"auth"`
	Log     Log     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("usgs.connect_timeout", 1500*time.Millisecond)
	v.SetDefault("usgs.read_timeout", 1000*time.Millisecond)
	v.SetDefault("usgs.user_agent", "tsunami-usgs/1.0")

	v.SetDefault("display.timezone", "")
	v.SetDefault("display.console", true)

	v.SetDefault("db.path", ":memory:")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("log.level", "info")
}

// Loader owns the viper instance so the file can be watched after Load.
type Loader struct {
	v *viper.Viper
}

// NewLoader looks for config.yml in each of dirs. A missing file is not an
// error: defaults and TSUNAMI_* environment variables still apply.
func NewLoader(dirs ...string) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load reads the file (if any) and decodes the merged configuration.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch re-decodes the file on every change and passes the result to fn.
// Decode errors are handed to onErr and the previous config stays in effect.
func (l *Loader) Watch(fn func(Config), onErr func(error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		c, err := l.decode()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(c)
	})
	l.v.WatchConfig()
}

var (
	ErrInvalidTimeout  = errors.New("timeouts must be positive")
	ErrInvalidTimezone = errors.New("unknown display timezone")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

// Validate checks values that would otherwise fail late at runtime.
func (c Config) Validate() error {
	if c.USGS.ConnectTimeout <= 0 || c.USGS.ReadTimeout <= 0 {
		return fmt.Errorf("usgs: %w", ErrInvalidTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Log.Level != "" && !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// Location resolves display.timezone; empty selects time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, c.Display.Timezone, err)
	}
	return loc, nil
}
