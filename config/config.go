// Package config loads the settings a game server needs to reach its
// Controller Service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/anthillplatform/gameserver-go/pkg"
	"github.com/anthillplatform/gameserver-go/transport"
)

type Config struct {
	// Socket is the local address the Controller Service listens on. The
	// Controller Service passes it as the first argument of the process.
	Socket        string         `env:"GAMESERVER_CONTROLLER_SOCKET"`
	Transport     transport.Kind `env:"GAMESERVER_CONTROLLER_TRANSPORT"`
	ReceiveBuffer int            `env:"GAMESERVER_RECEIVE_BUFFER"`
	SendBuffer    int            `env:"GAMESERVER_SEND_BUFFER"`
	WriteTimeout  time.Duration  `env:"GAMESERVER_WRITE_TIMEOUT"`
	DialTimeout   time.Duration  `env:"GAMESERVER_DIAL_TIMEOUT"`
	LogLevel      string         `env:"GAMESERVER_LOG_LEVEL"`
}

func Default() Config {
	return Config{
		Transport:     transport.KindZMQ,
		ReceiveBuffer: 256,
		SendBuffer:    64,
		WriteTimeout:  100 * time.Millisecond,
		DialTimeout:   5 * time.Second,
		LogLevel:      "info",
	}
}

type fileConfig struct {
	Socket        string `toml:"socket"`
	Transport     string `toml:"transport"`
	ReceiveBuffer int    `toml:"receive_buffer"`
	SendBuffer    int    `toml:"send_buffer"`
	WriteTimeout  string `toml:"write_timeout"`
	DialTimeout   string `toml:"dial_timeout"`
	LogLevel      string `toml:"log_level"`
}

// Load reads a TOML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load gameserver config: %w", err)
	}

	if meta.IsDefined("socket") {
		cfg.Socket = strings.TrimSpace(raw.Socket)
	}

	if meta.IsDefined("transport") {
		cfg.Transport = transport.Kind(strings.ToLower(strings.TrimSpace(raw.Transport)))
	}

	if meta.IsDefined("receive_buffer") {
		cfg.ReceiveBuffer = raw.ReceiveBuffer
	}

	if meta.IsDefined("send_buffer") {
		cfg.SendBuffer = raw.SendBuffer
	}

	if meta.IsDefined("write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WriteTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse write_timeout: %w", err)
		}
		cfg.WriteTimeout = d
	}

	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with any GAMESERVER_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Socket) == "" {
		errs = append(errs, errors.New("controller socket is required"))
	}
	switch c.Transport {
	case transport.KindZMQ, transport.KindUnix:
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if c.ReceiveBuffer <= 0 {
		errs = append(errs, fmt.Errorf("receive_buffer must be positive, got %d", c.ReceiveBuffer))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer))
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("write_timeout must not be negative, got %s", c.WriteTimeout))
	}
	if _, err := pkg.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Logger builds the logger selected by LogLevel.
func (c Config) Logger() pkg.Logger {
	level, err := pkg.ParseLogLevel(c.LogLevel)
	if err != nil {
		return pkg.DefaultLogger
	}
	return pkg.NewLogger(level)
}

// ChannelOptions translates the channel settings into transport options.
func (c Config) ChannelOptions(logger pkg.Logger) []transport.ChannelOption {
	return []transport.ChannelOption{
		transport.WithChannelOptionLogger(logger),
		transport.WithChannelOptionReceiveBuffer(c.ReceiveBuffer),
		transport.WithChannelOptionSendBuffer(c.SendBuffer),
		transport.WithChannelOptionWriteTimeout(c.WriteTimeout),
	}
}
