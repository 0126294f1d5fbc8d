// Package config loads the settings shared by the command line tools:
// where the plotter is, how to talk to it, the drawing envelope and the
// vectorization quality.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional config file (YAML, TOML or JSON), LINEUS_* environment
// variables (LINEUS_DEVICE_HOST for device.host) and command line flags.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/VarKun/lineus-plot/gcode"
	"github.com/VarKun/lineus-plot/lineus"
	"github.com/VarKun/lineus-plot/vectorize"
)

// EnvPrefix prefixes the environment variables Load reads.
const EnvPrefix = "LINEUS"

// Config is the result of Load.
type Config struct {
	Device      lineus.Config
	MDNSService string
	Envelope    gcode.Envelope
	Quality     vectorize.Quality
}

var defaults = map[string]interface{}{
	"device.host":            "line-us.local",
	"device.port":            1337,
	"device.greeting":        lineus.DefaultGreeting,
	"device.ack":             lineus.DefaultAck,
	"device.connect_timeout": lineus.DefaultConnectTimeout,
	"device.greet_timeout":   lineus.DefaultGreetTimeout,
	"device.ack_timeout":     time.Duration(0),
	"device.delay":           lineus.DefaultDelay,
	"device.mdns_service":    lineus.DefaultService,
	"envelope.preset":        "full",
	"quality":                vectorize.Medium.String(),
}

// Flags that Load picks up from the flag set, by flag name.
var flagKeys = map[string]string{
	"host":          "device.host",
	"port":          "device.port",
	"greet-timeout": "device.greet_timeout",
	"ack-timeout":   "device.ack_timeout",
	"delay":         "device.delay",
	"mdns-service":  "device.mdns_service",
	"envelope":      "envelope.preset",
	"quality":       "quality",
}

// Envelope keys that override single fields of the preset.
var envelopeKeys = []struct {
	key   string
	field func(*gcode.Envelope) *int
}{
	{"envelope.x_min", func(e *gcode.Envelope) *int { return &e.XMin }},
	{"envelope.x_max", func(e *gcode.Envelope) *int { return &e.XMax }},
	{"envelope.y_min", func(e *gcode.Envelope) *int { return &e.YMin }},
	{"envelope.y_max", func(e *gcode.Envelope) *int { return &e.YMax }},
	{"envelope.z_up", func(e *gcode.Envelope) *int { return &e.ZUp }},
	{"envelope.z_down", func(e *gcode.Envelope) *int { return &e.ZDown }},
	{"envelope.home_x", func(e *gcode.Envelope) *int { return &e.Home.X }},
	{"envelope.home_y", func(e *gcode.Envelope) *int { return &e.Home.Y }},
}

// Load reads the configuration. path names a config file, or is empty
// for none. Any flags in fs with the names in flagKeys take priority
// over the other sources when set on the command line; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only sees keys viper already knows about.
	for _, ek := range envelopeKeys {
		if err := v.BindEnv(ek.key); err != nil {
			return nil, err
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{MDNSService: v.GetString("device.mdns_service")}

	port := v.GetInt("device.port")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("config: device.port %d out of range", port)
	}
	cfg.Device = lineus.Config{
		Addr:           net.JoinHostPort(v.GetString("device.host"), strconv.Itoa(port)),
		Greeting:       v.GetString("device.greeting"),
		Ack:            v.GetString("device.ack"),
		ConnectTimeout: v.GetDuration("device.connect_timeout"),
		GreetTimeout:   v.GetDuration("device.greet_timeout"),
		AckTimeout:     v.GetDuration("device.ack_timeout"),
		Delay:          v.GetDuration("device.delay"),
	}

	preset := v.GetString("envelope.preset")
	env, ok := gcode.Envelopes[preset]
	if !ok {
		return nil, fmt.Errorf("config: %w: unknown preset %q", gcode.ErrBadEnvelope, preset)
	}
	for _, ek := range envelopeKeys {
		if v.IsSet(ek.key) {
			*ek.field(&env) = v.GetInt(ek.key)
		}
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Envelope = env

	q, err := vectorize.ParseQuality(v.GetString("quality"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Quality = q
	return cfg, nil
}
