package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alepar/radoneye/radoneye"
	"github.com/alepar/radoneye/radoneye/output/mqtt"
	"github.com/alepar/radoneye/radoneye/rd200"
)

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// publish in the Home Assistant layout instead of EmonCMS
	HomeAssistant bool `yaml:"home_assistant"`
}

type Config struct {
	Scan      bool             `yaml:"scan"`
	Address   radoneye.Address `yaml:"address"`
	Becquerel bool             `yaml:"becquerel"`
	Verbose   bool             `yaml:"verbose"`
	Silent    bool             `yaml:"silent"`

	MQTT MQTTConfig `yaml:"mqtt"`

	Retries        int           `yaml:"retries"`
	RetryWait      time.Duration `yaml:"retry_wait"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ScanDuration   time.Duration `yaml:"scan_duration"`
	HCIDevice      int           `yaml:"hci_device"`
	PushGateway    string        `yaml:"push_gateway"`
}

func DefaultConfig() Config {
	return Config{
		MQTT:           MQTTConfig{Port: mqtt.DefaultPort},
		Retries:        radoneye.DefaultRetries,
		RetryWait:      radoneye.DefaultRetryWait,
		ConnectTimeout: rd200.DefaultConnectTimeout,
		ScanDuration:   rd200.DefaultScanDuration,
	}
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(cfg Config, path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError(errors.Wrap(err, "read config"))
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, configError(errors.Wrapf(err, "parse config %s", path))
	}
	return cfg, nil
}

// Validate normalizes the address and rejects combinations that would make a
// measurement run pointless. Errors are of kind radoneye.KindConfig.
func (c *Config) Validate() error {
	if c.Address != "" {
		addr, err := radoneye.ParseAddress(string(c.Address))
		if err != nil {
			return err
		}
		c.Address = addr
	}
	if !c.Scan && c.Address == "" {
		return configError(errors.New("bluetooth address is required unless scanning"))
	}
	if c.MQTT.Enabled && (c.MQTT.Server == "" || c.MQTT.Username == "" || c.MQTT.Password == "") {
		return configError(errors.New("mqtt requires server, username and password"))
	}
	if c.MQTT.Port <= 0 || c.MQTT.Port > 65535 {
		return configError(errors.Errorf("invalid mqtt port %d", c.MQTT.Port))
	}
	if c.Retries < 0 {
		return configError(errors.Errorf("retries must be >= 0, got %d", c.Retries))
	}
	if c.RetryWait < 0 || c.ConnectTimeout <= 0 || c.ScanDuration <= 0 {
		return configError(errors.New("durations must be positive"))
	}
	return nil
}

// Debug reports whether step by step protocol logging is wanted.
func (c Config) Debug() bool {
	return c.Verbose && !c.Silent
}

func (c Config) MQTTOutput() mqtt.Config {
	convention := mqtt.ConventionEmon
	if c.MQTT.HomeAssistant {
		convention = mqtt.ConventionHomeAssistant
	}
	return mqtt.Config{
		Server:     c.MQTT.Server,
		Port:       c.MQTT.Port,
		Username:   c.MQTT.Username,
		Password:   c.MQTT.Password,
		Convention: convention,
	}
}

func configError(err error) error {
	return &radoneye.Error{Kind: radoneye.KindConfig, Err: err}
}
