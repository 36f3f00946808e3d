package config

import (
	"github.com/urfave/cli"

	"github.com/alepar/radoneye/radoneye"
)

func init() {
	// -v is verbose; the built-in "version, v" flag would clash with it
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

var Flags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "YAML config file, flags override its values",
	},
	cli.BoolFlag{
		Name:  "scan, s",
		Usage: "Scan for bluetooth devices",
	},
	cli.StringFlag{
		Name:  "a",
		Usage: "Bluetooth Address (AA:BB:CC:DD:EE:FF format)",
	},
	cli.BoolFlag{
		Name:  "becquerel, b",
		Usage: "Display radon value in Becquerel (Bq/m³) unit",
	},
	cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "Verbose mode",
	},
	cli.BoolFlag{
		Name:  "silent",
		Usage: "Only output radon value (without unit and timestamp)",
	},
	cli.BoolFlag{
		Name:  "mqtt, m",
		Usage: "Enable send output to MQTT server",
	},
	cli.StringFlag{
		Name:  "ms",
		Usage: "MQTT server host, IP address or URL (tcp://, ssl://, ws://)",
	},
	cli.IntFlag{
		Name:  "mp",
		Usage: "MQTT server service port",
		Value: 1883,
	},
	cli.StringFlag{
		Name:  "mu",
		Usage: "MQTT server username",
	},
	cli.StringFlag{
		Name:  "mw",
		Usage: "MQTT server password",
	},
	cli.BoolFlag{
		Name:  "ma",
		Usage: "Enable Home Assistant MQTT output (Default: EmonCMS)",
	},
	cli.IntFlag{
		Name:  "retries",
		Usage: "Retries after a failed read",
		Value: radoneye.DefaultRetries,
	},
	cli.DurationFlag{
		Name:  "retry-wait",
		Usage: "Pause before each retry",
		Value: radoneye.DefaultRetryWait,
	},
	cli.DurationFlag{
		Name:  "connect-timeout",
		Usage: "Timeout for establishing the bluetooth connection",
		Value: DefaultConfig().ConnectTimeout,
	},
	cli.DurationFlag{
		Name:  "scan-duration",
		Usage: "How long to scan in scan mode",
		Value: DefaultConfig().ScanDuration,
	},
	cli.IntFlag{
		Name:  "device",
		Usage: "HCI device index",
	},
	cli.StringFlag{
		Name:  "push-gateway",
		Usage: "Prometheus Pushgateway URL to push the reading to",
	},
}

// FromContext builds the configuration from defaults, the optional config file
// and the command line, in increasing order of precedence, and validates it.
func FromContext(c *cli.Context) (Config, error) {
	cfg := DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = LoadFile(cfg, path); err != nil {
			return cfg, err
		}
	}

	cfg.Scan = cfg.Scan || c.Bool("scan")
	cfg.Becquerel = cfg.Becquerel || c.Bool("becquerel")
	cfg.Verbose = cfg.Verbose || c.Bool("verbose")
	cfg.Silent = cfg.Silent || c.Bool("silent")
	cfg.MQTT.Enabled = cfg.MQTT.Enabled || c.Bool("mqtt")
	cfg.MQTT.HomeAssistant = cfg.MQTT.HomeAssistant || c.Bool("ma")

	if v := c.String("a"); v != "" {
		cfg.Address = radoneye.Address(v)
	}
	if v := c.String("ms"); v != "" {
		cfg.MQTT.Server = v
	}
	if v := c.String("mu"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := c.String("mw"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := c.String("push-gateway"); v != "" {
		cfg.PushGateway = v
	}
	if c.IsSet("mp") {
		cfg.MQTT.Port = c.Int("mp")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("retry-wait") {
		cfg.RetryWait = c.Duration("retry-wait")
	}
	if c.IsSet("connect-timeout") {
		cfg.ConnectTimeout = c.Duration("connect-timeout")
	}
	if c.IsSet("scan-duration") {
		cfg.ScanDuration = c.Duration("scan-duration")
	}
	if c.IsSet("device") {
		cfg.HCIDevice = c.Int("device")
	}

	return cfg, cfg.Validate()
}
