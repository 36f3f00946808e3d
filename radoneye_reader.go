package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/alepar/radoneye/config"
	"github.com/alepar/radoneye/radoneye"
	"github.com/alepar/radoneye/radoneye/metrics"
	"github.com/alepar/radoneye/radoneye/output"
	"github.com/alepar/radoneye/radoneye/output/console"
	"github.com/alepar/radoneye/radoneye/output/mqtt"
	"github.com/alepar/radoneye/radoneye/rd200"
)

const appName = "radoneye"

func init() {
	//logging
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.Print(appName))
	}

	app := cli.NewApp()
	app.Name = appName
	app.Usage = "RadonEye RD200 (Bluetooth/BLE) Reader"
	app.Version = version.Version
	app.Flags = config.Flags
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		log.Errorf("%s", err)
		return cli.ShowAppHelp(c)
	}
	if cfg.Debug() {
		log.SetLevel(log.DebugLevel)
	}

	// open BLE
	d, err := linux.NewDevice(ble.OptDeviceID(cfg.HCIDevice), ble.OptDialerTimeout(cfg.ConnectTimeout))
	if err != nil {
		log.Errorf("failed to open ble: %s", err)
		return nil
	}
	defer d.Stop()

	ctx := ble.WithSigHandler(context.WithCancel(context.Background()))
	if cfg.Scan {
		scan(ctx, cfg, d)
		return nil
	}
	measure(ctx, cfg, d)
	return nil
}

func scan(ctx context.Context, cfg config.Config, d *linux.Device) {
	var scanner radoneye.Scanner = &rd200.BleScanner{
		Device:       d,
		ScanDuration: cfg.ScanDuration,
		Log:          log.StandardLogger(),
	}
	if err := console.NewScanReporter(os.Stdout).Report(scanner.Scan(ctx)); err != nil {
		log.Errorf("failed to scan for sensors: %s", err)
	}
}

func measure(ctx context.Context, cfg config.Config, d *linux.Device) {
	logger := log.StandardLogger()
	run := metrics.NewRun()

	bleSensor := rd200.NewBleSensor(cfg.Address, rd200.NewDialer(d), logger)
	bleSensor.ConnectTimeout = cfg.ConnectTimeout
	bleSensor.Dump = cfg.Debug()
	sensor := radoneye.NewRetryingSensor(bleSensor, logger)
	sensor.Retries = cfg.Retries
	sensor.Wait = cfg.RetryWait
	sensor.OnFailure = run.AttemptFailed

	m, err := sensor.Receive(ctx)
	if err != nil {
		log.Errorf("failed to read from sensor %s: %s", cfg.Address, err)
		pushMetrics(cfg, run)
		return
	}
	run.Succeeded(m)
	m = m.Display(cfg.Becquerel)

	outputs := []output.Output{console.NewConsole(os.Stdout, cfg.Silent)}
	if cfg.MQTT.Enabled {
		log.Debugf("sending to mqtt...")
		out, err := mqtt.NewMQTT(cfg.MQTTOutput(), logger)
		if err != nil {
			log.Errorf("failed to connect to mqtt server %s: %s", cfg.MQTT.Server, err)
		} else {
			outputs = append(outputs, out)
		}
	}
	for _, out := range outputs {
		if err := out.Publish(m); err != nil {
			log.Errorf("failed to publish reading: %s", err)
		}
		_ = out.Close()
	}

	pushMetrics(cfg, run)
}

func pushMetrics(cfg config.Config, run *metrics.Run) {
	if cfg.PushGateway == "" {
		return
	}
	if err := run.Push(cfg.PushGateway, cfg.Address); err != nil {
		log.Errorf("%s", err)
	}
}
