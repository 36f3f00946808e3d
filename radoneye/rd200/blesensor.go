package rd200

import (
	"context"
	"encoding/hex"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alepar/radoneye/radoneye"
)

const (
	DefaultConnectTimeout    = 10 * time.Second
	DefaultDisconnectTimeout = 5 * time.Second
)

// BleSensor reads a RadonEye RD200 over a fresh BLE connection per Receive call.
type BleSensor struct {
	Addr              radoneye.Address
	Dialer            Dialer
	ConnectTimeout    time.Duration
	DisconnectTimeout time.Duration
	Log               log.FieldLogger
	Now               func() time.Time

	// Dump logs all services and characteristic values at debug level
	Dump bool
}

func NewBleSensor(addr radoneye.Address, dialer Dialer, logger log.FieldLogger) *BleSensor {
	return &BleSensor{
		Addr:              addr,
		Dialer:            dialer,
		ConnectTimeout:    DefaultConnectTimeout,
		DisconnectTimeout: DefaultDisconnectTimeout,
		Log:               logger,
		Now:               time.Now,
	}
}

func (sensor *BleSensor) Address() radoneye.Address {
	return sensor.Addr
}

func (sensor *BleSensor) Receive(ctx context.Context) (radoneye.Measurement, error) {
	var base log.FieldLogger = log.StandardLogger()
	if sensor.Log != nil {
		base = sensor.Log
	}
	logger := base.WithField("address", sensor.Addr)

	dialCtx, cancel := context.WithTimeout(ctx, sensor.ConnectTimeout)
	defer cancel()
	s, err := openSession(dialCtx, sensor.Dialer, sensor.Addr, logger, sensor.Dump)
	if err != nil {
		return radoneye.Measurement{}, err
	}
	// close failures never discard a reading, they are only reported
	defer func() {
		if err := s.close(sensor.DisconnectTimeout); err != nil {
			logger.Warnf("%s", err)
		}
	}()

	value, err := s.measure()
	if err != nil {
		return radoneye.Measurement{}, err
	}

	return radoneye.Measurement{
		Value:     float64(value),
		Unit:      radoneye.PicoCuriesPerLiter,
		Address:   sensor.Addr,
		Timestamp: sensor.Now(),
	}, nil
}

func (s *session) measure() (float32, error) {
	svc, err := s.locateService()
	if err != nil {
		return 0, err
	}
	chars, err := s.discoverCharacteristics(svc)
	if err != nil {
		return 0, err
	}

	w, err := findCharacteristic(chars, writeCharUUID)
	if err != nil {
		return 0, err
	}
	s.log.Debugf("writing trigger")
	if err := s.WriteCharacteristic(w, triggerPayload, false); err != nil {
		return 0, radoneye.ProtocolError(err, "failed to write trigger")
	}

	r, err := findCharacteristic(chars, readCharUUID)
	if err != nil {
		return 0, err
	}
	s.log.Debugf("reading characteristic")
	raw, err := s.ReadCharacteristic(r)
	s.log.Debugf("finished reading characteristic")
	if err != nil {
		return 0, radoneye.ProtocolError(err, "failed to read characteristic value")
	}
	s.log.Debugf("raw response %s", hex.EncodeToString(raw))

	value, err := DecodeResponse(raw)
	if err != nil {
		return 0, err
	}
	if err := checkPlausible(value); err != nil {
		return 0, err
	}
	return value, nil
}
