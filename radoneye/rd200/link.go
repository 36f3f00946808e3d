package rd200

import (
	"context"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux/hci"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alepar/radoneye/radoneye"
)

// Client is the part of a ble.Client the read cycle needs.
type Client interface {
	DiscoverServices(filter []ble.UUID) ([]*ble.Service, error)
	DiscoverCharacteristics(filter []ble.UUID, s *ble.Service) ([]*ble.Characteristic, error)
	ReadCharacteristic(c *ble.Characteristic) ([]byte, error)
	WriteCharacteristic(c *ble.Characteristic, value []byte, noRsp bool) error
	CancelConnection() error
	Disconnected() <-chan struct{}
}

// Dialer opens a link to a peripheral.
type Dialer interface {
	Dial(ctx context.Context, addr radoneye.Address) (Client, error)
}

// DialDevice is implemented by linux.Device.
type DialDevice interface {
	Dial(ctx context.Context, a ble.Addr) (ble.Client, error)
}

type bleDialer struct {
	dev DialDevice
}

// NewDialer returns a Dialer connecting through dev. The RD200 advertises
// with a random static address, so the peer is dialled as such.
func NewDialer(dev DialDevice) Dialer {
	return &bleDialer{dev: dev}
}

func (d *bleDialer) Dial(ctx context.Context, addr radoneye.Address) (Client, error) {
	cln, err := d.dev.Dial(ctx, hci.RandomAddress{Addr: ble.NewAddr(addr.String())})
	if err != nil {
		return nil, err
	}
	return cln, nil
}

// session tracks a connected client until the peripheral reports the disconnect.
type session struct {
	Client
	done chan struct{}
	stop chan struct{}
	log  log.FieldLogger

	// log every service and the current value of each RD200 characteristic
	dump bool
}

func openSession(ctx context.Context, dialer Dialer, addr radoneye.Address, logger log.FieldLogger, dump bool) (*session, error) {
	logger.Debugf("connecting to device")
	cln, err := dialer.Dial(ctx, addr)
	if err != nil {
		return nil, radoneye.ConnectionError(err, "couldn't connect to ble")
	}
	logger.Debugf("connected")

	// Normally, the connection is disconnected by us after the read cycle.
	// However, it can be asynchronously disconnected by the remote peripheral.
	// So we wait(detect) the disconnection in the go routine.
	s := &session{Client: cln, done: make(chan struct{}), stop: make(chan struct{}), log: logger, dump: dump}
	go func() {
		select {
		case <-cln.Disconnected():
			logger.Debugf("device disconnected")
		case <-s.stop:
			// peripheral never confirmed the disconnect
		}
		close(s.done)
	}()
	return s, nil
}

func (s *session) close(timeout time.Duration) error {
	s.log.Debugf("closing connection")
	cancelErr := s.CancelConnection()

	select {
	case <-s.done:
	case <-time.After(timeout):
		close(s.stop)
		<-s.done
		return radoneye.ConnectionError(errors.Errorf("no disconnect after %s", timeout), "failed to close connection")
	}
	if cancelErr != nil {
		return radoneye.ConnectionError(cancelErr, "failed to close connection")
	}
	return nil
}
