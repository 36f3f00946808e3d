package rd200

import (
	"context"
	"encoding/binary"
	"math"
	"sync"

	"github.com/go-ble/ble"

	"github.com/alepar/radoneye/radoneye"
)

type fakeClient struct {
	services    []*ble.Service
	chars       []*ble.Characteristic
	discoverErr error
	writeErr    error
	readErr     error
	cancelErr   error
	response    []byte

	// when set, CancelConnection does not report a disconnect
	stuck bool

	serviceFilter []ble.UUID
	written       [][]byte
	reads         int
	cancelled     bool
	once          sync.Once
	disconnected  chan struct{}
}

func newFakeClient(response []byte) *fakeClient {
	return &fakeClient{
		services:     []*ble.Service{{UUID: serviceUUID}},
		chars:        []*ble.Characteristic{{UUID: writeCharUUID}, {UUID: readCharUUID}},
		response:     response,
		disconnected: make(chan struct{}),
	}
}

func (c *fakeClient) DiscoverServices(filter []ble.UUID) ([]*ble.Service, error) {
	c.serviceFilter = filter
	return c.services, c.discoverErr
}

func (c *fakeClient) DiscoverCharacteristics(filter []ble.UUID, s *ble.Service) ([]*ble.Characteristic, error) {
	return c.chars, nil
}

func (c *fakeClient) ReadCharacteristic(ch *ble.Characteristic) ([]byte, error) {
	c.reads++
	return c.response, c.readErr
}

func (c *fakeClient) WriteCharacteristic(ch *ble.Characteristic, value []byte, noRsp bool) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, append([]byte(nil), value...))
	return nil
}

func (c *fakeClient) CancelConnection() error {
	c.cancelled = true
	if !c.stuck {
		c.once.Do(func() { close(c.disconnected) })
	}
	return c.cancelErr
}

func (c *fakeClient) Disconnected() <-chan struct{} {
	return c.disconnected
}

type fakeDialer struct {
	client *fakeClient
	err    error
	calls  int
}

func (d *fakeDialer) Dial(ctx context.Context, addr radoneye.Address) (Client, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.client, nil
}

// response builds a read characteristic value carrying v at offset 2.
func response(v float32) []byte {
	b := []byte{0x50, 0x0a, 0, 0, 0, 0, 0x11, 0x22}
	binary.LittleEndian.PutUint32(b[2:6], math.Float32bits(v))
	return b
}
