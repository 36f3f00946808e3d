package rd200

import (
	"encoding/hex"

	"github.com/go-ble/ble"

	"github.com/alepar/radoneye/radoneye"
)

var (
	serviceUUID     = ble.MustParse("00001523-1212-efde-1523-785feabcd123")
	writeCharUUID   = ble.MustParse("00001524-1212-efde-1523-785feabcd123")
	readCharUUID    = ble.MustParse("00001525-1212-efde-1523-785feabcd123")
	triggerPayload  = []byte{0x50}
	characteristics = []ble.UUID{writeCharUUID, readCharUUID}
)

func (s *session) locateService() (*ble.Service, error) {
	s.log.Debugf("discovering services")
	filter := []ble.UUID{serviceUUID}
	if s.dump {
		filter = nil
	}
	services, err := s.DiscoverServices(filter)
	s.log.Debugf("finished discovering services")
	if err != nil {
		return nil, radoneye.ProtocolError(err, "couldn't discover services")
	}
	for _, svc := range services {
		s.log.Debugf("service %s", svc.UUID)
		if svc.UUID.Equal(serviceUUID) {
			return svc, nil
		}
	}
	return nil, radoneye.ProtocolError(radoneye.ErrServiceNotFound, "did not find radoneye service")
}

func (s *session) discoverCharacteristics(svc *ble.Service) ([]*ble.Characteristic, error) {
	s.log.Debugf("discovering characteristics")
	chars, err := s.DiscoverCharacteristics(characteristics, svc)
	s.log.Debugf("finished discovering characteristics")
	if err != nil {
		return nil, radoneye.ProtocolError(err, "couldn't discover characteristics")
	}
	for _, c := range chars {
		if !s.dump {
			s.log.Debugf("characteristic %s", c.UUID)
			continue
		}
		value, err := s.ReadCharacteristic(c)
		if err != nil {
			s.log.Debugf("characteristic %s: read failed: %s", c.UUID, err)
			continue
		}
		s.log.Debugf("characteristic %s = %s", c.UUID, hex.EncodeToString(value))
	}
	return chars, nil
}

func findCharacteristic(chars []*ble.Characteristic, u ble.UUID) (*ble.Characteristic, error) {
	for _, c := range chars {
		if c.UUID.Equal(u) {
			return c, nil
		}
	}
	return nil, radoneye.ProtocolError(radoneye.ErrCharacteristicNotFound, "did not find characteristic "+u.String())
}
