package mqtt

import (
	"regexp"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alepar/radoneye/radoneye"
)

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeToken struct {
	mqtt.Token
	err error
}

func (t fakeToken) Wait() bool   { return true }
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	mqtt.Client
	err          error
	messages     []published
	disconnected uint
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return fakeToken{err: c.err}
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.disconnected = quiesce
}

var reading = radoneye.Measurement{
	Value:     12.345,
	Unit:      radoneye.PicoCuriesPerLiter,
	Address:   "AA:BB:CC:D7:21:A0",
	Timestamp: time.Now(),
}

func TestMessage(t *testing.T) {
	topic, payload, err := Message(reading, ConventionEmon)
	require.NoError(t, err)
	assert.Equal(t, "emon/RADONEYE/D7-21-A0", topic)
	assert.Equal(t, "12.345", string(payload))

	topic, payload, err = Message(reading, ConventionHomeAssistant)
	require.NoError(t, err)
	assert.Equal(t, "environment/RADONEYE/D7-21-A0", topic)
	assert.Equal(t, `{"radonvalue": "12.35"}`, string(payload))
}

func TestMessageBecquerel(t *testing.T) {
	bq := radoneye.Measurement{Value: 2, Unit: radoneye.PicoCuriesPerLiter, Address: "AA:BB:CC:D7:21:A0"}.Display(true)

	_, payload, err := Message(bq, ConventionEmon)
	require.NoError(t, err)
	assert.Equal(t, "74", string(payload))

	_, payload, err = Message(bq, ConventionHomeAssistant)
	require.NoError(t, err)
	assert.Equal(t, `{"radonvalue": "74.00"}`, string(payload))
}

func TestPublish(t *testing.T) {
	logger, _ := test.NewNullLogger()
	client := &fakeClient{}
	out := newMQTTOutput(client, Config{Convention: ConventionHomeAssistant}, logger)

	require.NoError(t, out.Publish(reading))
	require.NoError(t, out.Close())

	require.Len(t, client.messages, 1)
	assert.Equal(t, published{
		topic:   "environment/RADONEYE/D7-21-A0",
		qos:     1,
		payload: []byte(`{"radonvalue": "12.35"}`),
	}, client.messages[0])
	assert.Equal(t, uint(1000), client.disconnected)
}

func TestPublishError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	client := &fakeClient{err: errors.New("not connected")}
	out := newMQTTOutput(client, Config{DeliveryWait: 250 * time.Millisecond}, logger)

	err := out.Publish(reading)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emon/RADONEYE/D7-21-A0")

	require.NoError(t, out.Close())
	assert.Equal(t, uint(250), client.disconnected)
}

func TestClientID(t *testing.T) {
	re := regexp.MustCompile(`^RadonEye_[1-9][0-9]{3}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, re, ClientID())
	}
}

func TestBrokerURL(t *testing.T) {
	tests := []struct {
		server string
		port   int
		want   string
	}{
		{"broker.local", 1883, "tcp://broker.local:1883"},
		{"192.168.1.10", 0, "tcp://192.168.1.10:1883"},
		{"broker.local", 8883, "tcp://broker.local:8883"},
		{"tcp://broker.local", 1883, "tcp://broker.local:1883"},
		{"ssl://broker.local:8883", 1883, "ssl://broker.local:8883"},
		{"ws://broker.local:9001/mqtt", 1883, "ws://broker.local:9001/mqtt"},
	}
	for _, tt := range tests {
		got, err := BrokerURL(tt.server, tt.port)
		require.NoError(t, err, tt.server)
		assert.Equal(t, tt.want, got)
	}

	_, err := BrokerURL("tcp://", 1883)
	assert.Error(t, err)
}
