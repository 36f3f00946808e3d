package mqtt

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alepar/radoneye/radoneye"
	"github.com/alepar/radoneye/radoneye/output"
)

const (
	DefaultPort         = 1883
	DefaultDeliveryWait = time.Second
	clientIDPrefix      = "RadonEye_"
	emonTopicFmt        = "emon/RADONEYE/%s"
	homeAssistantFmt    = "environment/RADONEYE/%s"
	keyRadonValue       = "radonvalue"
	qosAtLeastOnce      = 1
)

// Convention selects the topic and payload layout.
type Convention int

const (
	// EmonCMS: raw number on emon/RADONEYE/<key>
	ConventionEmon Convention = iota
	// Home Assistant: {"radonvalue": "x.xx"} on environment/RADONEYE/<key>
	ConventionHomeAssistant
)

func (c Convention) String() string {
	if c == ConventionHomeAssistant {
		return "Home Assistant"
	}
	return "EmonCMS"
}

type Config struct {
	Server     string
	Port       int
	Username   string
	Password   string
	Convention Convention

	// how long to let in-flight messages drain before disconnecting
	DeliveryWait time.Duration
}

type MQTTOutput struct {
	client     mqtt.Client
	convention Convention
	wait       time.Duration
	log        log.FieldLogger
}

// NewMQTT connects to the broker with a per-run client id.
func NewMQTT(cfg Config, logger log.FieldLogger) (output.Output, error) {
	broker, err := BrokerURL(cfg.Server, cfg.Port)
	if err != nil {
		return nil, err
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(ClientID()).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password)
	client := mqtt.NewClient(opts)

	logger.Debugf("connecting to mqtt server %s as %s", broker, cfg.Username)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, errors.Wrap(token.Error(), "mqtt connect")
	}
	return newMQTTOutput(client, cfg, logger), nil
}

func newMQTTOutput(client mqtt.Client, cfg Config, logger log.FieldLogger) *MQTTOutput {
	wait := cfg.DeliveryWait
	if wait == 0 {
		wait = DefaultDeliveryWait
	}
	return &MQTTOutput{client: client, convention: cfg.Convention, wait: wait, log: logger}
}

func (m *MQTTOutput) Publish(r radoneye.Measurement) error {
	topic, payload, err := Message(r, m.convention)
	if err != nil {
		return err
	}
	m.log.Debugf("publishing %s to %s (%s)", payload, topic, m.convention)

	token := m.client.Publish(topic, qosAtLeastOnce, false, payload)
	token.Wait()
	if token.Error() != nil {
		return errors.Wrapf(token.Error(), "mqtt publish to %s", topic)
	}
	return nil
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(uint(m.wait / time.Millisecond))
	}
	return nil
}

// BrokerURL accepts a bare host or IP, or a URL such as ssl://host:8883. The
// port is only added when server does not carry one.
func BrokerURL(server string, port int) (string, error) {
	if port == 0 {
		port = DefaultPort
	}
	if !strings.Contains(server, "://") {
		return fmt.Sprintf("tcp://%s", net.JoinHostPort(server, strconv.Itoa(port))), nil
	}
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", errors.Errorf("invalid mqtt server %q", server)
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	}
	return u.String(), nil
}

// Message builds the topic and payload for a measurement already in its display unit.
func Message(r radoneye.Measurement, convention Convention) (string, []byte, error) {
	key := r.Address.Key()
	switch convention {
	case ConventionHomeAssistant:
		value, err := json.Marshal(fmt.Sprintf("%0.2f", r.Value))
		if err != nil {
			return "", nil, err
		}
		payload := fmt.Sprintf(`{"%s": %s}`, keyRadonValue, value)
		return fmt.Sprintf(homeAssistantFmt, key), []byte(payload), nil
	default:
		return fmt.Sprintf(emonTopicFmt, key), []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
	}
}

// ClientID returns the fixed prefix followed by a random four digit suffix.
func ClientID() string {
	return clientIDPrefix + strconv.Itoa(1000+rand.Intn(9000))
}
