package clientmqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lightpong/internal/logger"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(logger.Discard(), MQTTConf{Host: "broker", Port: "1883"})
	assert.Equal(t, "tcp://broker:1883", c.brokerURL())
	assert.Equal(t, 5*time.Second, c.cfgClient.RetryInterval)
}

func TestSubscribeBeforeStartDispatches(t *testing.T) {
	c := NewClient(logger.Discard(), MQTTConf{})

	var got []byte
	require.NoError(t, c.Subscribe("lightpong/paddle", func(topic string, payload []byte) {
		assert.Equal(t, "lightpong/paddle", topic)
		got = payload
	}))

	c.dispatch("lightpong/paddle", []byte{1, 0, 1})
	assert.Equal(t, []byte{1, 0, 1}, got)

	// unknown topics are dropped
	assert.NotPanics(t, func() { c.dispatch("other", []byte{9}) })
}

func TestSubscribeNilHandler(t *testing.T) {
	c := NewClient(logger.Discard(), MQTTConf{})
	require.Error(t, c.Subscribe("x", nil))
}

func TestPublishBeforeStart(t *testing.T) {
	c := NewClient(logger.Discard(), MQTTConf{})
	require.Error(t, c.Publish("lightpong/score", []byte{0, 0}))
}
