package clientmqtt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"lightpong/internal/logger"
)

// ClientMQTT структура клиента MQTT.
type ClientMQTT struct {
	ctx       context.Context
	log       *logger.Log
	cfgClient MQTTConf
	client    mqtt.Client
	opts      *mqtt.ClientOptions

	mu     sync.Mutex
	topics map[string]Handler
}

// MQTTClient is a convenience interface to use within this application.
type MQTTClient interface {
	Publisher
	Subscriber
	Start(ctx context.Context) error
	Stop() error
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf) *ClientMQTT {
	if cfgClient.Schema == "" {
		cfgClient.Schema = "tcp"
	}
	if cfgClient.RetryInterval <= 0 {
		cfgClient.RetryInterval = 5 * time.Second
	}
	return &ClientMQTT{
		log:       log.Module("mqtt"),
		cfgClient: cfgClient,
		topics:    map[string]Handler{},
	}
}

// Start подключается к брокеру и ждет результата или отмены контекста.
func (c *ClientMQTT) Start(ctx context.Context) error {
	if c.log.GetLevel() == "debug" {
		mqtt.ERROR = log.New(os.Stdout, "[ERROR] ", 0)
		mqtt.CRITICAL = log.New(os.Stdout, "[CRIT] ", 0)
		mqtt.WARN = log.New(os.Stdout, "[WARN]  ", 0)
	}

	c.ctx = ctx

	c.opts = mqtt.NewClientOptions().
		AddBroker(c.brokerURL()).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetDefaultPublishHandler(c.messageHandler).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(false).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(c.cfgClient.RetryInterval).
		SetMaxReconnectInterval(c.cfgClient.RetryInterval).
		SetKeepAlive(30 * time.Second)

	c.client = mqtt.NewClient(c.opts)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}

	c.log.Infof("Status: %v", c.client.IsConnected())
	return nil
}

func (c *ClientMQTT) brokerURL() string {
	return fmt.Sprintf("%s://%s:%s", c.cfgClient.Schema, c.cfgClient.Host, c.cfgClient.Port)
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(500)
	}
	return nil
}

// connectHandler восстанавливает подписки после (пере)подключения.
func (c *ClientMQTT) connectHandler(_ mqtt.Client) {
	c.log.Info("client connected to server")
	c.mu.Lock()
	topics := make([]string, 0, len(c.topics))
	for t := range c.topics {
		topics = append(topics, t)
	}
	c.mu.Unlock()
	for _, t := range topics {
		c.sub(t)
	}
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.dispatch(msg.Topic(), msg.Payload())
}

func (c *ClientMQTT) dispatch(topic string, payload []byte) {
	c.log.Debugf("received message: %v from topic: %s", payload, topic)
	c.mu.Lock()
	h, ok := c.topics[topic]
	c.mu.Unlock()
	if !ok {
		c.log.Warnf("no handler for topic %s", topic)
		return
	}
	h(topic, payload)
}

// Subscribe регистрирует обработчик; подписка выполняется сразу, если клиент
// уже подключен, иначе в connectHandler.
func (c *ClientMQTT) Subscribe(topic string, h Handler) error {
	if h == nil {
		return errors.New("nil handler")
	}
	c.mu.Lock()
	c.topics[topic] = h
	c.mu.Unlock()
	if c.client != nil && c.client.IsConnected() {
		c.sub(topic)
	}
	return nil
}

func (c *ClientMQTT) sub(topic string) {
	token := c.client.Subscribe(topic, c.cfgClient.Qos, func(_ mqtt.Client, msg mqtt.Message) {
		c.dispatch(msg.Topic(), msg.Payload())
	})
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.Errorf("topic %s subscription error. %v", topic, token.Error())
				return
			}
		}
		c.log.Debugf("topic %s subscribed", topic)
	}()
}

// Publish отправляет сообщение без ожидания подтверждения.
func (c *ClientMQTT) Publish(topic string, payload []byte) error {
	if c.client == nil {
		return errors.New("mqtt client not started")
	}
	token := c.client.Publish(topic, c.cfgClient.Qos, false, payload)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.Errorf("error publish topic %s. %v", topic, token.Error())
			}
		}
	}()
	return nil
}
