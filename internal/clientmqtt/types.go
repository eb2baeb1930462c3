package clientmqtt

import "time"

type MQTTConf struct {
	ClientID      string        // ClientID - уникальное имя клиента для брокеров.
	Schema        string        // Schema - тип подключения.
	Host          string        // Host - адрес MQTT сервера.
	Port          string        // Port - порт MQTT сервера.
	User          string        // User - логин для подключения к MQTT серверу.
	Password      string        // Password - пароль для подключения к MQTT серверу.
	Qos           byte          // Qos - качество обслуживания.
	RetryInterval time.Duration // RetryInterval - пауза между попытками подключения.
}

// Handler receives the payload of a message on a subscribed topic.
type Handler func(topic string, payload []byte)

// Publisher sends payloads to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Subscriber registers topic handlers.
type Subscriber interface {
	Subscribe(topic string, h Handler) error
}
