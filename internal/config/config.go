package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Режимы узла и выходы DMX.
const (
	ModePong      = "pong"
	ModeHeadlight = "headlight"
	ModeDemo      = "demo"

	OutputSerial = "serial"
	OutputArtNet = "artnet"

	ModelMHX25     = "mh-x25"
	ModelMHX25Ext  = "mh-x25-12ch"
	ModelHeadlight = "headlight"
)

// Config структура конфигурации.
type Config struct {
	Mode      string        `toml:"mode"` // Mode - режим узла: pong, headlight, demo.
	Logger    LogConf                     // Logger - конфигурация регистратора.
	MQTT      MQTTConf                    // MQTT - конфигурация MQTT клиента.
	DMX       DMXConf                     // DMX - конфигурация линии DMX512.
	Fixture   FixtureConf                 // Fixture - прибор на линии.
	Game      GameConf                    // Game - параметры игры.
	Headlight HeadlightConf               // Headlight - параметры узла headlight.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level string `toml:"log-level"` // Level - уровень логирования.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID       string   `toml:"clientID"`        // ClientID - имя клиента.
	Schema         string   `toml:"schema"`          // Schema - тип подключения.
	Host           string   `toml:"server"`          // Host - адрес MQTT сервера.
	Port           string   `toml:"port"`            // Port - порт MQTT сервера.
	User           string   `toml:"user"`            // User - логин для подключения к MQTT серверу.
	Password       string   `toml:"password"`        // Password - пароль для подключения к MQTT серверу.
	Qos            byte     `toml:"qos"`             // Qos - качество обслуживания.
	RetryInterval  Duration `toml:"retry-interval"`  // RetryInterval - пауза между попытками подключения.
	PaddleTopic    string   `toml:"paddle-topic"`    // PaddleTopic - входящие сообщения ракеток.
	ScoreTopic     string   `toml:"score-topic"`     // ScoreTopic - рассылка счета.
	HeadlightTopic string   `toml:"headlight-topic"` // HeadlightTopic - префикс команд headlight.
}

// DMXConf структура конфигурации.
type DMXConf struct {
	Output    string     `toml:"output"`     // Output - serial или artnet.
	Device    string     `toml:"device"`     // Device - последовательный порт, например /dev/ttyUSB0.
	DEPin     string     `toml:"de-pin"`     // DEPin - вывод RS-485 driver enable, пусто если адаптер сам.
	Baud      int        `toml:"baud"`       // Baud - скорость, по умолчанию 250000.
	Channels  int        `toml:"channels"`   // Channels - количество отправляемых каналов.
	RefreshHz int        `toml:"refresh-hz"` // RefreshHz - частота повтора кадров.
	Break     Duration   `toml:"break"`      // Break - длительность break (>= 88us).
	MAB       Duration   `toml:"mab"`        // MAB - mark after break (>= 12us).
	ArtNet    ArtNetConf `toml:"artnet"`
}

// ArtNetConf структура конфигурации.
type ArtNetConf struct {
	Network  string `toml:"network"`  // Network - CIDR сети art-net.
	Universe uint16 `toml:"universe"` // Universe: старший байт - Net, младший байт - SubUni.
	MaxFPS   int    `toml:"max-fps"`
}

// FixtureConf структура конфигурации.
type FixtureConf struct {
	Model        string `toml:"model"`         // Model - mh-x25, mh-x25-12ch, headlight.
	StartChannel uint16 `toml:"start-channel"` // StartChannel - DMX адрес прибора.
}

// GameConf структура конфигурации.
type GameConf struct {
	WinScore    uint8    `toml:"win-score"`
	HitTimeout  Duration `toml:"hit-timeout"`
	MoveDelay   Duration `toml:"move-delay"`
	ResetDelay  Duration `toml:"reset-delay"`
	Blinks      int      `toml:"blinks"`
	BlinkOn     Duration `toml:"blink-on"`
	BlinkOff    Duration `toml:"blink-off"`
	PanMin      uint8    `toml:"pan-min"`
	PanMax      uint8    `toml:"pan-max"`
	TiltTop     uint8    `toml:"tilt-top"`
	TiltBottom  uint8    `toml:"tilt-bottom"`
	EffectSpeed float64  `toml:"effect-speed"` // EffectSpeed - множитель пауз анимаций.
}

// HeadlightConf структура конфигурации.
type HeadlightConf struct {
	StatusInterval Duration `toml:"status-interval"`
}

// Duration - time.Duration, читаемый из строки вида "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		Mode:   ModePong,
		Logger: LogConf{Level: "info"},
		MQTT: MQTTConf{
			ClientID:       "lightpong",
			Schema:         "tcp",
			Host:           "localhost",
			Port:           "1883",
			RetryInterval:  Duration{5 * time.Second},
			PaddleTopic:    "lightpong/paddle",
			ScoreTopic:     "lightpong/score",
			HeadlightTopic: "actors/headlight/1",
		},
		DMX: DMXConf{
			Output:    OutputSerial,
			Device:    "/dev/ttyUSB0",
			Baud:      250000,
			Channels:  512,
			RefreshHz: 44,
			Break:     Duration{88 * time.Microsecond},
			MAB:       Duration{12 * time.Microsecond},
			ArtNet: ArtNetConf{
				Network: "192.168.6.0/24",
				MaxFPS:  44,
			},
		},
		Fixture: FixtureConf{
			Model:        ModelMHX25Ext,
			StartChannel: 1,
		},
		Game: GameConf{
			WinScore:    9,
			HitTimeout:  Duration{2000 * time.Millisecond},
			MoveDelay:   Duration{1000 * time.Millisecond},
			ResetDelay:  Duration{2000 * time.Millisecond},
			Blinks:      10,
			BlinkOn:     Duration{250 * time.Millisecond},
			BlinkOff:    Duration{250 * time.Millisecond},
			PanMin:      128 - 20,
			PanMax:      128 + 20,
			TiltTop:     128 + 60,
			TiltBottom:  128 - 60,
			EffectSpeed: 1,
		},
		Headlight: HeadlightConf{
			StatusInterval: Duration{2 * time.Second},
		},
	}
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые нельзя исправить по умолчанию.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePong, ModeHeadlight, ModeDemo:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.DMX.Output {
	case OutputSerial, OutputArtNet:
	default:
		return fmt.Errorf("unknown dmx output %q", c.DMX.Output)
	}
	switch c.Fixture.Model {
	case ModelMHX25, ModelMHX25Ext, ModelHeadlight:
	default:
		return fmt.Errorf("unknown fixture model %q", c.Fixture.Model)
	}
	// Узел headlight управляет только RGB прибором.
	if c.Mode == ModeHeadlight && c.Fixture.Model != ModelHeadlight {
		return fmt.Errorf("mode %q needs fixture model %q, got %q", ModeHeadlight, ModelHeadlight, c.Fixture.Model)
	}
	if c.DMX.Channels < 1 || c.DMX.Channels > 512 {
		return fmt.Errorf("dmx channels out of range: %d", c.DMX.Channels)
	}
	if c.DMX.RefreshHz < 1 {
		return fmt.Errorf("dmx refresh-hz must be at least 1, got %d", c.DMX.RefreshHz)
	}
	if c.Game.PanMin > c.Game.PanMax {
		return fmt.Errorf("game pan-min %d above pan-max %d", c.Game.PanMin, c.Game.PanMax)
	}
	if c.Game.WinScore == 0 {
		return fmt.Errorf("game win-score must be positive")
	}
	return nil
}
