package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lightpong/internal/artnet"
	"lightpong/internal/clientmqtt"
	"lightpong/internal/config"
	"lightpong/internal/demo"
	"lightpong/internal/dmx"
	"lightpong/internal/fixture"
	"lightpong/internal/game"
	"lightpong/internal/headlight"
	"lightpong/internal/logger"
	"lightpong/internal/paddle"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "configs/conf.toml", "Path to configuration file")
}

func main() {
	flag.Parse()
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v", err)
		os.Exit(1)
	}

	log.Module("logger").Debug("newLogger created ok")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	var client *clientmqtt.ClientMQTT
	var pub clientmqtt.Publisher
	if cfg.Mode != config.ModeDemo {
		client = clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT))
		log.Module("mqtt").Debug("NewClient created ok")
		pub = client
	}

	sender, err := newSender(ctx, log, cfg.DMX, pub)
	if err != nil {
		log.Module("dmx").Errorf("failed to open DMX output: %v", err)
		os.Exit(1)
	}

	tx, err := dmx.NewTransmitter(log, sender, cfg.DMX.Channels, cfg.DMX.RefreshHz)
	if err != nil {
		log.Module("dmx").Errorf("failed to create transmitter: %v", err)
		os.Exit(1)
	}

	layout, ok := fixture.LayoutByName(cfg.Fixture.Model)
	if !ok {
		log.Module("fixture").Errorf("unknown fixture model %q", cfg.Fixture.Model)
		os.Exit(1)
	}
	light, err := fixture.New(tx, layout, cfg.Fixture.StartChannel)
	if err != nil {
		log.Module("fixture").Errorf("failed to create fixture: %v", err)
		os.Exit(1)
	}
	log.Module("fixture").Infof("%s at channel %d", layout.Name, cfg.Fixture.StartChannel)

	tx.Start(ctx)

	if client != nil {
		if err = client.Start(ctx); err != nil {
			log.Error("failed to start MQTT service:", err.Error())
			cancel()
		}
	}

	switch cfg.Mode {
	case config.ModePong:
		paddles := game.NewPaddles()
		if err = paddle.NewReceiver(log, paddles, cfg.MQTT.PaddleTopic).Start(client); err != nil {
			log.Error("failed to subscribe paddles:", err.Error())
			cancel()
		}
		scores := paddle.NewScorePublisher(client, cfg.MQTT.ScoreTopic)
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		g := game.New(log, light, paddles, scores, ConvertConfigGame(cfg.Game), rnd)
		go func() {
			if err := g.Run(ctx); err != nil {
				log.Module("game").Errorf("game stopped: %v", err)
				cancel()
			}
		}()

	case config.ModeHeadlight:
		node := headlight.NewNode(log, light, tx, client, cfg.MQTT.HeadlightTopic, cfg.Headlight.StatusInterval.Duration)
		if err = node.Home(); err != nil {
			log.Module("headlight").Errorf("failed to home: %v", err)
		}
		if err = node.Start(ctx, client); err != nil {
			log.Error("failed to start headlight node:", err.Error())
			cancel()
		}

	case config.ModeDemo:
		player := demo.NewPlayer(log, light, 2*time.Second)
		go func() {
			if err := player.Run(ctx, demo.Patterns()); err != nil && !errors.Is(err, context.Canceled) {
				log.Module("demo").Errorf("demo stopped: %v", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()

	if client != nil {
		if err := client.Stop(); err != nil {
			log.Error("failed to stop MQTT service:", err.Error())
		}
	}

	if err := tx.Stop(); err != nil {
		log.Error("failed to stop DMX output:", err.Error())
	}

	log.Info("shutdown complete")
}

// newSender opens the configured output. Art-Net output announces the
// discovered node ports on pub when it is set.
func newSender(ctx context.Context, log logger.Logger, cfg config.DMXConf, pub clientmqtt.Publisher) (dmx.Sender, error) {
	switch cfg.Output {
	case config.OutputArtNet:
		a, err := artnet.NewSender(log, artnet.Conf{
			Network:  cfg.ArtNet.Network,
			Universe: cfg.ArtNet.Universe,
			MaxFPS:   cfg.ArtNet.MaxFPS,
		})
		if err != nil {
			return nil, err
		}
		if pub != nil {
			a.SetPublisher(pub)
		}
		if err = a.Start(ctx); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return dmx.NewSerial(log, dmx.SerialConf{
			Device: cfg.Device,
			DEPin:  cfg.DEPin,
			Baud:   cfg.Baud,
			Break:  cfg.Break.Duration,
			MAB:    cfg.MAB.Duration,
		})
	}
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID:      cfg.ClientID,
		Schema:        cfg.Schema,
		Host:          cfg.Host,
		Port:          cfg.Port,
		User:          cfg.User,
		Password:      cfg.Password,
		Qos:           cfg.Qos,
		RetryInterval: cfg.RetryInterval.Duration,
	}
}

// ConvertConfigGame преобразует структуры.
func ConvertConfigGame(cfg config.GameConf) game.Conf {
	return game.Conf{
		WinScore:    cfg.WinScore,
		HitTimeout:  cfg.HitTimeout.Duration,
		MoveDelay:   cfg.MoveDelay.Duration,
		ResetDelay:  cfg.ResetDelay.Duration,
		Blinks:      cfg.Blinks,
		BlinkOn:     cfg.BlinkOn.Duration,
		BlinkOff:    cfg.BlinkOff.Duration,
		PanMin:      cfg.PanMin,
		PanMax:      cfg.PanMax,
		TiltTop:     cfg.TiltTop,
		TiltBottom:  cfg.TiltBottom,
		EffectSpeed: cfg.EffectSpeed,
	}
}
