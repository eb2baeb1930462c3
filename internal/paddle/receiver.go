package paddle

import (
	"lightpong/internal/clientmqtt"
	"lightpong/internal/game"
	"lightpong/internal/logger"
)

// Paddle ids as flashed into the controllers.
const (
	TopPaddleID    = 1
	BottomPaddleID = 2
)

// Receiver turns paddle records into game hits.
type Receiver struct {
	log     *logger.Log
	paddles *game.Paddles
	topic   string
}

func NewReceiver(log logger.Logger, paddles *game.Paddles, topic string) *Receiver {
	return &Receiver{
		log:     log.Module("paddle"),
		paddles: paddles,
		topic:   topic,
	}
}

// Start subscribes to the paddle topic.
func (r *Receiver) Start(sub clientmqtt.Subscriber) error {
	return sub.Subscribe(r.topic, r.Handle)
}

// Handle decodes one record and signals the matching side. The fireball
// flag comes from the opposite-hand button, which reads 0 while held.
func (r *Receiver) Handle(_ string, payload []byte) {
	m, err := Decode(payload)
	if err != nil {
		r.log.Warnf("dropping paddle message: %v", err)
		return
	}
	switch m.ID {
	case TopPaddleID:
		r.log.Infof("TOP PADDLE (ID=%d) HIT detected! Button: %d", m.ID, m.BtnRight)
		r.paddles.Signal(game.Hit{Side: game.SideTop, Fireball: m.BtnRight == 0})
	case BottomPaddleID:
		r.log.Infof("BOTTOM PADDLE (ID=%d) HIT detected! Button: %d", m.ID, m.BtnLeft)
		r.paddles.Signal(game.Hit{Side: game.SideBottom, Fireball: m.BtnLeft == 0})
	default:
		r.log.Warnf("Unknown paddle ID: %d", m.ID)
	}
}

// ScorePublisher broadcasts the 2-byte score record.
type ScorePublisher struct {
	pub   clientmqtt.Publisher
	topic string
}

func NewScorePublisher(pub clientmqtt.Publisher, topic string) *ScorePublisher {
	return &ScorePublisher{pub: pub, topic: topic}
}

// PublishScore implements game.Broadcaster.
func (s *ScorePublisher) PublishScore(score game.Score) error {
	b, err := score.MarshalBinary()
	if err != nil {
		return err
	}
	return s.pub.Publish(s.topic, b)
}
