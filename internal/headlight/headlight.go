package headlight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lightpong/internal/clientmqtt"
	"lightpong/internal/dmx"
	"lightpong/internal/fixture"
	"lightpong/internal/logger"
)

// Output is where raw channel writes and immediate refreshes go.
type Output interface {
	SetChannelValues(values []dmx.ChannelValue) error
	Flush()
}

// Command is the JSON envelope on <prefix>/command/<name>.
type Command struct {
	NodeID  string          `json:"nodeId"`
	ActorID string          `json:"actorId"`
	Command string          `json:"command"`
	Value   json.RawMessage `json:"value"`
}

type moveValue struct {
	Pan  *int `json:"pan"`
	Tilt *int `json:"tilt"`
}

type rgbValue struct {
	R *int `json:"r"`
	G *int `json:"g"`
	B *int `json:"b"`
}

var errMissingField = errors.New("missing required fields")

// Node drives an RGB moving head from MQTT commands. MQTT handlers run
// concurrently, so every fixture access goes through mu.
type Node struct {
	log      *logger.Log
	mu       sync.Mutex
	light    *fixture.Fixture
	out      Output
	pub      clientmqtt.Publisher
	prefix   string
	interval time.Duration
}

func NewNode(log logger.Logger, light *fixture.Fixture, out Output, pub clientmqtt.Publisher, prefix string, interval time.Duration) *Node {
	return &Node{
		log:      log.Module("headlight"),
		light:    light,
		out:      out,
		pub:      pub,
		prefix:   strings.TrimSuffix(prefix, "/"),
		interval: interval,
	}
}

// Home sets the power-on look: centered-ish, red, full dimmer.
func (n *Node) Home() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, err := range []error{
		n.light.SetPosition(125, 125),
		n.light.SetSpeed(fixture.SpeedFast),
		n.light.SetRGB(255, 0, 0),
		n.light.SetColorMacro(fixture.MacroNeutral),
		n.light.SetEffect(fixture.EffectNeutral),
		n.light.SetDimmer(fixture.DimmerFull),
	} {
		if err != nil {
			return err
		}
	}
	n.out.Flush()
	return nil
}

// Start subscribes to the command topics and publishes state periodically.
func (n *Node) Start(ctx context.Context, sub clientmqtt.Subscriber) error {
	for _, name := range []string{"move", "rgb", "dimmer", "effect"} {
		if err := sub.Subscribe(n.prefix+"/command/"+name, n.HandleCommand); err != nil {
			return fmt.Errorf("subscribe %s: %w", name, err)
		}
	}
	if err := sub.Subscribe(n.prefix+"/dmx", n.HandleRaw); err != nil {
		return fmt.Errorf("subscribe dmx: %w", err)
	}
	if n.interval > 0 {
		go n.publishState(ctx)
	}
	return nil
}

// HandleCommand applies one JSON command and refreshes the line.
func (n *Node) HandleCommand(topic string, payload []byte) {
	n.mu.Lock()
	err := n.apply(topic, payload)
	n.mu.Unlock()
	if err != nil {
		n.log.Errorf("command on %s rejected: %v", topic, err)
		return
	}
	n.out.Flush()
}

func (n *Node) apply(topic string, payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("failed to parse actor command JSON: %w", err)
	}
	if cmd.NodeID == "" || cmd.ActorID == "" || cmd.Command == "" || len(cmd.Value) == 0 {
		return errMissingField
	}
	n.log.Infof("Processing command: %s", cmd.Command)

	switch {
	case strings.HasSuffix(topic, "/command/move"):
		var v moveValue
		if err := json.Unmarshal(cmd.Value, &v); err != nil {
			return err
		}
		if v.Pan != nil {
			b, err := toByte("pan", *v.Pan)
			if err != nil {
				return err
			}
			if err := n.light.SetPan(b); err != nil {
				return err
			}
		}
		if v.Tilt != nil {
			b, err := toByte("tilt", *v.Tilt)
			if err != nil {
				return err
			}
			return n.light.SetTilt(b)
		}
		return nil

	case strings.HasSuffix(topic, "/command/rgb"):
		var v rgbValue
		if err := json.Unmarshal(cmd.Value, &v); err != nil {
			return fmt.Errorf("RGB value is not an object: %w", err)
		}
		if v.R == nil || v.G == nil || v.B == nil {
			return fmt.Errorf("invalid RGB values: %w", errMissingField)
		}
		var rgb [3]uint8
		for i, c := range []int{*v.R, *v.G, *v.B} {
			b, err := toByte("rgb", c)
			if err != nil {
				return err
			}
			rgb[i] = b
		}
		return n.light.SetRGB(rgb[0], rgb[1], rgb[2])

	case strings.HasSuffix(topic, "/command/dimmer"):
		var v int
		if err := json.Unmarshal(cmd.Value, &v); err != nil {
			return fmt.Errorf("dimmer value is not a number: %w", err)
		}
		b, err := toByte("dimmer", v)
		if err != nil {
			return err
		}
		return n.light.SetDimmer(b)

	case strings.HasSuffix(topic, "/command/effect"):
		e, err := parseEffect(cmd.Value)
		if err != nil {
			return err
		}
		return n.light.SetEffect(e)
	}
	return fmt.Errorf("unknown command topic: %s", topic)
}

// HandleRaw applies [{"Channel":n,"Value":v}] straight to the universe.
func (n *Node) HandleRaw(topic string, payload []byte) {
	var data []dmx.ChannelValue
	if err := json.Unmarshal(payload, &data); err != nil {
		n.log.Errorf("message could not be parsed (%s): %v", payload, err)
		return
	}
	n.mu.Lock()
	err := n.out.SetChannelValues(data)
	n.mu.Unlock()
	if err != nil {
		n.log.Errorf("raw dmx on %s rejected: %v", topic, err)
		return
	}
	n.out.Flush()
}

// State returns the fixture channels keyed by attribute name.
func (n *Node) State() map[string]uint8 {
	n.mu.Lock()
	defer n.mu.Unlock()
	state := make(map[string]uint8, n.light.Layout().Channels())
	for _, a := range n.light.Layout().Offsets {
		v, _ := n.light.Value(a)
		state[a.String()] = v
	}
	return state
}

func (n *Node) publishState(ctx context.Context) {
	t := time.NewTicker(n.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			msg, err := json.Marshal(n.State())
			if err != nil {
				n.log.Errorf("state marshal: %v", err)
				continue
			}
			if err := n.pub.Publish(n.prefix+"/state", msg); err != nil {
				n.log.Warnf("state publish: %v", err)
			}
		}
	}
}

func parseEffect(raw json.RawMessage) (fixture.EffectMode, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		e, ok := fixture.EffectByName(name)
		if !ok {
			return 0, fmt.Errorf("%w: effect %q", fixture.ErrInvalidArgument, name)
		}
		return e, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("effect value is neither a name nor a number: %w", err)
	}
	for e := fixture.EffectLEDOff; e <= fixture.EffectNeutralEnd; e++ {
		if b, _ := e.Byte(); int(b) == v {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: effect %d", fixture.ErrInvalidArgument, v)
}

func toByte(what string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %s %d out of 0..255", fixture.ErrInvalidArgument, what, v)
	}
	return uint8(v), nil
}
