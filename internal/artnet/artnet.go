package artnet

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Haba1234/go-artnet"
	"lightpong/internal/clientmqtt"
	"lightpong/internal/dmx"
	"lightpong/internal/logger"
)

// node is the part of the go-artnet controller the sender uses.
type node interface {
	Start() error
	Stop()
	SendDMXToAddress(dmx [512]byte, address artnet.Address)
}

// ArtNet is a dmx.Sender for the ArtNet protocol (DMX over UDP/IP).
type ArtNet struct {
	logger  *logger.Log
	sender  node
	nodes   func() []*artnet.ControlledNode
	address artnet.Address
	frame   [512]byte

	pub       clientmqtt.Publisher
	announced map[string]struct{}

	wg   sync.WaitGroup
	stop context.CancelFunc
}

// Conf describes where frames go.
type Conf struct {
	Network  string // Network - CIDR сети art-net.
	Universe uint16 // Universe: старший байт - Net, младший байт - SubUni.
	MaxFPS   int
}

// NewSender returns an art-net sender bound to the interface inside cfg.Network.
func NewSender(log logger.Logger, cfg Conf) (*ArtNet, error) {
	ip, err := FindArtNetIP(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("failed to find the art-net IP: %w", err)
	}

	if len(ip) == 0 {
		return nil, errors.New("failed to find the art-net IP: No interface found")
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hostname: %w", err)
	}

	host = strings.ToLower(strings.Split(host, ".")[0])
	log.Module("art-net").Infof("Using ArtNet IP %s and hostname %s", ip.String(), host)

	fps := cfg.MaxFPS
	if fps <= 0 {
		fps = 44
	}
	controller := artnet.NewController(host, ip, artnet.NewDefaultLogger("info"), artnet.MaxFPS(fps))

	return newArtNet(log, controller, func() []*artnet.ControlledNode { return controller.Nodes }, cfg.Universe), nil
}

func newArtNet(log logger.Logger, sender node, nodes func() []*artnet.ControlledNode, universe uint16) *ArtNet {
	return &ArtNet{
		logger:    log.Module("art-net"),
		sender:    sender,
		nodes:     nodes,
		address:   universeToAddress(universe),
		announced: map[string]struct{}{},
	}
}

// SetPublisher enables announcing discovered output ports over MQTT.
// Call before Start.
func (c *ArtNet) SetPublisher(pub clientmqtt.Publisher) {
	c.pub = pub
}

// Start the ArtNet controller and the node report loop.
func (c *ArtNet) Start(ctx context.Context) error {
	if err := c.sender.Start(); err != nil {
		return fmt.Errorf("failed to start Controller: %w", err)
	}

	ctx, c.stop = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.debugDevices(ctx, 30*time.Second)
	}()
	return nil
}

// SendFrame implements dmx.Sender. Channels past len(data) are sent as 0.
func (c *ArtNet) SendFrame(data []byte) {
	c.frame = [512]byte{}
	copy(c.frame[:], data)
	c.sender.SendDMXToAddress(c.frame, c.address)
}

// Close implements dmx.Sender.
func (c *ArtNet) Close() error {
	if c.stop != nil {
		c.stop()
	}
	c.wg.Wait()
	c.sender.Stop()
	return nil
}

// universeToAddress converts a dmx universe to art-net address
// universe: старший байт - Net, младший байт - SubUni.
func universeToAddress(universe uint16) artnet.Address {
	v := make([]uint8, 2)
	binary.BigEndian.PutUint16(v, universe)

	return artnet.Address{
		Net:    v[0],
		SubUni: v[1],
	}
}

// NodeToString returns a string representation of the given Node.
func NodeToString(n *artnet.ControlledNode) string {
	var inputs, outputs []string
	for _, p := range n.Node.InputPorts {
		inputs = append(inputs, fmt.Sprintf("%s: %s", p.Address.String(), p.Type.String()))
	}

	for _, p := range n.Node.OutputPorts {
		outputs = append(outputs, fmt.Sprintf("%s: %s", p.Address.String(), p.Type.String()))
	}

	return fmt.Sprintf(
		" | IP=%s name=%q type=%q manufacturer=%q desc=%q inputs=%q outputs=%q",
		n.UDPAddress.String(), n.Node.Name, n.Node.Type,
		n.Node.Manufacturer, n.Node.Description,
		strings.Join(inputs, "; "), strings.Join(outputs, "; "),
	)
}

func (c *ArtNet) debugDevices(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			nodes := c.nodes()
			var dev []string
			for _, n := range nodes {
				dev = append(dev, NodeToString(n))
			}
			c.logger.Debugf("Currently %d devices are registered: %v", len(nodes), dev)
			c.announce(nodes)
		}
	}
}

// PortInfo is the payload announced on artnet/<name>.<port>.
type PortInfo struct {
	Name    string `json:"name"`
	IP      string `json:"ip"`
	Address string `json:"address"`
	Type    string `json:"type"`
}

// announce publishes every output port once, on artnet/<name>.<port>.
func (c *ArtNet) announce(nodes []*artnet.ControlledNode) {
	if c.pub == nil {
		return
	}
	for _, n := range nodes {
		for _, p := range n.Node.OutputPorts {
			topic := fmt.Sprintf("artnet/%s.%d", n.Node.Name, p.Address.Integer())
			if _, ok := c.announced[topic]; ok {
				continue
			}
			msg, err := json.Marshal(PortInfo{
				Name:    n.Node.Name,
				IP:      n.UDPAddress.IP.String(),
				Address: p.Address.String(),
				Type:    p.Type.String(),
			})
			if err != nil {
				c.logger.Errorf("public topic. msg: %v", err)
				continue
			}
			c.logger.Debug("Publication. nameTopic:", topic)
			if err := c.pub.Publish(topic, msg); err != nil {
				c.logger.Warnf("publication %s failed: %v", topic, err)
				continue
			}
			c.announced[topic] = struct{}{}
		}
	}
}

var _ dmx.Sender = (*ArtNet)(nil)
