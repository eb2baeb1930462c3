package dmx

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
	"lightpong/internal/logger"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	// MinBreak is the shortest break a receiver must recognise.
	MinBreak = 88 * time.Microsecond
	// MinMAB is the shortest mark-after-break.
	MinMAB = 12 * time.Microsecond
)

// Port is the part of a serial port the DMX sender needs.
type Port interface {
	io.Writer
	Break(d time.Duration) error
	Close() error
}

// SerialConf describes the RS-485 line.
type SerialConf struct {
	Device string        // Device - путь к порту.
	DEPin  string        // DEPin - имя GPIO driver enable, пусто если не нужен.
	Baud   int           // Baud - скорость, 0 означает 250000.
	Break  time.Duration // Break - не меньше MinBreak.
	MAB    time.Duration // MAB - не меньше MinMAB.
}

// Serial sends DMX512 frames over a half-duplex RS-485 serial line.
type Serial struct {
	log   *logger.Log
	port  Port
	de    gpio.PinOut
	brk   time.Duration
	mab   time.Duration
	frame []byte
	sleep func(time.Duration)
}

// NewSerial opens the port at 8N2 and latches the driver enable pin high.
// A failure here is a hardware configuration error.
func NewSerial(log logger.Logger, cfg SerialConf) (*Serial, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = BaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
	}
	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	var de gpio.PinOut
	if cfg.DEPin != "" {
		de, err = lookupPin(cfg.DEPin)
		if err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	s, err := newSerial(log, port, de, cfg)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return s, nil
}

func lookupPin(name string) (gpio.PinOut, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("driver enable pin %q not found", name)
	}
	return p, nil
}

func newSerial(log logger.Logger, port Port, de gpio.PinOut, cfg SerialConf) (*Serial, error) {
	if port == nil {
		return nil, errors.New("serial port is nil")
	}
	s := &Serial{
		log:   log.Module("dmx"),
		port:  port,
		de:    de,
		brk:   cfg.Break,
		mab:   cfg.MAB,
		frame: make([]byte, 0, UniverseSize+1),
		sleep: time.Sleep,
	}
	if s.brk < MinBreak {
		s.brk = MinBreak
	}
	if s.mab < MinMAB {
		s.mab = MinMAB
	}
	// Transmit only: the line is never turned around.
	if s.de != nil {
		if err := s.de.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("failed to drive enable pin high: %w", err)
		}
	}
	s.log.Infof("DMX line ready (break %v, mab %v)", s.brk, s.mab)
	return s, nil
}

// SendFrame sends break, mark-after-break, the start code and data.
func (s *Serial) SendFrame(data []byte) {
	if len(data) > UniverseSize {
		data = data[:UniverseSize]
	}
	if err := s.port.Break(s.brk); err != nil {
		s.log.Debugf("break failed: %v", err)
		return
	}
	s.sleep(s.mab)

	s.frame = append(s.frame[:0], StartCode)
	s.frame = append(s.frame, data...)
	if _, err := s.port.Write(s.frame); err != nil {
		s.log.Debugf("frame write failed: %v", err)
	}
}

// Close releases the port. The enable pin is left as is.
func (s *Serial) Close() error {
	return s.port.Close()
}
