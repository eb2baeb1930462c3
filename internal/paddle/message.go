package paddle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize = 3
	// MessageSize is the full record: id, two button bytes, one pad byte and
	// six little-endian float32 motion values.
	MessageSize = 4 + 6*4
)

// ErrShortMessage is returned for records without the id and button bytes.
var ErrShortMessage = errors.New("paddle message too short")

// Motion is the accelerometer and gyro sample sent with each swing.
type Motion struct {
	AX, AY, AZ float32
	GX, GY, GZ float32
}

// Message is one paddle swing.
type Message struct {
	ID        uint8
	BtnRight  uint8
	BtnLeft   uint8
	Motion    Motion
	HasMotion bool
}

type wireMessage struct {
	ID       uint8
	BtnRight uint8
	BtnLeft  uint8
	_        uint8
	Motion   Motion
}

// Decode parses a paddle record. Motion is only filled for full records.
func Decode(b []byte) (Message, error) {
	if len(b) < headerSize {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(b))
	}
	m := Message{ID: b[0], BtnRight: b[1], BtnLeft: b[2]}
	if len(b) < MessageSize {
		return m, nil
	}
	var w wireMessage
	if err := binary.Read(bytes.NewReader(b[:MessageSize]), binary.LittleEndian, &w); err != nil {
		return m, fmt.Errorf("decode paddle motion: %w", err)
	}
	m.Motion = w.Motion
	m.HasMotion = true
	return m, nil
}

// Encode produces the full wire record.
func (m Message) Encode() []byte {
	var buf bytes.Buffer
	w := wireMessage{ID: m.ID, BtnRight: m.BtnRight, BtnLeft: m.BtnLeft, Motion: m.Motion}
	// bytes.Buffer writes cannot fail
	_ = binary.Write(&buf, binary.LittleEndian, &w)
	return buf.Bytes()
}
