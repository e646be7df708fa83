package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Encode serializes the message into one datagram payload:
// padded address, padded type tag string, then each argument in order.
func (m Message) Encode() ([]byte, error) {
	if m.Address == "" || !strings.HasPrefix(m.Address, "/") {
		return nil, fmt.Errorf("osc: invalid address %q", m.Address)
	}

	var buf bytes.Buffer
	writePaddedString(&buf, m.Address)

	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	for _, a := range m.Arguments {
		tags = append(tags, a.tag)
	}
	writePaddedString(&buf, string(tags))

	for _, a := range m.Arguments {
		switch a.tag {
		case TagInt32:
			var word [4]byte
			binary.BigEndian.PutUint32(word[:], uint32(a.i))
			buf.Write(word[:])
		case TagFloat32:
			var word [4]byte
			binary.BigEndian.PutUint32(word[:], math.Float32bits(a.f))
			buf.Write(word[:])
		case TagString:
			writePaddedString(&buf, a.s)
		case TagBlob:
			var word [4]byte
			binary.BigEndian.PutUint32(word[:], uint32(len(a.b)))
			buf.Write(word[:])
			buf.Write(a.b)
			writePadding(&buf, len(a.b))
		default:
			return nil, fmt.Errorf("osc: unknown type tag %q", a.tag)
		}
	}

	return buf.Bytes(), nil
}

// payload returns the canonical encoded bytes of a single argument,
// used for content hashing. Unlike Encode it carries no padding.
func (a Argument) payload() []byte {
	switch a.tag {
	case TagInt32:
		var word [4]byte
		binary.BigEndian.PutUint32(word[:], uint32(a.i))
		return word[:]
	case TagFloat32:
		var word [4]byte
		binary.BigEndian.PutUint32(word[:], math.Float32bits(a.f))
		return word[:]
	case TagString:
		return []byte(a.s)
	case TagBlob:
		return a.b
	default:
		return nil
	}
}

// writePaddedString writes s, a terminating null, and zero padding so the
// field length is a multiple of 4. An empty string still emits 4 bytes.
func writePaddedString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
	writePadding(buf, len(s)+1)
}

// writePadding writes the zero bytes that round n up to a 4-byte boundary.
func writePadding(buf *bytes.Buffer, n int) {
	for i := 0; i < (4-n%4)%4; i++ {
		buf.WriteByte(0)
	}
}
