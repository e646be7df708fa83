package osc

import "hash/fnv"

// OSC type tag characters.
const (
	TagInt32   = 'i'
	TagFloat32 = 'f'
	TagString  = 's'
	TagBlob    = 'b'
)

// Argument is one typed OSC argument. It is a tagged variant over
// int32, float32, string, and blob; construct values with Int32, Float32,
// String, and Blob. Immutable once constructed.
type Argument struct {
	tag byte
	i   int32
	f   float32
	s   string
	b   []byte
}

// Int32 creates an int32 argument.
func Int32(v int32) Argument {
	return Argument{tag: TagInt32, i: v}
}

// Float32 creates a float32 argument.
func Float32(v float32) Argument {
	return Argument{tag: TagFloat32, f: v}
}

// String creates a string argument.
func String(v string) Argument {
	return Argument{tag: TagString, s: v}
}

// Blob creates a blob argument. The bytes are copied so later mutation of
// the caller's slice cannot alter the argument.
func Blob(v []byte) Argument {
	b := make([]byte, len(v))
	copy(b, v)
	return Argument{tag: TagBlob, b: b}
}

// Tag returns the OSC type tag character for this argument.
func (a Argument) Tag() byte {
	return a.tag
}

// Message is one wire unit: an address pattern plus an ordered argument list.
type Message struct {
	Address   string
	Arguments []Argument
}

// NewMessage creates a message for the given address and arguments.
func NewMessage(address string, args ...Argument) Message {
	return Message{Address: address, Arguments: args}
}

// Key returns a content hash over the address and arguments, used by the
// performance gate for dedup and throttle bookkeeping.
func (m Message) Key() uint64 {
	h := fnv.New64a()
	h.Write([]byte(m.Address))
	h.Write([]byte{0})
	for _, a := range m.Arguments {
		h.Write([]byte{a.tag})
		h.Write(a.payload())
	}
	return h.Sum64()
}
