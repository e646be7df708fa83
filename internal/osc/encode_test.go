package osc

import (
	"bytes"
	"testing"
)

func TestEncodeNoArguments(t *testing.T) {
	b, err := NewMessage("/test").Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte("/test\x00\x00\x00,\x00\x00\x00")
	if !bytes.Equal(b, want) {
		t.Errorf("encoded = %q, want %q", b, want)
	}
}

func TestEncodeStringArgument(t *testing.T) {
	b, err := NewMessage("/a", String("hi")).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// "/a" + null + 1 pad, ",s" + null + 1 pad, "hi" + null + 1 pad.
	want := []byte("/a\x00\x00,s\x00\x00hi\x00\x00")
	if !bytes.Equal(b, want) {
		t.Errorf("encoded = %q, want %q", b, want)
	}
}

func TestEncodeEmptyStringStillEmitsFourBytes(t *testing.T) {
	b, err := NewMessage("/a", String("")).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte("/a\x00\x00,s\x00\x00\x00\x00\x00\x00")
	if !bytes.Equal(b, want) {
		t.Errorf("encoded = %q, want %q", b, want)
	}
}

func TestEncodeInt32BigEndian(t *testing.T) {
	b, err := NewMessage("/a", Int32(1)).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte("/a\x00\x00,i\x00\x00\x00\x00\x00\x01")
	if !bytes.Equal(b, want) {
		t.Errorf("encoded = %q, want %q", b, want)
	}
}

func TestEncodeFloat32BigEndian(t *testing.T) {
	b, err := NewMessage("/a", Float32(1.0)).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte("/a\x00\x00,f\x00\x00\x3f\x80\x00\x00")
	if !bytes.Equal(b, want) {
		t.Errorf("encoded = % x, want % x", b, want)
	}
}

func TestEncodeStringPaddingInvariant(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "abc", "abcd", "abcde", "hello world"} {
		b, err := NewMessage("/p", String(s)).Encode()
		if err != nil {
			t.Fatalf("Encode(%q): %v", s, err)
		}
		if len(b)%4 != 0 {
			t.Errorf("encoded length %d for %q is not a multiple of 4", len(b), s)
		}
		// The decoded prefix up to the first null equals the original string.
		// Address (4) + tags (4) precede the argument.
		arg := b[8:]
		end := bytes.IndexByte(arg, 0)
		if end < 0 {
			t.Fatalf("no null terminator for %q", s)
		}
		if got := string(arg[:end]); got != s {
			t.Errorf("decoded prefix = %q, want %q", got, s)
		}
	}
}

func TestEncodeBlobPaddingInvariant(t *testing.T) {
	for n := 0; n <= 9; n++ {
		raw := make([]byte, n)
		for i := range raw {
			raw[i] = byte(i + 1)
		}
		b, err := NewMessage("/b", Blob(raw)).Encode()
		if err != nil {
			t.Fatalf("Encode(blob %d): %v", n, err)
		}
		if len(b)%4 != 0 {
			t.Errorf("encoded length %d for blob of %d bytes is not a multiple of 4", len(b), n)
		}
		// Address (4) + tags (4) + length prefix (4).
		arg := b[8:]
		gotLen := int(uint32(arg[0])<<24 | uint32(arg[1])<<16 | uint32(arg[2])<<8 | uint32(arg[3]))
		if gotLen != n {
			t.Errorf("length prefix = %d, want %d", gotLen, n)
		}
		if !bytes.Equal(arg[4:4+n], raw) {
			t.Errorf("blob payload mismatch for n=%d", n)
		}
		padded := len(arg) - 4
		if want := ((n + 3) / 4) * 4; padded != want {
			t.Errorf("padded blob length = %d, want %d", padded, want)
		}
	}
}

func TestEncodeMultipleArgumentsInOrder(t *testing.T) {
	b, err := NewMessage("/m", Int32(2), String("x"), Float32(0)).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte("/m\x00\x00,isf\x00\x00\x00\x00\x00\x00\x00\x02x\x00\x00\x00\x00\x00\x00\x00")
	if !bytes.Equal(b, want) {
		t.Errorf("encoded = % x, want % x", b, want)
	}
}

func TestEncodeRejectsBadAddress(t *testing.T) {
	for _, addr := range []string{"", "test", "no/leading/slash"} {
		if _, err := NewMessage(addr).Encode(); err == nil {
			t.Errorf("Encode(%q) should fail", addr)
		}
	}
}

func TestKeyDistinguishesContent(t *testing.T) {
	a := SetTextMessage(3, 4, "HELLO")
	b := SetTextMessage(3, 4, "HELLO")
	c := SetTextMessage(3, 4, "WORLD")
	d := SetTextMessage(3, 5, "HELLO")

	if a.Key() != b.Key() {
		t.Error("identical messages should share a key")
	}
	if a.Key() == c.Key() {
		t.Error("different text should produce a different key")
	}
	if a.Key() == d.Key() {
		t.Error("different slot should produce a different key")
	}
}

func TestAddressPatterns(t *testing.T) {
	if got, want := LinesAddress(3, 4), "/composition/layers/3/clips/4/video/source/textgenerator/text/params/lines"; got != want {
		t.Errorf("LinesAddress = %q, want %q", got, want)
	}
	if got, want := ConnectAddress(3, 4), "/composition/layers/3/clips/4/connect"; got != want {
		t.Errorf("ConnectAddress = %q, want %q", got, want)
	}
	trig := TriggerMessage(3, 4)
	if len(trig.Arguments) != 1 || trig.Arguments[0].Tag() != TagInt32 {
		t.Error("trigger message should carry a single int32 argument")
	}
}
