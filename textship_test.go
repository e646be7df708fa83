package textship

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stagecast/textship/internal/dispatch"
	"github.com/stagecast/textship/internal/domain"
	"github.com/stagecast/textship/internal/perf"
	"github.com/stagecast/textship/internal/ports"
	"github.com/stagecast/textship/internal/transport"
	"github.com/stagecast/textship/pkg/log"
)

// memSock captures every datagram written to it.
type memSock struct {
	mu     sync.Mutex
	writes [][]byte
}

func (m *memSock) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(b))
	copy(cp, b)
	m.writes = append(m.writes, cp)
	return len(b), nil
}

func (m *memSock) Close() error { return nil }

// addressOf decodes the address pattern of an encoded datagram.
func addressOf(datagram []byte) string {
	end := bytes.IndexByte(datagram, 0)
	if end < 0 {
		return ""
	}
	return string(datagram[:end])
}

func TestDialRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = ""
	if _, err := Dial(context.Background(), cfg, nil); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("error = %v, want ErrInvalidSettings", err)
	}
}

// The end-to-end scenario from the wire contract: layer 3, base slot 4,
// rotation 3. Three dispatches must address slots 4, 5, 6 with a set-text
// and a trigger datagram each.
func TestEndToEndRotationScenario(t *testing.T) {
	sock := &memSock{}
	dialer := func(ctx context.Context, addr string) (ports.PacketConn, error) {
		return sock, nil
	}

	st := domain.DefaultSettings()
	st.Layer = 3
	st.BaseClipSlot = 4
	st.RotationCount = 3
	st.ClearSlot = 0

	logger := log.NewNoopLogger()
	conn := transport.New(st.Addr(), logger, transport.WithDialer(dialer))
	gate := perf.New(conn, logger, perf.DefaultOptions())
	pipe := dispatch.New(conn, gate, st, logger)

	if err := conn.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	for _, text := range []string{"A", "B", "C"} {
		if _, err := pipe.Dispatch(context.Background(), text); err != nil {
			t.Fatalf("dispatch %q: %v", text, err)
		}
	}

	sock.mu.Lock()
	defer sock.mu.Unlock()
	if len(sock.writes) != 6 {
		t.Fatalf("datagrams = %d, want 6", len(sock.writes))
	}

	wantAddrs := []string{
		"/composition/layers/3/clips/4/video/source/textgenerator/text/params/lines",
		"/composition/layers/3/clips/4/connect",
		"/composition/layers/3/clips/5/video/source/textgenerator/text/params/lines",
		"/composition/layers/3/clips/5/connect",
		"/composition/layers/3/clips/6/video/source/textgenerator/text/params/lines",
		"/composition/layers/3/clips/6/connect",
	}
	for i, want := range wantAddrs {
		if got := addressOf(sock.writes[i]); got != want {
			t.Errorf("datagram %d address = %q, want %q", i, got, want)
		}
		if len(sock.writes[i])%4 != 0 {
			t.Errorf("datagram %d length %d is not 4-byte aligned", i, len(sock.writes[i]))
		}
	}
}
