package notify

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// smtpServer is a minimal scripted SMTP server accepting a single session.
type smtpServer struct {
	mu    sync.Mutex
	from  string
	rcpts []string
	data  string
	done  chan struct{}
}

func startSMTPServer(t *testing.T) (string, int, *smtpServer) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv := &smtpServer{done: make(chan struct{})}
	go func() {
		defer close(srv.done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close() //nolint:errcheck // test server
		srv.serve(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port, srv
}

func (s *smtpServer) serve(conn net.Conn) {
	r := bufio.NewReader(conn)
	reply := func(line string) {
		_, _ = io.WriteString(conn, line+"\r\n")
	}

	reply("220 localhost ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			reply("250-localhost")
			reply("250 8BITMIME")
		case strings.HasPrefix(verb, "MAIL FROM:"):
			s.mu.Lock()
			s.from = addrOf(line)
			s.mu.Unlock()
			reply("250 OK")
		case strings.HasPrefix(verb, "RCPT TO:"):
			s.mu.Lock()
			s.rcpts = append(s.rcpts, addrOf(line))
			s.mu.Unlock()
			reply("250 OK")
		case verb == "DATA":
			reply("354 end with .")
			var body strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				body.WriteString(l)
			}
			s.mu.Lock()
			s.data = body.String()
			s.mu.Unlock()
			reply("250 OK queued")
		case verb == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func addrOf(line string) string {
	start := strings.Index(line, "<")
	end := strings.Index(line, ">")
	if start < 0 || end < start {
		return ""
	}
	return line[start+1 : end]
}

func TestDialer_DeliversThroughSMTPSession(t *testing.T) {
	t.Parallel()

	host, port, srv := startSMTPServer(t)
	n := NewSMTPNotifier(host, port, "", "", "alerts@trackmyprices.dev", WithLogger(quietLogger()))

	email := &Email{Kind: domain.NotifyPriceDrop, Subject: "Price drop: Desk Lamp", HTML: "<p>now $17.50</p>"}
	err := n.Dispatch(context.Background(), email, []string{"a@example.com", "b@example.com"})
	require.NoError(t, err)

	select {
	case <-srv.done:
	case <-time.After(5 * time.Second):
		t.Fatal("smtp session did not finish")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, "alerts@trackmyprices.dev", srv.from)
	assert.ElementsMatch(t, []string{"alerts@trackmyprices.dev", "a@example.com", "b@example.com"}, srv.rcpts)
	assert.Contains(t, srv.data, "Subject: Price drop: Desk Lamp")
	assert.NotContains(t, srv.data, "a@example.com", "bcc recipients must not reach the message headers")
}

func TestDialer_StopsTalkingOnceContextEnds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		newCtx func() (context.Context, context.CancelFunc)
	}{
		{
			name: "deadline",
			newCtx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
		},
		{
			name: "cancel without deadline",
			newCtx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(50*time.Millisecond, cancel)
				return ctx, cancel
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// The server accepts but never sends its greeting.
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)
			t.Cleanup(func() { _ = ln.Close() })

			closed := make(chan struct{})
			go func() {
				defer close(closed)
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				defer conn.Close() //nolint:errcheck // test server
				_, _ = io.Copy(io.Discard, conn)
			}()

			addr := ln.Addr().(*net.TCPAddr)
			d := newDialer(addr.IP.String(), addr.Port, "", "")

			ctx, cancel := tt.newCtx()
			defer cancel()

			start := time.Now()
			err = d.Send(ctx, gomail.NewMessage())
			require.Error(t, err)
			require.ErrorIs(t, err, os.ErrDeadlineExceeded)
			assert.Less(t, time.Since(start), 2*time.Second)

			select {
			case <-closed:
			case <-time.After(2 * time.Second):
				t.Fatal("connection still open after the context ended")
			}
		})
	}
}
