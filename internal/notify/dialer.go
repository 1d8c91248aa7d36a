package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

const implicitTLSPort = 465

// dialer delivers gomail messages over a connection whose deadline follows
// the caller's context. Once ctx is done every pending read or write on the
// connection fails, so an abandoned dispatch cannot keep talking to the
// server.
type dialer struct {
	host     string
	port     int
	username string
	password string

	// tlsConfig overrides the default client TLS settings.
	tlsConfig *tls.Config
}

func newDialer(host string, port int, username, password string) *dialer {
	return &dialer{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

func (d *dialer) tls() *tls.Config {
	if d.tlsConfig != nil {
		return d.tlsConfig
	}
	return &tls.Config{ServerName: d.host, MinVersion: tls.VersionTLS12}
}

// Send opens one SMTP session for msgs and closes it before returning.
func (d *dialer) Send(ctx context.Context, msgs ...*gomail.Message) error {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", net.JoinHostPort(d.host, strconv.Itoa(d.port)))
	if err != nil {
		return fmt.Errorf("dialing smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return fmt.Errorf("setting smtp deadline: %w", err)
		}
	}
	// Cancellation without a deadline must unblock pending I/O too.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if d.port == implicitTLSPort {
		conn = tls.Client(conn, d.tls())
	}

	c, err := smtp.NewClient(conn, d.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("reading smtp greeting: %w", err)
	}
	defer c.Close() //nolint:errcheck // Quit already closed it on success

	if d.port != implicitTLSPort {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(d.tls()); err != nil {
				return fmt.Errorf("starting tls: %w", err)
			}
		}
	}
	if d.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", d.username, d.password, d.host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("authenticating: %w", err)
			}
		}
	}

	send := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, addr := range to {
			if err := c.Rcpt(addr); err != nil {
				return err
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := msg.WriteTo(w); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	})
	if err := gomail.Send(send, msgs...); err != nil {
		return err
	}
	return c.Quit()
}
