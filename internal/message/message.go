// internal/message/message.go
//
// Outbound notifications.
//
// Context
//   The contact component announces every stored submission so an external
//   worker can e-mail the site owner.  Publisher hides the transport:
//
//     • NATSPublisher – JSON payload on a NATS subject (production).
//     • LogPublisher  – logs the event; used when nats.url is empty.
//
//   Publishing is fire-and-forget from the handler's point of view.  A
//   failed publish is logged by the caller and never fails the request.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ContactSubmitted is published after a contact form row is stored.
type ContactSubmitted struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher sends one event.
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
	Close()
}

/*──────────────────────────── log fallback ────────────────────────────────*/

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	Log *zap.SugaredLogger
}

// Publish implements Publisher.
func (p LogPublisher) Publish(_ context.Context, subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	p.logger().Infow("event", "subject", subject, "payload", string(b))
	return nil
}

// Close implements Publisher.
func (LogPublisher) Close() {}

func (p LogPublisher) logger() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.S()
}

/*──────────────────────────────── NATS ────────────────────────────────────*/

// conn is the subset of *nats.Conn used here.
type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATSPublisher publishes JSON payloads on core NATS.
type NATSPublisher struct {
	nc conn
}

// DialNATS connects to url with reconnects enabled.
func DialNATS(url string, log *zap.SugaredLogger) (*NATSPublisher, error) {
	if log == nil {
		log = zap.S()
	}
	nc, err := nats.Connect(url,
		nats.Name("corpsite"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnw("nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infow("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// Publish implements Publisher.  ctx is checked before sending; core NATS
// publishes do not block on the server.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() { _ = p.nc.Drain() }
