package session

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
)

// StatusAnalyzing is sent as soon as a message is received.
const StatusAnalyzing = "Analyzing input..."

var (
	// ErrClosed is returned by Conn.ReadText when the peer went away.
	ErrClosed = errors.New("connection closed")

	// ErrUnsupportedMessage is returned by Conn.ReadText for a frame that
	// is not text. The session reports it and keeps reading.
	ErrUnsupportedMessage = errors.New("only text messages are supported")

	// ErrRateLimited is returned by Conn.ReadText when the client has used
	// up its analysis budget. The message is refused and the session stays open.
	ErrRateLimited = errors.New("rate limit exceeded, try again later")
)

// Conn is the duplex channel a streaming session runs over.
type Conn interface {
	// ReadText blocks until the next text message arrives.
	ReadText() (string, error)
	// WriteEvent sends one event to the client.
	WriteEvent(models.SessionEvent) error
}

// State is the lifecycle position of a streaming session.
type State string

const (
	StateOpen       State = "open"
	StateReceiving  State = "receiving"
	StateProcessing State = "processing"
	StateEmitting   State = "emitting"
	StateClosed     State = "closed"
)

// Session is one streaming connection.
type Session struct {
	ID    string
	State State
}

func (s *Session) transition(to State) {
	s.State = to
}

// Stream serves a streaming session until the client disconnects.
//
// For every inbound message it sends a status event, runs Process, and
// sends exactly one result or error event. A failed message does not end
// the session. Work already started is not canceled when the client
// disconnects: the completion call and the report write finish and the
// result is dropped.
//
// Stream returns nil when the peer closed the connection and an error when
// the transport failed.
func (o *Orchestrator) Stream(ctx context.Context, conn Conn) error {
	s := &Session{ID: uuid.NewString(), State: StateOpen}
	log.Printf("🔌 Session %s opened", s.ID)

	// Processing must outlive the connection; only values are inherited.
	workCtx := context.WithoutCancel(ctx)

	for {
		s.transition(StateReceiving)
		text, err := conn.ReadText()
		if errors.Is(err, ErrUnsupportedMessage) || errors.Is(err, ErrRateLimited) {
			if err := conn.WriteEvent(models.ErrorEvent(err.Error())); err != nil {
				return o.close(s, err)
			}
			continue
		}
		if err != nil {
			return o.close(s, err)
		}

		s.transition(StateProcessing)
		if err := conn.WriteEvent(models.StatusEvent(StatusAnalyzing)); err != nil {
			return o.close(s, err)
		}

		resp, err := o.Process(workCtx, text)

		s.transition(StateEmitting)
		var event models.SessionEvent
		if err != nil {
			_, code, detail := Classify(err)
			log.Printf("⚠️  Session %s: analysis failed (%s): %v", s.ID, code, err)
			event = models.ErrorEvent(detail)
		} else {
			event = models.ResultEvent(resp)
		}

		if err := conn.WriteEvent(event); err != nil {
			return o.close(s, err)
		}
	}
}

// close moves s to Closed and decides whether err was a clean disconnect.
func (o *Orchestrator) close(s *Session, err error) error {
	s.transition(StateClosed)
	if errors.Is(err, ErrClosed) {
		log.Printf("🔌 Session %s closed by client", s.ID)
		return nil
	}
	log.Printf("🔌 Session %s closed: %v", s.ID, err)
	return err
}
