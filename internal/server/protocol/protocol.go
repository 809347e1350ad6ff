package protocol

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/internal/server/events"
	"github.com/sunstyle/sunstyle/pkg/catalog"
	"github.com/sunstyle/sunstyle/pkg/errors"
)

// AnonymousName is the display name for connections that never called
// setUsername. Naming is advisory: it never gates catalog operations.
const AnonymousName = "Anónimo"

// ackAccepted is the message carried by a successful submission ack.
const ackAccepted = "Prenda publicada correctamente"

// Publisher is the broadcast side of the protocol: publishing an event
// delivers it to every registered connection. Satisfied by *events.Broker.
type Publisher interface {
	Publish(eventType events.EventType, data any)
}

type opKind int

const (
	opConnect opKind = iota
	opDisconnect
	opSetUsername
	opGetPrendas
	opAddPrenda
)

// op is a single protocol operation, processed serially by Run.
type op struct {
	kind      opKind
	conn      Conn
	name      string
	candidate any
	ackID     int64
}

// Protocol is the synchronization protocol state machine. It owns the
// connection registry and is the only mutator of the catalog store.
type Protocol struct {
	store     *catalog.Store
	publisher Publisher
	ops       chan op
	names     map[Conn]string
	logger    *zerolog.Logger
}

// New creates a protocol bound to the given store and publisher.
func New(store *catalog.Store, publisher Publisher, logger *zerolog.Logger) *Protocol {
	return &Protocol{
		store:     store,
		publisher: publisher,
		ops:       make(chan op, 256),
		names:     make(map[Conn]string),
		logger:    logger,
	}
}

// Run processes protocol operations serially until the context is
// cancelled. Should be called in a goroutine.
func (p *Protocol) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Protocol loop stopped")
			return
		case o := <-p.ops:
			p.handle(o)
		}
	}
}

// Connect registers a new connection and sends it the full current catalog
// snapshot. Callers must have subscribed the connection to broadcasts
// before calling Connect so no accepted item can fall in a gap.
func (p *Protocol) Connect(c Conn) {
	p.ops <- op{kind: opConnect, conn: c}
}

// Disconnect removes all registry state for a connection. Terminal.
func (p *Protocol) Disconnect(c Conn) {
	p.ops <- op{kind: opDisconnect, conn: c}
}

// HandleFrame decodes an inbound frame and enqueues the matching
// operation. Unknown events and undecodable payloads are answered with an
// error message on the offending connection only.
func (p *Protocol) HandleFrame(c Conn, f Frame) {
	switch f.Event {
	case EventSetUsername:
		var name string
		if err := json.Unmarshal(f.Data, &name); err != nil {
			c.Send(Message{Event: EventError, Data: "nombre de usuario inválido"})
			return
		}
		p.ops <- op{kind: opSetUsername, conn: c, name: name}

	case EventGetPrendas:
		p.ops <- op{kind: opGetPrendas, conn: c}

	case EventAddPrenda:
		var candidate any
		if len(f.Data) > 0 {
			// Decode errors leave candidate nil; the validator rejects it.
			_ = json.Unmarshal(f.Data, &candidate)
		}
		p.ops <- op{kind: opAddPrenda, conn: c, candidate: candidate, ackID: f.ID}

	default:
		p.logger.Debug().
			Str("event", f.Event).
			Str("conn_id", c.ID()).
			Msg("Unknown event")
		c.Send(Message{Event: EventError, Data: "evento desconocido: " + f.Event})
	}
}

// handle executes one operation. Only called from the Run goroutine.
func (p *Protocol) handle(o op) {
	switch o.kind {
	case opConnect:
		p.names[o.conn] = ""
		o.conn.Send(Message{Event: EventPrendasActualizadas, Data: p.store.Snapshot()})
		p.logger.Info().
			Str("conn_id", o.conn.ID()).
			Int("connections", len(p.names)).
			Msg("Client connected")

	case opDisconnect:
		name := p.displayName(o.conn)
		delete(p.names, o.conn)
		p.logger.Info().
			Str("conn_id", o.conn.ID()).
			Str("vendedor", name).
			Int("connections", len(p.names)).
			Msg("Client disconnected")

	case opSetUsername:
		p.names[o.conn] = strings.TrimSpace(o.name)
		p.logger.Info().
			Str("conn_id", o.conn.ID()).
			Str("vendedor", p.displayName(o.conn)).
			Msg("Username registered")

	case opGetPrendas:
		o.conn.Send(Message{Event: EventPrendasActualizadas, Data: p.store.Snapshot()})

	case opAddPrenda:
		p.submit(o)
	}
}

// submit validates a candidate and, on acceptance, appends it to the store,
// broadcasts it to every connection, and acknowledges the submitter. On
// rejection nothing mutates and only the submitter hears about it.
func (p *Protocol) submit(o op) {
	item, err := catalog.Validate(o.candidate)
	if err != nil {
		reason := err.Error()
		var verr *errors.ValidationError
		if errors.As(err, &verr) {
			reason = verr.Message
		}
		o.conn.Send(Message{
			Event: EventAck,
			ID:    o.ackID,
			Data:  Ack{Success: false, Message: reason},
		})
		p.logger.Debug().
			Str("conn_id", o.conn.ID()).
			Str("reason", reason).
			Msg("Submission rejected")
		return
	}

	item.Vendedor = p.displayName(o.conn)
	stored := p.store.Append(item)

	// Broadcast before the ack so the submitter's own view updates the
	// same way every other client's does.
	p.publisher.Publish(events.ItemAdded, stored)
	o.conn.Send(Message{
		Event: EventAck,
		ID:    o.ackID,
		Data:  Ack{Success: true, Message: ackAccepted},
	})

	p.logger.Info().
		Str("item_id", stored.ID).
		Str("nombre", stored.Nombre).
		Str("vendedor", stored.Vendedor).
		Msg("Prenda added")
}

// displayName resolves a connection's advisory display name.
func (p *Protocol) displayName(c Conn) string {
	if name := p.names[c]; name != "" {
		return name
	}
	return AnonymousName
}
