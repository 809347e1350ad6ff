package protocol

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/internal/server/events"
	"github.com/sunstyle/sunstyle/pkg/catalog"
)

// journal records the interleaving of sends and publishes so tests can
// assert ordering across the two paths.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// fakeConn records every message the protocol sends it.
type fakeConn struct {
	id       string
	journal  *journal
	mu       sync.Mutex
	messages []Message
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(m Message) {
	if c.journal != nil {
		c.journal.add("send:" + c.id + ":" + m.Event)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

func (c *fakeConn) received() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// fakePublisher records published events.
type fakePublisher struct {
	journal *journal
	mu      sync.Mutex
	events  []events.EventType
	data    []any
}

func (p *fakePublisher) Publish(eventType events.EventType, data any) {
	if p.journal != nil {
		p.journal.add("publish:" + string(eventType))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	p.data = append(p.data, data)
}

func (p *fakePublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.data))
	copy(out, p.data)
	return out
}

func newTestProtocol(t *testing.T) (*Protocol, *fakePublisher, *catalog.Store) {
	t.Helper()
	logger := zerolog.Nop()
	store := catalog.NewStore(filepath.Join(t.TempDir(), "db.json"), &logger)
	pub := &fakePublisher{}
	return New(store, pub, &logger), pub, store
}

// drain processes n queued operations on the caller's goroutine, standing
// in for the Run loop so tests stay deterministic.
func drain(t *testing.T, p *Protocol, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case o := <-p.ops:
			p.handle(o)
		default:
			t.Fatalf("expected %d queued operations, got %d", n, i)
		}
	}
}

func validPrenda(nombre string) map[string]any {
	return map[string]any{
		"nombre":      nombre,
		"descripcion": "Prenda en excelente estado, poco uso",
		"precio":      float64(30),
		"tallas":      []any{"M"},
		"categoria":   "camisas",
		"imagen":      "data:image/jpeg;base64,/9j/4AAQ",
	}
}

func addPrendaFrame(t *testing.T, nombre string, id int64) Frame {
	t.Helper()
	data, err := json.Marshal(validPrenda(nombre))
	if err != nil {
		t.Fatal(err)
	}
	return Frame{Event: EventAddPrenda, ID: id, Data: data}
}

func TestProtocol_ConnectSendsSnapshot(t *testing.T) {
	p, _, store := newTestProtocol(t)
	store.Append(catalog.Item{Nombre: "existente"})

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	drain(t, p, 1)

	got := conn.received()
	if len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
	if got[0].Event != EventPrendasActualizadas {
		t.Errorf("event = %q, want %q", got[0].Event, EventPrendasActualizadas)
	}
	items, ok := got[0].Data.([]catalog.Item)
	if !ok {
		t.Fatalf("snapshot data type = %T", got[0].Data)
	}
	if len(items) != 1 || items[0].Nombre != "existente" {
		t.Errorf("snapshot = %v", items)
	}
}

func TestProtocol_SubmissionAcceptedFlow(t *testing.T) {
	p, pub, store := newTestProtocol(t)
	jrnl := &journal{}
	pub.journal = jrnl

	conn := &fakeConn{id: "c1", journal: jrnl}
	p.Connect(conn)
	drain(t, p, 1)

	name, _ := json.Marshal("María")
	p.HandleFrame(conn, Frame{Event: EventSetUsername, Data: name})
	p.HandleFrame(conn, addPrendaFrame(t, "Camisa Azul", 7))
	drain(t, p, 2)

	// The broadcast carries the stored item with the submitter's name.
	published := pub.published()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	stored, ok := published[0].(catalog.Item)
	if !ok {
		t.Fatalf("published data type = %T", published[0])
	}
	if stored.Vendedor != "María" {
		t.Errorf("Vendedor = %q, want %q", stored.Vendedor, "María")
	}
	if stored.ID == "" || stored.Fecha.IsZero() {
		t.Error("published item missing assigned identity")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}

	// The submitter gets exactly one ack, correlated by ID.
	var acks []Message
	for _, m := range conn.received() {
		if m.Event == EventAck {
			acks = append(acks, m)
		}
	}
	if len(acks) != 1 {
		t.Fatalf("received %d acks, want 1", len(acks))
	}
	if acks[0].ID != 7 {
		t.Errorf("ack ID = %d, want 7", acks[0].ID)
	}
	ack, ok := acks[0].Data.(Ack)
	if !ok {
		t.Fatalf("ack data type = %T", acks[0].Data)
	}
	if !ack.Success || ack.Message != "Prenda publicada correctamente" {
		t.Errorf("ack = %+v", ack)
	}

	// Broadcast happens before the ack.
	var sawPublish bool
	for _, entry := range jrnl.all() {
		if strings.HasPrefix(entry, "publish:") {
			sawPublish = true
		}
		if entry == "send:c1:"+EventAck && !sawPublish {
			t.Error("ack sent before broadcast")
		}
	}
}

func TestProtocol_SubmissionRejectedFlow(t *testing.T) {
	p, pub, store := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	drain(t, p, 1)

	bad := validPrenda("Camisa")
	bad["precio"] = float64(0)
	data, _ := json.Marshal(bad)
	p.HandleFrame(conn, Frame{Event: EventAddPrenda, ID: 3, Data: data})
	drain(t, p, 1)

	if store.Len() != 0 {
		t.Error("rejected submission mutated the catalog")
	}
	if len(pub.published()) != 0 {
		t.Error("rejected submission was broadcast")
	}

	got := conn.received()
	last := got[len(got)-1]
	if last.Event != EventAck || last.ID != 3 {
		t.Fatalf("last message = %+v, want ack with ID 3", last)
	}
	ack := last.Data.(Ack)
	if ack.Success {
		t.Error("ack.Success = true for rejected submission")
	}
	if !strings.Contains(strings.ToLower(ack.Message), "precio") {
		t.Errorf("ack.Message = %q, want the precio reason", ack.Message)
	}
}

func TestProtocol_RejectionIsPrivate(t *testing.T) {
	p, _, _ := newTestProtocol(t)

	submitter := &fakeConn{id: "c1"}
	observer := &fakeConn{id: "c2"}
	p.Connect(submitter)
	p.Connect(observer)
	drain(t, p, 2)
	observerBefore := len(observer.received())

	p.HandleFrame(submitter, Frame{Event: EventAddPrenda, Data: []byte(`"no es un objeto"`)})
	drain(t, p, 1)

	if len(observer.received()) != observerBefore {
		t.Error("observer heard about another client's rejection")
	}
}

func TestProtocol_AnonymousDefault(t *testing.T) {
	p, pub, _ := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	p.HandleFrame(conn, addPrendaFrame(t, "Camisa", 1))
	drain(t, p, 2)

	stored := pub.published()[0].(catalog.Item)
	if stored.Vendedor != AnonymousName {
		t.Errorf("Vendedor = %q, want %q", stored.Vendedor, AnonymousName)
	}
}

func TestProtocol_BlankUsernameStaysAnonymous(t *testing.T) {
	p, pub, _ := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	name, _ := json.Marshal("   ")
	p.HandleFrame(conn, Frame{Event: EventSetUsername, Data: name})
	p.HandleFrame(conn, addPrendaFrame(t, "Camisa", 1))
	drain(t, p, 3)

	stored := pub.published()[0].(catalog.Item)
	if stored.Vendedor != AnonymousName {
		t.Errorf("Vendedor = %q, want %q", stored.Vendedor, AnonymousName)
	}
}

func TestProtocol_UsernameSurvivesUntilDisconnect(t *testing.T) {
	p, pub, _ := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	name, _ := json.Marshal("Pedro")
	p.HandleFrame(conn, Frame{Event: EventSetUsername, Data: name})
	p.HandleFrame(conn, addPrendaFrame(t, "Primera", 1))
	p.HandleFrame(conn, addPrendaFrame(t, "Segunda", 2))
	drain(t, p, 4)

	for i, data := range pub.published() {
		if data.(catalog.Item).Vendedor != "Pedro" {
			t.Errorf("submission %d Vendedor = %q", i, data.(catalog.Item).Vendedor)
		}
	}

	// After disconnect the registry entry is gone; a new connection with
	// the same transport starts anonymous.
	p.Disconnect(conn)
	p.Connect(conn)
	p.HandleFrame(conn, addPrendaFrame(t, "Tercera", 3))
	drain(t, p, 3)

	published := pub.published()
	if got := published[len(published)-1].(catalog.Item).Vendedor; got != AnonymousName {
		t.Errorf("post-reconnect Vendedor = %q, want %q", got, AnonymousName)
	}
}

func TestProtocol_GetPrendasResync(t *testing.T) {
	p, _, store := newTestProtocol(t)
	store.Append(catalog.Item{Nombre: "vieja"})
	store.Append(catalog.Item{Nombre: "nueva"})

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	p.HandleFrame(conn, Frame{Event: EventGetPrendas})
	drain(t, p, 2)

	got := conn.received()
	if len(got) != 2 {
		t.Fatalf("received %d messages, want 2", len(got))
	}
	items := got[1].Data.([]catalog.Item)
	if len(items) != 2 || items[0].Nombre != "nueva" {
		t.Errorf("resync snapshot = %v, want most-recent-first", items)
	}
}

// TestProtocol_BroadcastOrderMatchesSnapshotOrder pins the core guarantee:
// live broadcasts arrive in acceptance order, and a later snapshot shows
// the same items most-recent-first.
func TestProtocol_BroadcastOrderMatchesSnapshotOrder(t *testing.T) {
	p, pub, _ := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)
	p.HandleFrame(conn, addPrendaFrame(t, "A", 1))
	p.HandleFrame(conn, addPrendaFrame(t, "B", 2))
	drain(t, p, 3)

	published := pub.published()
	if len(published) != 2 {
		t.Fatalf("published %d events, want 2", len(published))
	}
	if published[0].(catalog.Item).Nombre != "A" || published[1].(catalog.Item).Nombre != "B" {
		t.Error("broadcasts out of acceptance order")
	}

	late := &fakeConn{id: "c2"}
	p.Connect(late)
	drain(t, p, 1)

	items := late.received()[0].Data.([]catalog.Item)
	if len(items) != 2 || items[0].Nombre != "B" || items[1].Nombre != "A" {
		t.Errorf("late snapshot = %v, want [B A]", items)
	}
}

func TestProtocol_UnknownEvent(t *testing.T) {
	p, _, _ := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.HandleFrame(conn, Frame{Event: "typo"})

	got := conn.received()
	if len(got) != 1 || got[0].Event != EventError {
		t.Fatalf("messages = %v, want a single error", got)
	}
	if !strings.Contains(got[0].Data.(string), "typo") {
		t.Errorf("error data = %v, want it to name the event", got[0].Data)
	}
}

func TestProtocol_MalformedUsernamePayload(t *testing.T) {
	p, _, _ := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.HandleFrame(conn, Frame{Event: EventSetUsername, Data: []byte(`{"nested":`)})

	got := conn.received()
	if len(got) != 1 || got[0].Event != EventError {
		t.Fatalf("messages = %v, want a single error", got)
	}
	select {
	case <-p.ops:
		t.Error("malformed payload still enqueued an operation")
	default:
	}
}

func TestProtocol_MalformedPrendaPayloadIsRejected(t *testing.T) {
	p, pub, store := newTestProtocol(t)

	conn := &fakeConn{id: "c1"}
	p.HandleFrame(conn, Frame{Event: EventAddPrenda, ID: 9, Data: []byte(`{broken`)})
	drain(t, p, 1)

	if store.Len() != 0 || len(pub.published()) != 0 {
		t.Error("malformed payload mutated state")
	}
	got := conn.received()
	if len(got) != 1 || got[0].Event != EventAck {
		t.Fatalf("messages = %v, want one ack", got)
	}
	if got[0].Data.(Ack).Success {
		t.Error("malformed payload was accepted")
	}
}

func TestProtocol_RunProcessesOps(t *testing.T) {
	p, _, _ := newTestProtocol(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	conn := &fakeConn{id: "c1"}
	p.Connect(conn)

	deadline := time.After(2 * time.Second)
	for len(conn.received()) == 0 {
		select {
		case <-deadline:
			t.Fatal("Run loop never delivered the connect snapshot")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if conn.received()[0].Event != EventPrendasActualizadas {
		t.Errorf("first message = %q", conn.received()[0].Event)
	}
}
