// Package log defines the external key-event log interface (§6) the
// stream validator reads from and writes to, plus an in-memory
// implementation used by tests and the CLI.
package log

import (
	"context"
	"fmt"
	"sync"

	"github.com/cvsouth/keri-go/pkg/keriox/attach"
	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/event"
)

// Receipt records one accepted receipt against a specific key event, keyed
// by the identifier and sequence number it receipts.
type Receipt struct {
	Identifier string
	Sn         uint64
	// Signatures has one zero-valued entry per couplet the receipt carried
	// (none for transferable receipts); which witnesses signed is not
	// recorded.
	Signatures []int
}

// Log is the durable store the stream validator depends on: retrieving an
// identifier's current state and historical events, and persisting new
// ones. Implementations must make Append* and CommitState atomic with
// respect to concurrent readers of the same identifier.
type Log interface {
	GetState(ctx context.Context, identifier string) (*event.IdentifierState, error)
	GetEvent(ctx context.Context, identifier string, sn uint64) (raw []byte, ev *event.Event, err error)
	GetEventByDigest(ctx context.Context, identifier string, digest string) (raw []byte, ev *event.Event, err error)
	AppendEvent(ctx context.Context, identifier string, raw []byte, ev *event.Event) error
	AppendReceipt(ctx context.Context, identifier string, sn uint64, sigs []attach.Couplet) error
	CommitState(ctx context.Context, state *event.IdentifierState) error
}

// ErrNotFound is returned by GetEvent/GetEventByDigest when the requested
// identifier or event is unknown to the log. GetState reports an unknown
// identifier as a nil state with a nil error.
type ErrNotFound struct {
	What string
}

func (e *ErrNotFound) Error() string { return "not found: " + e.What }

// Memory is a Log backed by in-process maps, adequate for tests and for
// the CLI's single-shot validation runs.
type Memory struct {
	mu        sync.RWMutex
	states    map[string]*event.IdentifierState
	eventsBySn map[string]map[uint64]entry
	eventsByDg map[string]map[string]entry
	receipts  map[string][]Receipt
}

type entry struct {
	raw []byte
	ev  *event.Event
}

// NewMemory returns an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{
		states:     make(map[string]*event.IdentifierState),
		eventsBySn: make(map[string]map[uint64]entry),
		eventsByDg: make(map[string]map[string]entry),
		receipts:   make(map[string][]Receipt),
	}
}

func (m *Memory) GetState(_ context.Context, identifier string) (*event.IdentifierState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[identifier]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *Memory) GetEvent(_ context.Context, identifier string, sn uint64) ([]byte, *event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bySn, ok := m.eventsBySn[identifier]
	if !ok {
		return nil, nil, &ErrNotFound{What: fmt.Sprintf("identifier %s", identifier)}
	}
	e, ok := bySn[sn]
	if !ok {
		return nil, nil, &ErrNotFound{What: fmt.Sprintf("%s at sn %d", identifier, sn)}
	}
	return e.raw, e.ev, nil
}

func (m *Memory) GetEventByDigest(_ context.Context, identifier string, digest string) ([]byte, *event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDg, ok := m.eventsByDg[identifier]
	if !ok {
		return nil, nil, &ErrNotFound{What: fmt.Sprintf("identifier %s", identifier)}
	}
	e, ok := byDg[digest]
	if !ok {
		return nil, nil, &ErrNotFound{What: fmt.Sprintf("%s at digest %s", identifier, digest)}
	}
	return e.raw, e.ev, nil
}

func (m *Memory) AppendEvent(_ context.Context, identifier string, raw []byte, ev *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventsBySn[identifier] == nil {
		m.eventsBySn[identifier] = make(map[uint64]entry)
		m.eventsByDg[identifier] = make(map[string]entry)
	}
	e := entry{raw: append([]byte(nil), raw...), ev: ev}
	m.eventsBySn[identifier][ev.Sn] = e
	if dig, err := derive.DigestCode(derive.DefaultSelfAddressing, e.raw); err == nil {
		m.eventsByDg[identifier][dig] = e
	}
	return nil
}

func (m *Memory) AppendReceipt(_ context.Context, identifier string, sn uint64, sigs []attach.Couplet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	indices := make([]int, len(sigs))
	m.receipts[identifier] = append(m.receipts[identifier], Receipt{Identifier: identifier, Sn: sn, Signatures: indices})
	return nil
}

func (m *Memory) CommitState(_ context.Context, state *event.IdentifierState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.Prefix] = state.Clone()
	return nil
}
