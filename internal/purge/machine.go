package purge

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Phase int

const (
	PhaseSelect Phase = iota
	PhaseConfirm
	PhaseTyping
	PhaseLastWords
	PhasePurging
)

func (p Phase) String() string {
	switch p {
	case PhaseSelect:
		return "select"
	case PhaseConfirm:
		return "confirm"
	case PhaseTyping:
		return "typing"
	case PhaseLastWords:
		return "lastwords"
	case PhasePurging:
		return "purging"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Token is the word that must be typed to arm the purge.
const Token = "PURGE"

var (
	ErrNothingSelected = errors.New("no entries selected for purge")
	ErrTokenMismatch   = errors.New("confirmation token does not match")
	ErrWrongPhase      = errors.New("action not allowed in current phase")
)

// Deleter removes one entry from the data store.
type Deleter interface {
	DeleteEntry(ctx context.Context, id string) error
}

// Machine drives the multi-step purge confirmation. It is not safe for concurrent use;
// the terminal client owns it from its update loop.
type Machine struct {
	phase    Phase
	entries  []string
	selected map[string]bool
	method   Method
	input    string
	epitaph  string
	current  string
}

func NewMachine(entryIDs []string) *Machine {
	m := &Machine{selected: make(map[string]bool)}
	m.SetEntries(entryIDs)
	return m
}

// SetEntries replaces the local entry list, dropping selections that no longer exist.
func (m *Machine) SetEntries(ids []string) {
	m.entries = append([]string(nil), ids...)
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if m.selected[id] {
			keep[id] = true
		}
	}
	m.selected = keep
}

func (m *Machine) Phase() Phase      { return m.phase }
func (m *Machine) Method() Method    { return m.method }
func (m *Machine) Entries() []string { return append([]string(nil), m.entries...) }
func (m *Machine) Epitaph() string   { return m.epitaph }
func (m *Machine) IsSelected(id string) bool {
	return m.selected[id]
}

// Selected returns the pending set in list order.
func (m *Machine) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for _, id := range m.entries {
		if m.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// Toggle flips membership of id in the pending set. Only allowed while selecting.
func (m *Machine) Toggle(id string) error {
	if m.phase != PhaseSelect {
		return ErrWrongPhase
	}
	if !m.has(id) {
		return fmt.Errorf("unknown entry %q", id)
	}
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	return nil
}

// SetMethod picks the destruction method. Allowed in any phase except while purging.
func (m *Machine) SetMethod(method Method) error {
	if !method.Valid() {
		return fmt.Errorf("unknown method %d", int(method))
	}
	if m.phase == PhasePurging {
		return ErrWrongPhase
	}
	m.method = method
	return nil
}

func (m *Machine) Initiate() error {
	if m.phase != PhaseSelect {
		return ErrWrongPhase
	}
	if len(m.selected) == 0 {
		return ErrNothingSelected
	}
	m.phase = PhaseConfirm
	return nil
}

func (m *Machine) ConfirmMethod() error {
	if m.phase != PhaseConfirm {
		return ErrWrongPhase
	}
	m.phase = PhaseTyping
	return nil
}

// SubmitToken advances only when s, upper-cased, is exactly Token.
func (m *Machine) SubmitToken(s string) error {
	if m.phase != PhaseTyping {
		return ErrWrongPhase
	}
	m.input = s
	if strings.ToUpper(s) != Token {
		return ErrTokenMismatch
	}
	m.phase = PhaseLastWords
	return nil
}

// SetEpitaph records the last words. They are shown during the purge and then discarded.
func (m *Machine) SetEpitaph(s string) error {
	if m.phase != PhaseLastWords {
		return ErrWrongPhase
	}
	m.epitaph = s
	return nil
}

// Ignite starts destruction with the first selected entry.
func (m *Machine) Ignite() error {
	if m.phase != PhaseLastWords {
		return ErrWrongPhase
	}
	sel := m.Selected()
	if len(sel) == 0 {
		m.reset()
		return ErrNothingSelected
	}
	m.phase = PhasePurging
	m.current = sel[0]
	return nil
}

// Current is the entry whose animation is playing, or "" outside the purging phase.
func (m *Machine) Current() string {
	if m.phase != PhasePurging {
		return ""
	}
	return m.current
}

// Result reports what one AnimationDone call did.
type Result struct {
	Deleted  string
	Next     string
	Finished bool
}

// AnimationDone deletes the current entry once its animation has played and queues the next.
// A failed delete aborts the rest of the queue; entries already deleted stay deleted.
func (m *Machine) AnimationDone(ctx context.Context, d Deleter) (Result, error) {
	if m.phase != PhasePurging || m.current == "" {
		return Result{}, ErrWrongPhase
	}
	id := m.current
	if err := d.DeleteEntry(ctx, id); err != nil {
		m.reset()
		return Result{}, fmt.Errorf("purge %s: %w", id, err)
	}

	m.remove(id)
	res := Result{Deleted: id}
	if sel := m.Selected(); len(sel) > 0 {
		m.current = sel[0]
		res.Next = m.current
		return res, nil
	}
	m.reset()
	m.selected = make(map[string]bool)
	res.Finished = true
	return res, nil
}

// Cancel aborts from confirm, typing or lastwords back to select. The selection is kept.
func (m *Machine) Cancel() error {
	switch m.phase {
	case PhaseConfirm, PhaseTyping, PhaseLastWords:
		m.reset()
		return nil
	}
	return ErrWrongPhase
}

func (m *Machine) reset() {
	m.phase = PhaseSelect
	m.input = ""
	m.epitaph = ""
	m.current = ""
}

func (m *Machine) remove(id string) {
	delete(m.selected, id)
	for i, e := range m.entries {
		if e == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

func (m *Machine) has(id string) bool {
	for _, e := range m.entries {
		if e == id {
			return true
		}
	}
	return false
}
