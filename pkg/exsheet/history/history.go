// Package history keeps bounded undo and redo stacks of deep-copied
// workbook snapshots.
package history

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// DefaultLimit is the default maximum number of undo snapshots.
const DefaultLimit = 100

// Manager holds the undo and redo stacks. The zero value is not usable;
// call New.
type Manager struct {
	undo  []models.Workbook
	redo  []models.Workbook
	limit int
}

// New returns a Manager keeping at most limit undo snapshots. A limit <= 0
// selects DefaultLimit.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Clone returns a deep copy of a workbook.
func Clone(wb models.Workbook) (models.Workbook, error) {
	var dst models.Workbook
	if err := deepcopy.Copy(&dst, wb); err != nil {
		return models.Workbook{}, fmt.Errorf("snapshot workbook: %w", err)
	}
	return dst, nil
}

// Push records state as the newest undo snapshot and clears the redo stack.
// When the stack is full the oldest snapshot is discarded.
func (m *Manager) Push(state models.Workbook) error {
	snap, err := Clone(state)
	if err != nil {
		return err
	}
	m.undo = m.pushCapped(m.undo, snap)
	m.redo = nil
	return nil
}

// Undo returns the previous state and records current on the redo stack.
// ok is false, and nothing changes, when there is nothing to undo.
func (m *Manager) Undo(current models.Workbook) (prev models.Workbook, ok bool, err error) {
	if len(m.undo) == 0 {
		return models.Workbook{}, false, nil
	}
	snap, err := Clone(current)
	if err != nil {
		return models.Workbook{}, false, err
	}
	m.redo = m.pushCapped(m.redo, snap)
	prev = m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	return prev, true, nil
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current models.Workbook) (next models.Workbook, ok bool, err error) {
	if len(m.redo) == 0 {
		return models.Workbook{}, false, nil
	}
	snap, err := Clone(current)
	if err != nil {
		return models.Workbook{}, false, err
	}
	m.undo = m.pushCapped(m.undo, snap)
	next = m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	return next, true, nil
}

// CanUndo reports whether an undo snapshot exists.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether a redo snapshot exists.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoLen returns the number of undo snapshots.
func (m *Manager) UndoLen() int { return len(m.undo) }

// RedoLen returns the number of redo snapshots.
func (m *Manager) RedoLen() int { return len(m.redo) }

// Limit returns the maximum stack depth.
func (m *Manager) Limit() int { return m.limit }

// Reset empties both stacks.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager) pushCapped(stack []models.Workbook, snap models.Workbook) []models.Workbook {
	stack = append(stack, snap)
	if over := len(stack) - m.limit; over > 0 {
		clear(stack[:over])
		stack = stack[over:]
	}
	return stack
}
