package scene

// DefaultHistoryLimit bounds the undo stack depth. When the stack is full
// the oldest entry is dropped; the floor entry itself can age out, undo
// simply bottoms out on whatever the oldest surviving snapshot is.
const DefaultHistoryLimit = 32

// HistoryEntry is one immutable undo/redo unit: a label for display, the
// full serialized scene, and the modification flag to restore alongside.
type HistoryEntry struct {
	Label    string
	Snapshot SceneDoc
	Modified bool
}

// History is the undo/redo engine: a bounded linear stack of full-scene
// snapshots with a movable cursor. Snapshots rather than diffs keep every
// undo boundary consistent regardless of what custom content payloads
// nodes carry; restoring is a plain full deserialize with id restoration,
// so identities are stable across undo/redo.
//
// Exactly one Store call brackets each logical user operation, after the
// mutation completes; partial drag updates coalesce into the single commit
// on release.
type History struct {
	scene  *Scene
	stack  []HistoryEntry
	cursor int
	limit  int
}

func newHistory(s *Scene, limit int) *History {
	return &History{scene: s, cursor: -1, limit: limit}
}

// SetLimit changes the stack depth bound. Values below one are ignored.
// An oversized existing stack is trimmed oldest-first on the next store.
func (h *History) SetLimit(limit int) {
	if limit >= 1 {
		h.limit = limit
	}
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.stack) }

// Cursor returns the index of the current entry, or -1 when empty.
func (h *History) Cursor() int { return h.cursor }

// Current returns the entry at the cursor, or nil when empty.
func (h *History) Current() *HistoryEntry {
	if h.cursor < 0 || h.cursor >= len(h.stack) {
		return nil
	}
	return &h.stack[h.cursor]
}

// StoreInitialStamp seeds the stack with the just-loaded or just-cleared
// state as the permanent undo floor; undo never goes below it.
func (h *History) StoreInitialStamp() {
	h.stack = nil
	h.cursor = -1
	h.store("initial state", false)
}

// Store captures the scene after a completed logical operation. Any redo
// entries beyond the cursor are discarded. With setModified the scene is
// flagged modified before the snapshot is taken, so the entry restores
// that state too.
func (h *History) Store(label string, setModified bool) error {
	if setModified {
		h.scene.SetModified(true)
	}
	return h.store(label, h.scene.IsModified())
}

func (h *History) store(label string, modified bool) error {
	snapshot, err := h.scene.Serialize()
	if err != nil {
		return err
	}

	// Drop the redo tail.
	h.stack = h.stack[:h.cursor+1]

	for len(h.stack) >= h.limit {
		h.stack = h.stack[1:]
		h.cursor--
	}

	h.stack = append(h.stack, HistoryEntry{Label: label, Snapshot: snapshot, Modified: modified})
	h.cursor++
	return nil
}

// CanUndo reports whether there is an entry below the cursor. At the
// initial stamp it is false: undo never empties the scene.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether there is an entry beyond the cursor.
func (h *History) CanRedo() bool { return h.cursor+1 < len(h.stack) }

// Undo moves the cursor back one entry and restores the scene from it.
// A no-op at the floor.
func (h *History) Undo() error {
	if !h.CanUndo() {
		return nil
	}
	h.cursor--
	return h.restore(h.stack[h.cursor])
}

// Redo moves the cursor forward one entry and restores the scene from it.
// A no-op at the top.
func (h *History) Redo() error {
	if !h.CanRedo() {
		return nil
	}
	h.cursor++
	return h.restore(h.stack[h.cursor])
}

// restore fully replaces the scene contents from a snapshot, readopting
// the persisted ids so edges and nodes keep their identity across
// undo/redo.
func (h *History) restore(e HistoryEntry) error {
	if err := h.scene.Deserialize(e.Snapshot, NewIDMap(), true); err != nil {
		return err
	}
	h.scene.SetModified(e.Modified)
	return nil
}

// Labels returns the entry labels oldest-first, for display.
func (h *History) Labels() []string {
	labels := make([]string, len(h.stack))
	for i, e := range h.stack {
		labels[i] = e.Label
	}
	return labels
}
