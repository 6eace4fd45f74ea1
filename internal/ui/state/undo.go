package state

// ActionKind tags an undoable action variant.
type ActionKind int

const (
	ActionSelection ActionKind = iota
	ActionFilter
	ActionSort
	ActionTabSwitch
	ActionLabelEdit
)

func (k ActionKind) String() string {
	switch k {
	case ActionSelection:
		return "selection"
	case ActionFilter:
		return "filter"
	case ActionSort:
		return "sort"
	case ActionTabSwitch:
		return "tab-switch"
	case ActionLabelEdit:
		return "label-edit"
	default:
		return "unknown"
	}
}

// Action is one undoable UI-state mutation. It carries the state that
// was current before the mutation, so applying it restores that state.
// Only local, reversible state is recorded here; destructive external
// operations go through confirm dialogs instead.
type Action struct {
	Kind ActionKind
	Tab  Kind

	Selection map[string]struct{}
	Filter    string
	Sort      SortKey
	PrevTab   Kind
	ToolID    string
	Labels    []string
}

// SelectionAction captures a tab's selection before it changes.
func SelectionAction(tab Kind, previous map[string]struct{}) Action {
	return Action{Kind: ActionSelection, Tab: tab, Selection: previous}
}

// FilterAction captures a tab's filter before it changes.
func FilterAction(tab Kind, previous string) Action {
	return Action{Kind: ActionFilter, Tab: tab, Filter: previous}
}

// SortAction captures a tab's sort key before it changes.
func SortAction(tab Kind, previous SortKey) Action {
	return Action{Kind: ActionSort, Tab: tab, Sort: previous}
}

// TabSwitchAction captures the tab that was active before a switch.
func TabSwitchAction(previous Kind) Action {
	return Action{Kind: ActionTabSwitch, PrevTab: previous}
}

// LabelEditAction captures a tool's labels before an edit.
func LabelEditAction(toolID string, previous []string) Action {
	return Action{Kind: ActionLabelEdit, ToolID: toolID, Labels: append([]string(nil), previous...)}
}

// History holds the bounded undo and redo stacks. Recording a new
// action clears the redo stack; overflow drops the oldest undo entry
// without touching redo.
type History struct {
	undo  []Action
	redo  []Action
	limit int
}

// NewHistory builds a history bounded to limit entries per stack.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Record pushes an action onto the undo stack and clears redo.
func (h *History) Record(a Action) {
	h.undo = append(h.undo, a)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// Undo pops the most recent action. The caller applies it and pushes
// the counterpart (current state) via PushRedo.
func (h *History) Undo() (Action, bool) {
	if len(h.undo) == 0 {
		return Action{}, false
	}
	a := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return a, true
}

// Redo pops the most recent undone action. The caller applies it and
// pushes the counterpart via PushUndo.
func (h *History) Redo() (Action, bool) {
	if len(h.redo) == 0 {
		return Action{}, false
	}
	a := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return a, true
}

// PushRedo stores the counterpart of an undone action.
func (h *History) PushRedo(a Action) {
	h.redo = append(h.redo, a)
	if len(h.redo) > h.limit {
		h.redo = h.redo[1:]
	}
}

// PushUndo stores the counterpart of a redone action without clearing
// the redo stack.
func (h *History) PushUndo(a Action) {
	h.undo = append(h.undo, a)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
}

// ApplyToTab applies a tab-scoped action and returns the counterpart
// capturing the state it replaced. Tab switches and label edits are
// applied by the event router, not here.
func ApplyToTab(t *Tab, a Action) Action {
	switch a.Kind {
	case ActionSelection:
		counter := SelectionAction(a.Tab, t.SelectionSnapshot())
		t.SetSelection(a.Selection)
		return counter
	case ActionFilter:
		counter := FilterAction(a.Tab, t.Filter)
		t.SetFilter(a.Filter, len([]rune(a.Filter)))
		return counter
	case ActionSort:
		counter := SortAction(a.Tab, t.Sort)
		t.SetSort(a.Sort)
		return counter
	default:
		return a
	}
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
