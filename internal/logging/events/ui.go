package events

import "toolshed/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type UndoTracer struct{}

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
	Undo   = UndoTracer{}
)

func (UITracer) TabSwitch(from, to string) {
	logging.Trace("ui.tab", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Cursor(tab string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"tab": tab, "cursor": cursor})
}

func (UITracer) Selection(tab string, count int) {
	logging.Trace("ui.selection", map[string]interface{}{"tab": tab, "count": count})
}

func (UITracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("ui.error", map[string]interface{}{"error": err.Error()})
}

func (FilterTracer) Changed(tab, filter string) {
	logging.Trace("filter.change", map[string]interface{}{"tab": tab, "filter": filter})
}

func (FilterTracer) Cleared(tab string) {
	logging.Trace("filter.clear", map[string]interface{}{"tab": tab})
}

func (UndoTracer) Record(kind string) {
	logging.Trace("undo.record", map[string]interface{}{"kind": kind})
}

func (UndoTracer) Undo(kind string) {
	logging.Trace("undo.apply", map[string]interface{}{"kind": kind})
}

func (UndoTracer) Redo(kind string) {
	logging.Trace("undo.redo", map[string]interface{}{"kind": kind})
}
