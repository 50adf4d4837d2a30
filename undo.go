package main

import "log/slog"

// RestoreSnapshot moves one step through the history and replays the smallest
// state change that brings the view in line with the restored edit. It reports
// whether the cursor moved.
func (v *View) RestoreSnapshot(dir Direction) bool {
	var (
		eid  EditID
		edit Edit
		ok   bool
	)
	if dir == Backward {
		eid, edit, ok = v.resource.HistoryPrev()
	} else {
		eid, edit, ok = v.resource.HistoryNext()
	}
	if !ok {
		return false
	}
	slog.Debug("restoring snapshot", "view", v.ID, "edit", eid, "kind", edit.Kind.String())

	switch edit.Kind {
	case EditLayerPainted:
		v.LayerDamaged(edit.Layer)
		v.refreshFileStatus(eid)
	case EditLayerAdded:
		if dir == Backward {
			v.RemoveLayer(edit.Layer)
		} else {
			// Only the last layer can ever be removed, so the re-pushed layer
			// lands on the recorded id.
			if id := v.PushLayer(); id != edit.Layer {
				panic("redo: re-added layer does not match the recorded layer")
			}
		}
		v.refreshFileStatus(eid)
	case EditViewResized:
		ext := edit.To
		if dir == Backward {
			ext = edit.From
		}
		v.Damaged(&ext)
		v.reset(ext)
		v.refreshFileStatus(eid)
	case EditViewPainted:
		v.Damaged(nil)
		v.refreshFileStatus(eid)
	case EditInitial:
	}
	return true
}

func (m *model) undo() {
	v := m.views.Active()
	if v == nil {
		return
	}
	if !v.RestoreSnapshot(Backward) {
		m.errorMessage = "Already at oldest change"
		return
	}
	m.clampCursor()
}

func (m *model) redo() {
	v := m.views.Active()
	if v == nil {
		return
	}
	if !v.RestoreSnapshot(Forward) {
		m.errorMessage = "Already at newest change"
		return
	}
	m.clampCursor()
}
