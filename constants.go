package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSaveRange
	FileOpExportSheet
	FileOpOpen
	FileOpSlice
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmCloseView
)

type StateKind int

const (
	StateKindOkay StateKind = iota
	StateKindDirty
	StateKindDamaged
	StateKindLayerDirty
	StateKindLayerDamaged
)

func (k StateKind) String() string {
	switch k {
	case StateKindOkay:
		return "Okay"
	case StateKindDirty:
		return "Dirty"
	case StateKindDamaged:
		return "Damaged"
	case StateKindLayerDirty:
		return "LayerDirty"
	case StateKindLayerDamaged:
		return "LayerDamaged"
	}
	return "Unknown"
}

type EditKind int

const (
	EditInitial EditKind = iota
	EditLayerPainted
	EditLayerAdded
	EditViewResized
	EditViewPainted
)

func (k EditKind) String() string {
	switch k {
	case EditInitial:
		return "initial"
	case EditLayerPainted:
		return "layer-painted"
	case EditLayerAdded:
		return "layer-added"
	case EditViewResized:
		return "view-resized"
	case EditViewPainted:
		return "view-painted"
	}
	return "unknown"
}

// Direction of travel through the edit history.
type Direction int

const (
	Backward Direction = iota
	Forward
)

type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

const (
	defaultFrameWidth  = 16
	defaultFrameHeight = 16
	defaultMaxViews    = 24
	defaultFPS         = 6
	maxZoom            = 16
	archiveExt         = ".spx"
)
