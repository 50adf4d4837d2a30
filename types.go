package main

import (
	"image"
	"image/color"
)

// ViewID identifies an open view. Zero means "no view".
type ViewID int

// EditID identifies an edit in a view's history. The initial state is edit 0.
type EditID int

// LayerID is a layer's position in its view.
type LayerID int

type model struct {
	width          int
	height         int
	cursor         image.Point // in view pixels
	panMode        bool
	views          *ViewManager
	canvas         *Canvas
	config         *Config
	colors         []color.RGBA
	colorIndex     int
	mode           Mode
	help           bool
	helpScroll     int
	playing        bool
	filename       string
	fileOp         FileOperation
	confirmAction  ConfirmAction
	errorMessage   string
	successMessage string
}

type tickMsg struct{}
