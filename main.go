package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	config := loadConfig()
	closeLog, err := setupLogging(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "spritely: logging disabled:", err)
	}
	defer closeLog()

	m := initialModel(config, os.Args[1:])
	p := tea.NewProgram(m, tea.WithAltScreen())
	if path := configPath(); path != "" {
		if stop, err := watchConfig(path, p.Send); err != nil {
			slog.Warn("config watch disabled", "err", err)
		} else {
			defer stop()
		}
	}
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config, paths []string) *model {
	m := &model{
		views:  NewViewManager(config.MaxViews),
		canvas: NewCanvas(),
		config: config,
		colors: config.Colors(),
		mode:   ModeNormal,
	}
	for _, path := range paths {
		id, err := m.open(path)
		if err != nil {
			m.errorMessage = err.Error()
			continue
		}
		m.views.Activate(id)
	}
	if m.views.IsEmpty() {
		if config.StartMenu {
			m.mode = ModeStartup
		} else {
			m.newView()
		}
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) newView() {
	extent := NewViewExtent(m.config.FrameWidth, m.config.FrameHeight, 1)
	m.views.Activate(newBlankView(m.views, FileNoFile(), extent))
	m.cursor = image.Point{}
}

// sync hands the active view's queued ops to the canvas.
func (m *model) sync() {
	if v := m.getCurrentView(); v != nil {
		m.canvas.Sync(v)
	}
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.config.FPS), func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if v := m.getCurrentView(); v != nil {
			v.StepAnimation()
			m.clampCursor()
		}
		return m, m.tick()

	case configReloadedMsg:
		m.config = msg.config
		m.colors = msg.config.Colors()
		m.colorIndex %= len(m.colors)
		m.successMessage = "Config reloaded"
		return m, nil

	case configErrorMsg:
		m.errorMessage = "Config: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.updateHelp(msg), nil
		}
		m.errorMessage = ""
		m.successMessage = ""
		var cmd tea.Cmd
		switch m.mode {
		case ModeStartup:
			cmd = m.updateStartup(msg)
		case ModeFileInput:
			m.updateFileInput(msg)
		case ModeConfirm:
			cmd = m.updateConfirm(msg)
		default:
			cmd = m.updateNormal(msg)
		}
		m.sync()
		return m, cmd
	}
	return m, nil
}

func (m *model) updateStartup(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "n":
		m.newView()
		m.mode = ModeNormal
	case "o":
		m.startFileInput(FileOpOpen, "")
	case "q", "ctrl+c":
		return tea.Quit
	}
	return nil
}

func (m *model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	v := m.getCurrentView()
	if v == nil {
		m.mode = ModeStartup
		return nil
	}
	key := msg.String()
	if msg.Type == tea.KeyEscape {
		m.panMode = false
		return nil
	}

	switch key {
	case "ctrl+c", "q":
		if m.config.Confirmations && m.anyModified() {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return nil
		}
		return tea.Quit
	case "?":
		m.help = true
	case "z":
		m.panMode = !m.panMode
	case "h", "j", "k", "l", "left", "right", "up", "down",
		"H", "J", "K", "L", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))

	case " ":
		v.Paint(m.cursor, m.colors[m.colorIndex])
	case "x":
		v.Paint(m.cursor, color.RGBA{})
	case "X":
		v.ClearLayer()
	case "i":
		m.pickColor(v)
	case "c":
		m.colorIndex = (m.colorIndex + 1) % len(m.colors)
	case "C":
		m.colorIndex = (m.colorIndex + len(m.colors) - 1) % len(m.colors)

	case "f":
		v.Extend()
	case "F":
		v.ExtendClone(m.cursorFrame())
	case "D":
		if !v.Shrink() {
			m.errorMessage = "Can't remove the only frame"
		}
		m.clampCursor()
	case "/":
		m.startFileInput(FileOpSlice, strconv.Itoa(v.Extent().NFrames))

	case "a":
		id := v.NewLayer()
		m.successMessage = fmt.Sprintf("Layer %d added", id+1)
	case "[":
		v.PrevLayer()
	case "]":
		v.NextLayer()
	case "v":
		v.ToggleLayer(v.ActiveLayerID())

	case "y":
		if v.Yank(v.Extent().Frame(m.cursorFrame())) {
			m.successMessage = "Frame yanked"
		}
	case "p":
		v.Paste(v.Extent().Frame(m.cursorFrame()))
	case "m":
		v.Flip(v.Extent().Frame(m.cursorFrame()), AxisHorizontal)
	case "M":
		v.Flip(v.Extent().Frame(m.cursorFrame()), AxisVertical)
	case "+", "=":
		v.SetZoom(v.Zoom() + 1)
		m.clampCursor()
	case "-":
		v.SetZoom(v.Zoom() - 1)
		m.clampCursor()
	case "P":
		m.playing = !m.playing
		m.clampCursor()
		if m.playing {
			return m.tick()
		}

	case "u":
		m.undo()
	case "U", "ctrl+r":
		m.redo()

	case "s":
		if storage, ok := v.FileStatus().Storage(); ok {
			m.save(v, storage)
		} else {
			m.startFileInput(FileOpSave, "")
		}
	case "S":
		m.startFileInput(FileOpSave, "")
	case "R":
		m.startFileInput(FileOpSaveRange, "")
	case "E":
		m.startFileInput(FileOpExportSheet, "")
	case "o":
		m.startFileInput(FileOpOpen, "")
	case "n", "N":
		m.newView()
	case "w":
		if m.config.Confirmations && v.IsModified() {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmCloseView
			return nil
		}
		m.closeView(v.ID)
	case "{":
		m.switchView(Backward)
	case "}":
		m.switchView(Forward)
	}
	return nil
}

// pickColor selects the colour under the cursor, taken from the topmost
// visible layer. Colours missing from the palette are appended to it.
func (m *model) pickColor(v *View) {
	layer, ok := v.LayerAt(m.cursor)
	if !ok {
		m.errorMessage = "Nothing to pick here"
		return
	}
	c, _ := v.ColorAt(layer, m.cursor)
	if i := slices.Index(m.colors, c); i >= 0 {
		m.colorIndex = i
	} else {
		m.colors = append(m.colors, c)
		m.colorIndex = len(m.colors) - 1
	}
	m.successMessage = fmt.Sprintf("Picked %s from layer %d", hexColor(c), layer+1)
}

func (m *model) startFileInput(op FileOperation, initial string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = initial
}

func (m *model) updateFileInput(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = m.normalMode()
		return
	case tea.KeyEnter:
		input := strings.TrimSpace(m.filename)
		m.mode = ModeNormal
		if input == "" {
			m.mode = m.normalMode()
			return
		}
		m.runFileOp(input)
		if m.views.IsEmpty() {
			m.mode = ModeStartup
		}
		return
	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			runes := []rune(m.filename)
			m.filename = string(runes[:len(runes)-1])
		}
		return
	case tea.KeyRunes, tea.KeySpace:
		m.filename += string(msg.Runes)
	}
}

func (m *model) normalMode() Mode {
	if m.views.IsEmpty() {
		return ModeStartup
	}
	return ModeNormal
}

func (m *model) runFileOp(input string) {
	v := m.getCurrentView()
	switch m.fileOp {
	case FileOpOpen:
		id, err := m.open(m.config.GetSavePath(input))
		if err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.views.Activate(id)
		m.cursor = image.Point{}
	case FileOpSave:
		path := m.config.GetSavePath(input)
		if filepath.Ext(path) == "" {
			path += ".png"
			if v.LayerCount() > 1 {
				path = strings.TrimSuffix(path, ".png") + archiveExt
			}
		}
		m.save(v, StorageSingle(path))
	case FileOpSaveRange:
		m.save(v, StorageRange(framePaths(m.config.GetSavePath(input), v.Extent().NFrames)...))
	case FileOpExportSheet:
		path := m.config.GetSavePath(input)
		if err := m.exportSheet(v, path, 4); err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.successMessage = "Exported " + filepath.Base(path)
	case FileOpSlice:
		n, err := strconv.Atoi(input)
		if err != nil || !v.Slice(n) {
			m.errorMessage = fmt.Sprintf("Can't slice %d pixels into %q frames", v.Width(), input)
			return
		}
		m.clampCursor()
	}
}

// open loads path into a new view. A glob pattern opens the matching files,
// in name order, as the frames of one view.
func (m *model) open(path string) (ViewID, error) {
	if !strings.ContainsAny(path, "*?[") {
		return openView(m.views, path, m.config.FrameWidth, m.config.FrameHeight)
	}
	paths, err := filepath.Glob(path)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no files match %s", path)
	}
	return openRange(m.views, paths)
}

// framePaths turns "walk.png" into walk_001.png, walk_002.png, ...
func framePaths(base string, n int) []string {
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".png"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s_%03d%s", stem, i+1, ext)
	}
	return paths
}

func (m *model) save(v *View, storage FileStorage) {
	if v == nil {
		return
	}
	res, err := v.SaveAs(storage)
	switch {
	case errors.Is(err, ErrFileExists):
		m.errorMessage = "Refusing to overwrite " + strings.TrimPrefix(err.Error(), ErrFileExists.Error()+": ")
	case err != nil:
		m.errorMessage = err.Error()
	default:
		m.successMessage = fmt.Sprintf("Saved %s (edit %d)", storage, res.Edit)
	}
}

func (m *model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return tea.Quit
		case ConfirmCloseView:
			if v := m.getCurrentView(); v != nil {
				m.closeView(v.ID)
			}
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return nil
}

func (m *model) closeView(id ViewID) {
	m.views.Remove(id)
	m.canvas.Forget(id)
	m.clampCursor()
	if m.views.IsEmpty() {
		m.mode = ModeStartup
	}
}

// switchView moves to the neighbouring view by id, wrapping around.
func (m *model) switchView(dir Direction) {
	current := m.views.ActiveID()
	var (
		id ViewID
		ok bool
	)
	if dir == Forward {
		if id, ok = m.views.After(current); !ok {
			id, ok = m.views.First()
		}
	} else {
		if id, ok = m.views.Before(current); !ok {
			id, ok = m.views.Last()
		}
	}
	if ok {
		m.views.Activate(id)
		m.clampCursor()
	}
}

func (m *model) anyModified() bool {
	for _, v := range m.views.Views() {
		if v.IsModified() {
			return true
		}
	}
	return false
}

var (
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9d9d9d"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#f7e26b"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#b2dcef"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#be2633"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3ce27"))
)

// renderViewBar lists the open views, highlighting the active one.
func (m *model) renderViewBar(width int) string {
	parts := []string{barStyle.Render("Views:")}
	for _, v := range m.views.Views() {
		name := fmt.Sprintf(" %d:%s ", v.ID, v.FileStatus().Title())
		if v.ID == m.views.ActiveID() {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, barStyle.Render(name))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, ""))
}

func (m *model) renderStatus(v *View) string {
	col := m.colors[m.colorIndex]
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(hexColor(col))).Render("  ")
	frame := m.cursorFrame() + 1
	if m.playing {
		frame = v.Animation().Index() + 1
	}
	status := fmt.Sprintf(" %s  layer %d/%d  frame %d/%d  %dx%d  (%d,%d)  x%d  edit %d  ",
		v.FileStatus(), v.ActiveLayerID()+1, v.LayerCount(), frame, v.Extent().NFrames,
		v.Extent().FW, v.Extent().FH, m.cursor.X, m.cursor.Y, v.Zoom(), v.Resource().CurrentEdit())
	line := swatch + statusStyle.Render(status)
	if m.panMode {
		line += statusStyle.Render("[pan] ")
	}
	switch {
	case m.errorMessage != "":
		line += errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		line += successStyle.Render(m.successMessage)
	}
	return line
}

func (m *model) View() string {
	if m.help {
		return m.helpView()
	}
	v := m.getCurrentView()
	if m.mode == ModeStartup || v == nil {
		return m.startupView()
	}

	var out strings.Builder
	if m.views.Len() > 1 {
		out.WriteString(m.renderViewBar(m.width))
		out.WriteString("\n")
	}
	cols, rows := m.canvasCells()
	lines := m.canvas.Render(v, m.visibleRect(v), cols, rows, m.cursor, !m.playing)
	out.WriteString(strings.Join(lines, "\n"))
	out.WriteString("\n")

	switch m.mode {
	case ModeFileInput:
		out.WriteString(m.filePrompt() + m.filename + "█")
	case ModeConfirm:
		out.WriteString(m.confirmPrompt())
	default:
		out.WriteString(m.renderStatus(v))
	}
	return out.String()
}

func (m *model) filePrompt() string {
	switch m.fileOp {
	case FileOpOpen:
		return "Open: "
	case FileOpSaveRange:
		return "Save frames as: "
	case FileOpExportSheet:
		return "Export sheet as: "
	case FileOpSlice:
		return "Slice into frames: "
	}
	return "Save as: "
}

func (m *model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmCloseView:
		return errorStyle.Render("View has unsaved changes. Close anyway? (y/n)")
	}
	return errorStyle.Render("There are unsaved changes. Quit anyway? (y/n)")
}

func (m *model) startupView() string {
	var out strings.Builder
	out.WriteString("spritely\n\n")
	out.WriteString("  n  New sprite\n")
	out.WriteString("  o  Open a file\n")
	out.WriteString("  q  Quit\n")
	if m.mode == ModeFileInput {
		out.WriteString("\n" + m.filePrompt() + m.filename + "█")
	}
	if m.errorMessage != "" {
		out.WriteString("\n" + errorStyle.Render(m.errorMessage))
	}
	return out.String()
}

var helpLines = []string{
	"spritely help",
	"=============",
	"",
	"Navigation:",
	"  h/j/k/l, arrows   Move cursor (Shift for 2x)",
	"  z                 Toggle pan mode",
	"  + / -             Zoom in / out",
	"",
	"Drawing:",
	"  space             Paint with the current colour",
	"  x                 Erase pixel",
	"  X                 Clear layer",
	"  c / C             Next / previous colour",
	"  i                 Pick the colour under the cursor",
	"  y / p             Yank / paste the frame under the cursor",
	"  m / M             Mirror frame horizontally / vertically",
	"",
	"Frames:",
	"  f                 Add an empty frame",
	"  F                 Clone the frame under the cursor",
	"  D                 Remove the last frame",
	"  /                 Slice the sprite into N frames",
	"  P                 Play / stop the animation",
	"",
	"Layers:",
	"  a                 Add a layer",
	"  [ / ]             Previous / next layer",
	"  v                 Toggle layer visibility",
	"",
	"History:",
	"  u                 Undo",
	"  U, ctrl+r         Redo",
	"",
	"Files and views:",
	"  s                 Save",
	"  S                 Save as",
	"  R                 Save one file per frame",
	"  E                 Export a numbered sprite sheet",
	"  o                 Open a file in a new view",
	"  n                 New view",
	"  w                 Close view",
	"  { / }             Previous / next view",
	"  q                 Quit",
}

func (m *model) updateHelp(msg tea.KeyMsg) tea.Model {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines) - max(m.height-1, 1)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m
}

func (m *model) helpView() string {
	end := min(m.helpScroll+max(m.height-1, 1), len(helpLines))
	return strings.Join(helpLines[m.helpScroll:end], "\n")
}
