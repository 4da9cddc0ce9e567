// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal view over an upload controller.
// It renders the controller's state, never the raw service HTML.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/transcript-summarizer/internal/batch"
	"github.com/pdiddy/transcript-summarizer/internal/export"
	"github.com/pdiddy/transcript-summarizer/internal/render"
	"github.com/pdiddy/transcript-summarizer/internal/transcript"
	"github.com/pdiddy/transcript-summarizer/internal/upload"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
	"github.com/pdiddy/transcript-summarizer/pkg/ui"
)

// Replaced in tests.
var copyToClipboard = clipboard.WriteAll

type mode int

const (
	modeView mode = iota
	modePath
)

// chrome is the number of lines taken by everything but the viewport.
const chrome = 8

// submitDoneMsg carries the outcome of one Submit call.
type submitDoneMsg struct {
	err error
}

// Options configures the view.
type Options struct {
	// SaveDir is where the save key writes the downloaded summary.
	SaveDir string

	// AutoSubmit starts a submission as soon as the view opens.
	AutoSubmit bool

	// ShowHTML shows sanitized HTML instead of the text rendering.
	ShowHTML bool
}

type keyMap struct {
	Submit key.Binding
	File   key.Binding
	Cancel key.Binding
	Copy   key.Binding
	Save   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.File, k.Cancel, k.Copy, k.Save, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.File, k.Cancel},
		{k.Copy, k.Save, k.Toggle, k.Quit},
	}
}

var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "summarize")),
	File:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "choose file")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
	Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Toggle: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "text/html")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model for one controller.
type Model struct {
	ctx  context.Context
	ctrl *upload.Controller
	opts Options

	mode     mode
	spinner  spinner.Model
	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	keys     keyMap

	width      int
	height     int
	ready      bool
	submitting bool
	showHTML   bool
	status     string
	quitting   bool
}

// New returns a model bound to ctrl.
func New(ctx context.Context, ctrl *upload.Controller, opts Options) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = ui.StyleInfo

	in := textinput.New()
	in.Placeholder = "path/to/transcript.pdf"
	in.Prompt = "File: "
	in.CharLimit = 4096

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		opts:     opts,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		input:    in,
		help:     help.New(),
		keys:     keys,
		showHTML: opts.ShowHTML,

		submitting: opts.AutoSubmit,
	}
}

// Run starts the program on the alternate screen and blocks until it quits.
// The controller is torn down on exit.
func Run(ctx context.Context, ctrl *upload.Controller, opts Options) error {
	defer ctrl.Teardown(context.WithoutCancel(ctx))

	p := tea.NewProgram(New(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive view: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	if m.opts.AutoSubmit {
		return tea.Batch(m.spinner.Tick, m.startSubmit())
	}
	return m.spinner.Tick
}

// startSubmit runs Submit off the update loop.
func (m Model) startSubmit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 3)
		m.help.Width = msg.Width
		m.ready = true
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		m.submitting = false
		switch {
		case msg.err == nil:
			m.status = ui.FormatSuccess("Summary ready")
		case isStartError(msg.err):
			m.status = ui.FormatWarning(startErrorText(msg.err))
		default:
			m.status = ""
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.mode == modePath {
			return m.updatePath(msg)
		}
		return m.updateView(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.ctrl.Teardown(m.ctx); err != nil {
			m.status = ui.FormatWarning(err.Error())
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.submitting {
			m.status = ui.FormatWarning("A summary is already being generated.")
			return m, nil
		}
		if m.ctrl.Snapshot().File == nil {
			m.status = ui.FormatWarning("Choose a PDF transcript first (f).")
			return m, nil
		}
		m.submitting = true
		m.status = ""
		return m, m.startSubmit()

	case key.Matches(msg, m.keys.Cancel):
		if m.submitting {
			m.ctrl.Cancel()
			m.status = ui.FormatMuted("Cancelling...")
		}
		return m, nil

	case key.Matches(msg, m.keys.File):
		if m.submitting {
			return m, nil
		}
		m.mode = modePath
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Copy):
		h := m.ctrl.Snapshot().Export
		if h == nil {
			m.status = ui.FormatWarning("No summary to copy.")
			return m, nil
		}
		if err := copyToClipboard(h.URL); err != nil {
			m.status = ui.FormatError("Copy failed: " + err.Error())
			return m, nil
		}
		m.status = ui.FormatSuccess("Copied " + h.URL)
		return m, nil

	case key.Matches(msg, m.keys.Save):
		m.save()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.showHTML = !m.showHTML
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeView
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeView
		m.input.Blur()
		m.selectPath(strings.TrimSpace(m.input.Value()))
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) selectPath(path string) {
	if path == "" {
		return
	}
	f, err := transcript.FromPath(path)
	if err != nil {
		m.status = ui.FormatError(err.Error())
		return
	}
	if err := m.ctrl.SelectFile(m.ctx, f); err != nil {
		// Validation failures surface through the snapshot.
		if isStartError(err) {
			m.status = ui.FormatWarning(startErrorText(err))
		} else {
			m.status = ""
		}
		return
	}
	m.status = ui.FormatInfo("Selected " + f.Name)
}

func (m *Model) save() {
	snap := m.ctrl.Snapshot()
	if snap.Export == nil {
		m.status = ui.FormatWarning("No summary to save.")
		return
	}
	name := ""
	if snap.File != nil {
		name = snap.File.Name
	}
	dest := filepath.Join(m.opts.SaveDir, batch.SummaryName(name))
	if err := export.Download(m.ctx, m.ctrl.Exporter(), *snap.Export, dest); err != nil {
		m.status = ui.FormatError("Save failed: " + err.Error())
		return
	}
	m.status = ui.FormatSuccess("Saved " + dest)
}

// refresh re-renders the viewport from the controller.
func (m *Model) refresh() {
	snap := m.ctrl.Snapshot()
	if snap.State != types.StateSucceeded {
		m.viewport.SetContent("")
		return
	}

	var (
		out string
		err error
	)
	if m.showHTML {
		out, err = render.Sanitize(snap.Summary)
	} else {
		out, err = render.Text(snap.Summary)
	}
	if err != nil {
		out = ui.FormatError("Could not display the summary.")
	}
	if m.viewport.Width > 0 {
		out = lipgloss.NewStyle().Width(m.viewport.Width).Render(out)
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(ui.FormatTitle("Transcript summarizer"))
	b.WriteString("\n\n")

	if snap.File != nil {
		fmt.Fprintf(&b, "%s %s %s  %s\n", ui.IconFile, ui.StyleBold.Render(snap.File.Name),
			ui.FormatMuted(humanSize(snap.File.Size)), ui.FormatState(snap.State))
	} else {
		b.WriteString(ui.FormatMuted("No transcript selected.") + "\n")
	}

	if snap.Err != nil {
		b.WriteString(ui.StyleBanner.Render(ui.FormatErrorInfo(snap.Err)))
		b.WriteString("\n")
	}

	switch {
	case m.submitting || snap.State == types.StateInFlight:
		fmt.Fprintf(&b, "\n%s Summarizing... %s\n", m.spinner.View(), ui.FormatMuted("(esc to cancel)"))
	case snap.State == types.StateSucceeded:
		b.WriteString("\n" + m.viewport.View() + "\n")
	}

	if m.mode == modePath {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func humanSize(n int64) string {
	switch {
	case n >= types.MiB:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(types.MiB))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func isStartError(err error) bool {
	return errors.Is(err, upload.ErrInFlight) || errors.Is(err, upload.ErrNoFile) || errors.Is(err, upload.ErrClosed)
}

func startErrorText(err error) string {
	switch {
	case errors.Is(err, upload.ErrInFlight):
		return "A summary is already being generated."
	case errors.Is(err, upload.ErrNoFile):
		return "Choose a PDF transcript first (f)."
	default:
		return "The session has ended."
	}
}
