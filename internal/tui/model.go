package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/orchestration"
	"github.com/agbru/secretsanta/internal/slot"
	"github.com/agbru/secretsanta/internal/ui"
)

// Controller is the subset of the orchestrator the surface drives.
type Controller interface {
	Select(slotID string, candidate *slot.Candidate) (orchestration.Snapshot, error)
	Submit(ctx context.Context) (orchestration.Snapshot, error)
	Reset() (orchestration.Snapshot, error)
	Snapshot() orchestration.Snapshot
	Subscribe(fn func(orchestration.Snapshot)) func()
}

var _ Controller = (*orchestration.Orchestrator)(nil)

// Options configures the model.
type Options struct {
	// StartDir is the directory the file pickers open in.
	StartDir string
	// Version is shown in the header.
	Version string
}

// Layout constants.
const (
	headerHeight  = 1
	footerHeight  = 1
	panelChrome   = 4 // border and title rows around the picker
	minPickerRows = 5
)

// Model is the root bubbletea model of the interactive surface. It renders
// the latest snapshot and turns key presses into orchestrator calls run as
// commands; it never changes submission state itself.
type Model struct {
	ctrl   Controller
	ctx    context.Context
	cancel context.CancelFunc
	ref    *programRef

	snap   orchestration.Snapshot
	notice string

	keymap  KeyMap
	header  HeaderModel
	spinner spinner.Model

	picker   filepicker.Model
	picking  string
	startDir string

	width  int
	height int
}

// NewModel creates a model bound to ctrl. Requests started from the model
// are cancelled when parentCtx ends or the user quits.
func NewModel(parentCtx context.Context, ctrl Controller, opts Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	startDir := opts.StartDir
	if startDir == "" {
		startDir = "."
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = pendingStyle

	m := Model{
		ctrl:     ctrl,
		ctx:      ctx,
		cancel:   cancel,
		ref:      &programRef{},
		snap:     ctrl.Snapshot(),
		keymap:   DefaultKeyMap(),
		header:   NewHeaderModel(opts.Version),
		spinner:  sp,
		startDir: startDir,
	}
	m.keymap.sync(m.snap.Busy(), m.snap.CanSubmit())
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return watchContextCmd(m.ctx)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		if m.picking != "" {
			return m.resizePicker()
		}
		return m, nil

	case SnapshotMsg:
		return m.applySnapshot(msg.Snapshot)

	case actionResultMsg:
		m.notice = ""
		if msg.err != nil && !isStateError(msg.err) {
			m.notice = msg.err.Error()
		}
		return m.applySnapshot(msg.snapshot)

	case spinner.TickMsg:
		if !m.snap.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ContextCancelledMsg:
		return m, tea.Quit
	}

	if m.picking != "" {
		return m.updatePicker(msg)
	}
	return m, nil
}

// isStateError reports errors already reflected in the published state.
func isStateError(err error) bool {
	var vErr apperrors.ValidationError
	var sErr apperrors.ServiceError
	var tErr apperrors.TransportError
	var dErr apperrors.DeliveryError
	return errors.As(err, &vErr) || errors.As(err, &sErr) ||
		errors.As(err, &tErr) || errors.As(err, &dErr)
}

// applySnapshot renders s unless a newer snapshot was already applied.
func (m Model) applySnapshot(s orchestration.Snapshot) (tea.Model, tea.Cmd) {
	if s.Seq < m.snap.Seq {
		return m, nil
	}
	wasBusy := m.snap.Busy()
	m.snap = s
	m.keymap.sync(s.Busy(), s.CanSubmit())
	if s.Busy() && !wasBusy {
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	if m.picking != "" {
		if key.Matches(msg, m.keymap.Close) {
			id := m.picking
			m.picking = ""
			return m, selectCmd(m.ctrl, id, nil)
		}
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.PickEmployees):
		return m.openPicker(slot.Employees)
	case key.Matches(msg, m.keymap.PickLastYear):
		return m.openPicker(slot.LastYear)
	case key.Matches(msg, m.keymap.Submit):
		return m, submitCmd(m.ctx, m.ctrl)
	case key.Matches(msg, m.keymap.Reset):
		return m, resetCmd(m.ctrl)
	}
	return m, nil
}

func (m Model) openPicker(slotID string) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.CurrentDirectory = m.startDir
	fp.AutoHeight = true
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true

	m.picker = fp
	m.picking = slotID
	m.notice = ""

	m, sizeCmd := m.resizePicker()
	return m, tea.Batch(m.picker.Init(), sizeCmd)
}

func (m Model) resizePicker() (Model, tea.Cmd) {
	rows := m.height - headerHeight - footerHeight - panelChrome
	if rows < minPickerRows {
		rows = minPickerRows
	}
	var cmd tea.Cmd
	// The picker sizes itself from window messages when AutoHeight is set.
	m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: rows + pickerMarginBottom})
	return m, cmd
}

// pickerMarginBottom mirrors the filepicker's own bottom margin.
const pickerMarginBottom = 5

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		id := m.picking
		m.picking = ""
		return m, loadAndSelectCmd(m.ctrl, id, path)
	}
	return m, cmd
}

// View renders the surface.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.header.View(m.snap.Phase)
	var body string
	if m.picking != "" {
		body = m.viewPicker()
	} else {
		body = m.viewMain()
	}
	panel := panelStyle.Width(max(m.width-2, 20)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, m.viewFooter())
}

func (m Model) viewPicker() string {
	label := "employee list"
	if m.picking == slot.LastYear {
		label = "last year's assignments"
	}
	title := titleStyle.Render(fmt.Sprintf("Select the %s (.xlsx)", label))
	hint := versionStyle.Render("esc to cancel")
	return lipgloss.JoinVertical(lipgloss.Left, title+"  "+hint, "", m.picker.View())
}

func (m Model) viewMain() string {
	var b strings.Builder
	b.WriteString(fileRow("Employee list", "e", m.snap.EmployeesFile))
	b.WriteString("\n")
	b.WriteString(fileRow("Last year's list", "l", m.snap.LastYearFile))
	b.WriteString("\n\n")
	b.WriteString(m.viewStatus())
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(versionStyle.Render(m.notice))
	}
	return b.String()
}

func fileRow(label, keyName, name string) string {
	value := emptyFileStyle.Render("no file selected")
	if name != "" {
		value = fileStyle.Render(name)
	}
	return labelStyle.Render(label) + footerKeyStyle.Render("["+keyName+"] ") + value
}

func (m Model) viewStatus() string {
	s := m.snap
	switch s.Phase {
	case orchestration.Pending:
		return m.spinner.View() + pendingStyle.Render(" Generating assignments...")
	case orchestration.Succeeded:
		title := successStyle.Render(ui.OutcomeTitle(false))
		if s.Outcome.HasMatches {
			title = matchesStyle.Render(ui.OutcomeTitle(true))
		}
		saved := fmt.Sprintf("Saved to %s (%s)", s.Outcome.Path, humanize.Bytes(uint64(s.Outcome.Size)))
		return lipgloss.JoinVertical(lipgloss.Left, title, s.Outcome.Message, versionStyle.Render(saved))
	case orchestration.Failed:
		return errorStyle.Render("✗ " + s.Message)
	case orchestration.Invalid:
		return errorStyle.Render("✗ " + s.Reason)
	default:
		if s.Ready() {
			return versionStyle.Render("Ready. Press enter to generate assignments.")
		}
		return versionStyle.Render("Select both spreadsheets to continue.")
	}
}

func (m Model) viewFooter() string {
	var hints []string
	if m.picking != "" {
		hints = append(hints, renderBinding(m.keymap.Close), renderBinding(m.keymap.Quit))
	} else {
		for _, b := range m.keymap.footerBindings() {
			hints = append(hints, renderBinding(b))
		}
	}
	return " " + strings.Join(hints, "  ")
}

// renderBinding renders a binding's help; disabled bindings are dimmed.
func renderBinding(b key.Binding) string {
	h := b.Help()
	if !b.Enabled() {
		return footerMutedStyle.Render(h.Key + " " + h.Desc)
	}
	return footerKeyStyle.Render(h.Key) + " " + footerDescStyle.Render(h.Desc)
}
