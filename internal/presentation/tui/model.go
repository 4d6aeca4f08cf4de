package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/sanitize"
	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// noticeMsg wakes the program when a notice appears or expires.
type noticeMsg domain.NoticeEvent

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f472b6"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#6b7280"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// Bridge forwards Store notices into a running program. Register Hooks with the Store before
// the program starts; notices raised before that are picked up by the first render.
// Delivery is asynchronous: a notice posted from inside Update must not block on the
// program's own message loop.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
}

// Hooks returns the lifecycle hooks that feed the bridge.
func (b *Bridge) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNotice: func(e *domain.NoticeEvent) {
			b.mu.Lock()
			p := b.program
			b.mu.Unlock()
			if p != nil {
				go p.Send(noticeMsg(*e))
			}
		},
	}
}

func (b *Bridge) attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

// Model is the interactive task list.
type Model struct {
	ctx    context.Context
	store  *tasklist.Store
	title  string
	cursor int
	mode   mode
	add    textinput.Model
	edit   textinput.Model
	status string
}

// NewModel creates a Model over an already hydrated store.
func NewModel(ctx context.Context, store *tasklist.Store, title string) Model {
	add := textinput.New()
	add.Placeholder = "Add a new task"
	add.CharLimit = 512
	add.Width = 50
	add.SetValue(store.Input())

	edit := textinput.New()
	edit.CharLimit = 512
	edit.Width = 50

	return Model{
		ctx:   ctx,
		store: store,
		title: title,
		add:   add,
		edit:  edit,
	}
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, store *tasklist.Store, bridge *Bridge, title string) error {
	_, err := run(ctx, NewModel(ctx, store, title), bridge)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func run(ctx context.Context, m Model, bridge *Bridge, opts ...tea.ProgramOption) (tea.Model, error) {
	program := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	if bridge != nil {
		bridge.attach(program)
		defer bridge.attach(nil)
	}
	return program.Run()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		// Re-render only; the store already holds the new notice state.
		return m, nil
	case tea.WindowSizeMsg:
		if w := msg.Width - 10; w > 10 {
			m.add.Width = w
			m.edit.Width = w
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		default:
			return m.updateListMode(msg)
		}
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	n := m.store.Len()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "a", "i":
		m.mode = modeAdd
		return m, m.add.Focus()
	case "e", "enter":
		if n == 0 {
			return m, nil
		}
		if err := m.store.BeginEdit(m.cursor); err != nil {
			m.status = err.Error()
			return m, nil
		}
		edit, _ := m.store.Edit()
		m.edit.SetValue(edit.Draft)
		m.edit.CursorEnd()
		m.mode = modeEdit
		return m, m.edit.Focus()
	case " ", "x":
		if n > 0 {
			m.report(m.store.ToggleComplete(m.ctx, m.cursor))
		}
	case "d", "delete":
		if n > 0 {
			m.report(m.store.DeleteTask(m.ctx, m.cursor))
			m.cursor = clampCursor(m.cursor, m.store.Len())
		}
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.add.Blur()
		return m, nil
	case tea.KeyEnter:
		err := m.store.AddTask(m.ctx, m.add.Value())
		if err == nil {
			m.add.SetValue(m.store.Input())
			m.cursor = m.store.Len() - 1
		}
		m.report(err)
		return m, nil
	}

	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	m.store.SetInput(m.add.Value())
	return m, cmd
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	edit, ok := m.store.Edit()
	if !ok {
		m.mode = modeList
		m.edit.Blur()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.store.CancelEdit()
		m.mode = modeList
		m.edit.Blur()
		return m, nil
	case tea.KeyEnter:
		err := m.store.UpdateTask(m.ctx, edit.Index, m.edit.Value())
		if _, still := m.store.Edit(); !still {
			m.mode = modeList
			m.edit.Blur()
		}
		m.report(err)
		return m, nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.store.UpdateDraft(m.edit.Value())
	return m, cmd
}

// report surfaces failures that are not already shown as notices.
func (m *Model) report(err error) {
	var ve *domain.ValidationError
	if err == nil || errors.As(err, &ve) {
		m.status = ""
		return
	}
	m.status = err.Error()
}

func (m Model) View() string {
	v := m.store.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(m.add.View())
	b.WriteString("\n")
	if v.AddNotice != "" {
		b.WriteString(warningStyle.Render(v.AddNotice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.Tasks) == 0 {
		b.WriteString(helpStyle.Render("No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
	}
	for i, t := range v.Tasks {
		prefix := "  "
		if i == m.cursor && m.mode != modeAdd {
			prefix = cursorStyle.Render("> ")
		}

		if v.Edit != nil && v.Edit.Index == i {
			b.WriteString(prefix + m.edit.View() + "\n")
			if v.EditNotice != "" {
				b.WriteString("    " + warningStyle.Render(v.EditNotice) + "\n")
			}
			continue
		}

		mark, text := "[ ]", sanitize.Text(t.Text)
		if t.Completed {
			mark, text = "[x]", doneStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, mark, text)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) help() string {
	switch m.mode {
	case modeAdd:
		return "enter: add • esc: back to list"
	case modeEdit:
		return "enter: save • esc: cancel"
	default:
		return "a: add • e: edit • space: toggle • d: delete • ↑/↓: move • q: quit"
	}
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}
