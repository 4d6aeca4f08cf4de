package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/onlylist/internal/testutils"
	"github.com/aretw0/onlylist/pkg/adapters/memory"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/persistence"
	"github.com/aretw0/onlylist/pkg/tasklist"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) (Model, *tasklist.Store, *memory.Slot, *testutils.FakeClock) {
	t.Helper()
	slot := memory.NewSlot("tasks")
	clock := testutils.NewFakeClock()
	store := tasklist.New(persistence.New(slot), tasklist.WithClock(clock))
	t.Cleanup(store.Close)
	return NewModel(context.Background(), store, "Only List"), store, slot, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = send(m, runes(string(r)))
	}
	return m
}

func TestModel_AddToggleDelete(t *testing.T) {
	m, store, slot, _ := newModel(t)

	m = send(m, runes("a"))
	require.Equal(t, modeAdd, m.mode)

	m = typeText(m, "Buy milk")
	assert.Equal(t, "Buy milk", store.Input())

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, domain.TaskList{{Text: "Buy milk"}}.Equal(store.Tasks()))
	assert.Equal(t, "", m.add.Value(), "input cleared after add")

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, modeList, m.mode)
	assert.True(t, store.Tasks()[0].Completed)

	data, err := slot.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"Buy milk","completed":true}]`, string(data))

	m = send(m, runes("d"))
	assert.Empty(t, store.Tasks())
	assert.Contains(t, m.View(), "No tasks yet")
}

func TestModel_EmptyAddShowsNotice(t *testing.T) {
	m, store, _, clock := newModel(t)

	m = send(m, runes("a"), runes(" "), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, store.Tasks())
	assert.Contains(t, m.View(), domain.MsgEmptyAdd)

	clock.Advance(3 * time.Second)
	m = send(m, noticeMsg{Kind: domain.NoticeAdd})
	assert.NotContains(t, m.View(), domain.MsgEmptyAdd)
}

func TestRun_RejectedAddKeepsProgramResponsive(t *testing.T) {
	bridge := &Bridge{}
	clock := testutils.NewFakeClock()
	store := tasklist.New(persistence.New(memory.NewSlot("tasks")),
		tasklist.WithClock(clock),
		tasklist.WithLifecycleHooks(bridge.Hooks()),
	)
	t.Cleanup(store.Close)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		// a: open the add input, CR: submit it empty, ETX: ctrl+c
		_, err := run(ctx, NewModel(ctx, store, "Only List"), bridge,
			tea.WithInput(strings.NewReader("a\r\x03")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("program stopped handling keys after an empty add")
	}
	assert.Empty(t, store.Tasks())
	assert.Equal(t, domain.MsgEmptyAdd, store.Notice(domain.NoticeAdd))
}

func TestModel_Edit(t *testing.T) {
	m, store, _, _ := newModel(t)
	ctx := context.Background()
	require.NoError(t, store.AddTask(ctx, "Buy milk"))

	m = send(m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Buy milk", m.edit.Value())

	// Clear the draft and try to save
	for range "Buy milk" {
		m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeEdit, m.mode, "stays in edit mode on empty save")
	assert.Contains(t, m.View(), domain.MsgEmptyEdit)
	assert.Equal(t, "Buy milk", store.Tasks()[0].Text)

	m = typeText(m, "Buy oat milk")
	edit, ok := store.Edit()
	require.True(t, ok)
	assert.Equal(t, "Buy oat milk", edit.Draft)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Buy oat milk", store.Tasks()[0].Text)
}

func TestModel_EditCancel(t *testing.T) {
	m, store, _, _ := newModel(t)
	require.NoError(t, store.AddTask(context.Background(), "A"))

	m = send(m, runes("e"), runes("B"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, m.mode)
	_, ok := store.Edit()
	assert.False(t, ok)
	assert.Equal(t, "A", store.Tasks()[0].Text)
}

func TestModel_CursorClamp(t *testing.T) {
	m, store, _, _ := newModel(t)
	ctx := context.Background()
	require.NoError(t, store.AddTask(ctx, "A"))
	require.NoError(t, store.AddTask(ctx, "B"))

	m = send(m, runes("j"), runes("j"))
	assert.Equal(t, 1, m.cursor)

	m = send(m, runes("d"))
	assert.Equal(t, 0, m.cursor)
	assert.True(t, domain.TaskList{{Text: "A"}}.Equal(store.Tasks()))
}

func TestModel_Quit(t *testing.T) {
	m, _, _, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestMarkdownAndPlain(t *testing.T) {
	tasks := domain.TaskList{{Text: "Buy *milk*"}, {Text: "Walk dog", Completed: true}}

	assert.Equal(t, "- [ ] **1.** Buy \\*milk\\*\n- [x] **2.** ~~Walk dog~~\n", Markdown(tasks))
	assert.Equal(t, "1. [ ] Buy *milk*\n2. [x] Walk dog\n", Plain(tasks))
}

func TestPlain_SanitizesForDisplayOnly(t *testing.T) {
	tasks := domain.TaskList{{Text: "line1\nline2\x1b[31m"}}

	assert.Equal(t, "1. [ ] line1 line2[31m\n", Plain(tasks))
	assert.Equal(t, "line1\nline2\x1b[31m", tasks[0].Text)
}

func TestPrintTasks_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTasks(&buf, nil, true))
	assert.Equal(t, "No tasks yet.\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintTasks(&buf, domain.TaskList{{Text: "A"}}, true))
	assert.Equal(t, "1. [ ] A\n", buf.String(), "pretty output falls back to plain off a terminal")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.0.0")
	assert.Contains(t, buf.String(), "v1.0.0")
}
