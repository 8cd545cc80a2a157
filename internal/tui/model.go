// Package tui is the terminal client for browsing and editing customer
// records. It renders the page store's state and turns key presses into
// store operations; all fetches run inside bubbletea commands so the
// update loop never blocks.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okellodaniel/customerbase/internal/api"
	"github.com/okellodaniel/customerbase/internal/models"
	"github.com/okellodaniel/customerbase/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// requestTimeout bounds every remote call issued from the console
const requestTimeout = 10 * time.Second

type loadDoneMsg struct {
	err error
}

type mutationDoneMsg struct {
	err error
}

type tickMsg time.Time

// Model is the bubbletea model for the customer browser
type Model struct {
	store  *view.PageStore
	client *api.Client

	mode    mode
	form    customerForm
	editing models.Customer
	cursor  int
	busy    bool
	banner  string

	width  int
	height int
}

// NewModel wires a model to the API at baseURL
func NewModel(baseURL string) Model {
	client := api.New(baseURL)
	store := view.NewPageStore(apiFetcher{client: client}, view.NewLoadCoordinator())

	return Model{
		store:  store,
		client: client,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPageCmd(1), tick())
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Keep redrawing while the loading indicator or a mutation is
		// pending so spinner frames and the deferred indicator
		// transition become visible
		return m, tick()

	case loadDoneMsg:
		// Errors are already recorded in the store; a stale result is
		// dropped on purpose
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		m.busy = false
		if msg.err != nil && !errors.Is(msg.err, view.ErrStaleResult) {
			m.banner = msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd, modeEdit:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(snap.Records)-1 {
			m.cursor++
		}

	case "right", "n":
		if !m.blocked(snap) && snap.Page < snap.TotalPages {
			return m, m.loadPageCmd(snap.Page + 1)
		}

	case "left", "p":
		if !m.blocked(snap) && snap.Page > 1 {
			return m, m.loadPageCmd(snap.Page - 1)
		}

	case "r":
		if !m.busy {
			m.banner = ""
			m.store.ClearError()
			return m, m.reloadCmd()
		}

	case "a":
		if !m.blocked(snap) {
			m.banner = ""
			m.mode = modeAdd
			m.form = newAddForm()
		}

	case "e":
		if !m.blocked(snap) && m.cursor < len(snap.Records) {
			m.banner = ""
			m.editing = snap.Records[m.cursor]
			m.mode = modeEdit
			m.form = newEditForm(m.editing)
		}

	case "d":
		if !m.blocked(snap) && m.cursor < len(snap.Records) {
			target := snap.Records[m.cursor]
			if err := m.store.RequestDeletion(target.ID, target.Name); err == nil {
				m.banner = ""
				m.mode = modeConfirmDelete
			}
		}

	case "esc":
		m.banner = ""
		m.store.ClearError()
	}

	return m, nil
}

// blocked reports whether mutation entry points are disabled: while a
// load is visible, a mutation is in flight or a deletion awaits
// confirmation
func (m Model) blocked(snap view.Snapshot) bool {
	return m.busy || snap.Loading || snap.Pending != nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submit, cancel := m.form.handleKey(msg)

	if cancel {
		m.mode = modeList
		return m, nil
	}
	if !submit {
		return m, nil
	}

	if m.mode == modeAdd {
		draft, err := m.form.draft()
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.mode = modeList
		m.busy = true
		return m, m.createCmd(draft)
	}

	patch, err := m.form.patch(m.editing)
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}

	m.mode = modeList
	if patch.Empty() {
		// Nothing changed, so nothing is sent
		return m, nil
	}

	m.busy = true
	return m, m.updateCmd(m.editing.ID, patch)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		target, ok := m.store.ConfirmDeletion()
		m.mode = modeList
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.deleteCmd(target.ID)

	case "n", "esc":
		m.store.CancelDeletion()
		m.mode = modeList
	}

	return m, nil
}

func (m Model) loadPageCmd(page int) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadDoneMsg{err: store.LoadPage(ctx, page)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadDoneMsg{err: store.Reload(ctx)}
	}
}

func (m Model) createCmd(draft *models.CustomerDraft) tea.Cmd {
	store, client := m.store, m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := client.CreateRecord(ctx, draft); err != nil {
			return mutationDoneMsg{err: err}
		}
		// Jump to the page holding the new record
		return mutationDoneMsg{err: store.RecordCreated(ctx)}
	}
}

func (m Model) updateCmd(id int64, patch *models.CustomerPatch) tea.Cmd {
	store, client := m.store, m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		updated, err := client.UpdateRecord(ctx, id, patch)
		if errors.Is(err, api.ErrNoChanges) {
			return mutationDoneMsg{}
		}
		if err != nil {
			return mutationDoneMsg{err: err}
		}

		store.RecordUpdated(*updated)
		return mutationDoneMsg{}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	store, client := m.store, m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := client.DeleteRecord(ctx, id); err != nil {
			return mutationDoneMsg{err: err}
		}
		// Rebalance the view; dropping off a now-empty page if needed
		return mutationDoneMsg{err: store.RecordDeleted(ctx)}
	}
}

func (m *Model) clampCursor() {
	snap := m.store.Snapshot()
	if m.cursor >= len(snap.Records) {
		m.cursor = len(snap.Records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
