package picker

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/wifierr"
)

// Color palette for the picker UI
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - title, selection
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(2)
)

// networkItem adapts a stored credential to the bubbles list.
type networkItem struct {
	ssid    string
	lastUse time.Time
	count   uint32
}

func (i networkItem) Title() string { return i.ssid }

func (i networkItem) Description() string {
	if i.lastUse.IsZero() {
		return "never connected"
	}
	return fmt.Sprintf("last connected %s, %d connection(s)",
		i.lastUse.Format("2006-01-02 15:04"), i.count)
}

func (i networkItem) FilterValue() string { return i.ssid }

// Model is the Bubble Tea model for the network picker.
type Model struct {
	list     list.Model
	selected string
	quit     bool
}

// NewModel builds a picker over the given items, most recently used
// first (the order ListSSIDs returns).
func NewModel(items []networkItem) Model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(MutedColor)

	l := list.New(listItems, delegate, 0, 0)
	l.Title = "Select a network"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	return Model{list: l}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(networkItem); ok {
				m.selected = item.ssid
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.selected != "" || m.quit {
		return ""
	}
	return m.list.View() + "\n" +
		helpStyle.Render("enter: connect  •  q: cancel")
}

// Selected returns the chosen SSID, or empty when the user cancelled.
func (m Model) Selected() string {
	return m.selected
}

// Pick runs an interactive picker over the store's networks, most
// recently used first. It returns the chosen SSID, KindNotFound when
// the store is empty, or KindInvalidState when the user cancels.
func Pick(store *credstore.Store) (string, error) {
	ssids, err := store.ListSSIDs()
	if err != nil {
		return "", err
	}
	if len(ssids) == 0 {
		return "", wifierr.New(wifierr.KindNotFound, "no stored networks to pick from")
	}

	items := make([]networkItem, 0, len(ssids))
	for _, ssid := range ssids {
		item := networkItem{ssid: ssid}
		if cred, lerr := store.Lookup(ssid); lerr == nil {
			item.lastUse = cred.Timestamp
			item.count = cred.ConnectionCount
			cred.Wipe()
		}
		items = append(items, item)
	}

	p := tea.NewProgram(NewModel(items), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("picker failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Selected() == "" {
		return "", wifierr.New(wifierr.KindInvalidState, "network selection cancelled")
	}
	return m.Selected(), nil
}
