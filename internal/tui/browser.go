package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kasalink/kasalink/internal/device"
	"github.com/kasalink/kasalink/internal/discovery"
	"github.com/kasalink/kasalink/internal/ui"
)

// Messages for async operations
type scanCompleteMsg struct {
	devices []deviceItem
	err     error
}

type toggleResultMsg struct {
	addr string
	on   bool
	err  error
}

// browserKeyMap defines key bindings for the browser screen
type browserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings shown in the mini help view
func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Rescan, k.Quit},
	}
}

// deviceItem wraps a resolved device for use with bubbles/list
type deviceItem struct {
	dev   device.Device
	alias string
	model string
	on    bool
	known bool // power state fetched successfully
}

// FilterValue implements list.Item; filter by alias, model, or address.
func (d deviceItem) FilterValue() string {
	return d.alias + " " + d.model + " " + d.dev.Addr()
}

// Title returns the device name for list display
func (d deviceItem) Title() string {
	if d.alias != "" {
		return d.alias
	}
	return d.dev.Addr()
}

// Description returns device details for list display
func (d deviceItem) Description() string {
	state := "state unknown"
	if d.known {
		if d.on {
			state = ui.OnStyle.Render("on")
		} else {
			state = ui.OffStyle.Render("off")
		}
	}
	return fmt.Sprintf("%s • %s • %s", d.dev.Kind(), d.dev.Addr(), state)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ui.PrimaryColor)
	statusStyle = lipgloss.NewStyle().Foreground(ui.MutedColor)
)

// Model is the browser screen state.
type Model struct {
	scanTimeout time.Duration

	scanning bool
	busyAddr string // address with a toggle in flight, "" when idle
	err      error

	devices list.Model
	spinner spinner.Model
	help    help.Model
	keys    browserKeyMap
	width   int
	height  int
}

// New creates a browser model that scans with the given window.
func New(scanTimeout time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	delegate := list.NewDefaultDelegate()
	// Sized from the terminal until the first WindowSizeMsg arrives.
	devices := list.New([]list.Item{}, delegate, ui.TerminalWidth()-4, 20)
	devices.Title = "Kasa Devices"
	devices.SetShowStatusBar(false)
	devices.SetFilteringEnabled(false)
	devices.SetShowHelp(false)

	keys := browserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle power"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	return Model{
		scanTimeout: scanTimeout,
		scanning:    true,
		devices:     devices,
		spinner:     s,
		help:        help.New(),
		keys:        keys,
	}
}

// Init starts the first scan.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, scanCmd(m.scanTimeout))
}

// scanCmd runs discovery off the UI goroutine and resolves each reply to
// a device handle with its current power state.
func scanCmd(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		found, err := discovery.Discover(timeout)
		if err != nil {
			return scanCompleteMsg{err: err}
		}

		addrs := make([]string, 0, len(found))
		for addr := range found {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)

		items := make([]deviceItem, 0, len(addrs))
		for _, addr := range addrs {
			data := found[addr]
			item := deviceItem{dev: device.FromData(addr, data)}
			if info, err := data.SysInfo(); err == nil {
				item.alias = info.Alias
				item.model = info.Model
				item.on = info.IsOn()
				item.known = true
			}
			items = append(items, item)
		}
		return scanCompleteMsg{devices: items}
	}
}

// toggleCmd flips the selected device's power state.
func toggleCmd(item deviceItem) tea.Cmd {
	return func() tea.Msg {
		sw, ok := item.dev.AsSwitch()
		if !ok {
			return toggleResultMsg{
				addr: item.dev.Addr(),
				err:  fmt.Errorf("%s does not support power control", item.dev.Kind()),
			}
		}

		var err error
		if item.on {
			err = sw.SwitchOff()
		} else {
			err = sw.SwitchOn()
		}
		if err != nil {
			return toggleResultMsg{addr: item.dev.Addr(), err: err}
		}
		return toggleResultMsg{addr: item.dev.Addr(), on: !item.on}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.devices.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case spinner.TickMsg:
		if !m.scanning && m.busyAddr == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanCompleteMsg:
		m.scanning = false
		m.err = msg.err
		items := make([]list.Item, len(msg.devices))
		for i, d := range msg.devices {
			items[i] = d
		}
		m.devices.SetItems(items)
		return m, nil

	case toggleResultMsg:
		m.busyAddr = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		// Reflect the new state in place.
		for i, it := range m.devices.Items() {
			d, ok := it.(deviceItem)
			if !ok || d.dev.Addr() != msg.addr {
				continue
			}
			d.on = msg.on
			d.known = true
			return m, m.devices.SetItem(i, d)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Rescan):
			if m.scanning || m.busyAddr != "" {
				return m, nil
			}
			m.scanning = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, scanCmd(m.scanTimeout))

		case key.Matches(msg, m.keys.Toggle):
			if m.scanning || m.busyAddr != "" {
				return m, nil
			}
			item, ok := m.devices.SelectedItem().(deviceItem)
			if !ok {
				return m, nil
			}
			m.busyAddr = item.dev.Addr()
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, toggleCmd(item))
		}
	}

	var cmd tea.Cmd
	m.devices, cmd = m.devices.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m Model) View() string {
	var body string

	switch {
	case m.scanning:
		body = fmt.Sprintf("\n  %s Scanning for devices (%s window)...\n",
			m.spinner.View(), m.scanTimeout)
	case len(m.devices.Items()) == 0:
		body = "\n  No devices found.\n\n" +
			statusStyle.Render("  Check that devices are powered and on this network, then press r to rescan.\n")
	default:
		body = m.devices.View()
	}

	status := ""
	if m.busyAddr != "" {
		status = fmt.Sprintf("\n  %s Switching %s...\n", m.spinner.View(), m.busyAddr)
	}
	if m.err != nil {
		status += "\n" + ui.ErrorStyle.Render(fmt.Sprintf("  %v", m.err)) + "\n"
	}

	return titleStyle.Render("\n  kasalink browser\n") + body + status + "\n" + m.help.View(m.keys)
}
