package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/tui/messages"
	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// discoveryTimeout bounds the mDNS browse on the setup screen
const discoveryTimeout = 5 * time.Second

// SetupState represents the current setup state
type SetupState int

const (
	StateDiscovering SetupState = iota
	StateGatewayList
	StateManualEntry
	StateCodeEntry
	StateAuthenticating
	StateSuccess
	StateError
)

// SetupModel is the setup screen model
type SetupModel struct {
	state     SetupState
	gateways  []api.DiscoveredGateway
	selected  int
	hostInput textinput.Model
	codeInput textinput.Model
	spinner   spinner.Model
	err       error
	message   string

	transport   coap.Transport
	authTimeout time.Duration
	discover    func(ctx context.Context, timeout time.Duration) ([]api.DiscoveredGateway, error)

	// Authentication target
	host string

	// Window size
	width  int
	height int
}

// NewSetupModel creates a new setup screen model
func NewSetupModel(transport coap.Transport, authTimeout time.Duration) SetupModel {
	hi := textinput.New()
	hi.Placeholder = "192.168.1.x"
	hi.CharLimit = 45

	ci := textinput.New()
	ci.Placeholder = "security code from the gateway label"
	ci.CharLimit = 32
	ci.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return SetupModel{
		state:       StateDiscovering,
		hostInput:   hi,
		codeInput:   ci,
		spinner:     sp,
		transport:   transport,
		authTimeout: authTimeout,
		discover:    api.Discover,
	}
}

// Init initializes the setup screen
func (m SetupModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.discoverCmd(),
	)
}

// SetSize sets the terminal size
func (m *SetupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// State returns the current setup state
func (m SetupModel) State() SetupState {
	return m.state
}

func (m *SetupModel) askCode(host string) tea.Cmd {
	m.host = host
	m.state = StateCodeEntry
	m.err = nil
	m.codeInput.SetValue("")
	m.hostInput.Blur()
	m.codeInput.Focus()
	return textinput.Blink
}

// Update handles messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateGatewayList:
			switch msg.String() {
			case "up", "k":
				if m.selected > 0 {
					m.selected--
				}
			case "down", "j":
				if m.selected < len(m.gateways) {
					m.selected++
				}
			case "enter":
				if m.selected < len(m.gateways) {
					cmds = append(cmds, m.askCode(m.gateways[m.selected].Host))
				} else {
					m.state = StateManualEntry
					m.hostInput.Focus()
					cmds = append(cmds, textinput.Blink)
				}
			case "m":
				m.state = StateManualEntry
				m.hostInput.Focus()
				cmds = append(cmds, textinput.Blink)
			case "r":
				m.state = StateDiscovering
				cmds = append(cmds, m.spinner.Tick, m.discoverCmd())
			case "q":
				return m, tea.Quit
			}
			return m, tea.Batch(cmds...)

		case StateManualEntry:
			switch msg.String() {
			case "enter":
				if host := strings.TrimSpace(m.hostInput.Value()); host != "" {
					return m, m.askCode(host)
				}
				return m, nil
			case "esc":
				m.state = StateGatewayList
				m.hostInput.Blur()
				return m, nil
			}

		case StateCodeEntry:
			switch msg.String() {
			case "enter":
				if code := strings.TrimSpace(m.codeInput.Value()); code != "" {
					m.state = StateAuthenticating
					m.codeInput.Blur()
					return m, tea.Batch(m.spinner.Tick, m.authenticateCmd(code))
				}
				return m, nil
			case "esc":
				m.state = StateGatewayList
				m.codeInput.Blur()
				return m, nil
			}

		case StateError:
			switch msg.String() {
			case "enter":
				return m, m.askCode(m.host)
			case "esc":
				m.state = StateGatewayList
				return m, nil
			case "q":
				return m, tea.Quit
			}
		}

	case GatewaysDiscoveredMsg:
		m.gateways = msg.Gateways
		m.selected = 0
		m.state = StateGatewayList

	case AuthSuccessMsg:
		m.state = StateSuccess
		m.message = fmt.Sprintf("Registered as %s", msg.Creds.Identity)
		creds := msg.Creds
		return m, func() tea.Msg {
			return messages.GatewayConnectedMsg{Creds: creds}
		}

	case AuthErrorMsg:
		m.state = StateError
		m.err = msg.Err

	case DiscoveryErrorMsg:
		m.state = StateGatewayList
		m.err = msg.Err

	case spinner.TickMsg:
		if m.state == StateDiscovering || m.state == StateAuthenticating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update text inputs
	switch m.state {
	case StateManualEntry:
		var cmd tea.Cmd
		m.hostInput, cmd = m.hostInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateCodeEntry:
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	header := styles.StyleHeaderGradient.Render("  TRÅDFRI Setup  ")
	b.WriteString(lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Top, header))
	b.WriteString("\n\n")

	var content string
	switch m.state {
	case StateDiscovering:
		content = fmt.Sprintf("%s Searching for TRÅDFRI gateways...", m.spinner.View())
	case StateGatewayList:
		content = m.renderGatewayList()
	case StateManualEntry:
		content = "Enter gateway IP address:\n\n" +
			styles.StyleInputFocused.Render(m.hostInput.View()) +
			"\n\n" + styles.StyleHelp.Render("enter confirm • esc back")
	case StateCodeEntry:
		content = fmt.Sprintf("Security code for %s:\n\n", m.host) +
			styles.StyleInputFocused.Render(m.codeInput.View()) +
			"\n\n" + styles.StyleHelp.Render("printed on the bottom of the gateway • enter confirm • esc back")
	case StateAuthenticating:
		content = fmt.Sprintf("%s Registering with %s...", m.spinner.View(), m.host)
	case StateSuccess:
		content = styles.StyleSuccess.Render("✓ " + m.message)
	case StateError:
		content = styles.StyleError.Render("✗ Error: "+errorText(m.err)) +
			"\n\n" + styles.StyleHelp.Render("enter retry • esc back • q quit")
	}

	b.WriteString(lipgloss.Place(m.width, max(0, m.height-6), lipgloss.Center, lipgloss.Center, content))

	return b.String()
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func (m SetupModel) renderGatewayList() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(styles.StyleError.Render("Discovery failed: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.gateways) == 0 {
		b.WriteString(styles.StyleTextMuted.Render("No gateways found.\n\n"))
	} else {
		b.WriteString("Found gateways:\n\n")
		for i, gw := range m.gateways {
			cursor := "  "
			style := styles.StyleDeviceName
			if i == m.selected {
				cursor = "> "
				style = styles.StyleListItemSelected
			}
			b.WriteString(cursor + style.Render(fmt.Sprintf("%s (%s)", gw.Host, gw.Name)) + "\n")
		}
	}

	cursor := "  "
	style := styles.StyleDeviceName
	if m.selected >= len(m.gateways) {
		cursor = "> "
		style = styles.StyleListItemSelected
	}
	b.WriteString("\n" + cursor + style.Render("Enter IP manually...") + "\n")

	b.WriteString("\n" + styles.StyleHelp.Render("↑/↓ navigate • enter select • r refresh • m manual"))

	return b.String()
}

// Commands

func (m SetupModel) discoverCmd() tea.Cmd {
	discover := m.discover
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout+time.Second)
		defer cancel()

		gateways, err := discover(ctx, discoveryTimeout)
		if err != nil {
			return DiscoveryErrorMsg{Err: err}
		}
		return GatewaysDiscoveredMsg{Gateways: gateways}
	}
}

func (m SetupModel) authenticateCmd(code string) tea.Cmd {
	transport, host, timeout := m.transport, m.host, m.authTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()

		creds, err := api.Authenticate(ctx, transport, host, code, "", timeout)
		if err != nil {
			return AuthErrorMsg{Err: err}
		}
		return AuthSuccessMsg{Creds: creds}
	}
}

// Messages

type GatewaysDiscoveredMsg struct {
	Gateways []api.DiscoveredGateway
}

type DiscoveryErrorMsg struct {
	Err error
}

type AuthSuccessMsg struct {
	Creds coap.Credentials
}

type AuthErrorMsg struct {
	Err error
}
