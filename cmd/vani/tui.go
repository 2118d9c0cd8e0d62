package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	supervision "github.com/gtejasvarma/vani/core"
	"github.com/gtejasvarma/vani/core/transcript"
)

// Messages pushed into the program from supervisor callbacks. Everything the
// UI shows flows through these; the model never reaches into the supervisor
// except to issue commands.
type snapshotMsg supervision.Snapshot

type transcriptLineMsg transcript.Line

type partialTranscriptMsg string

type connectivityMsg bool

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	listeningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	offlineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	partialStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245"))

	errorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	transcriptFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

type model struct {
	supervisor *supervision.Supervisor

	viewport viewport.Model
	volume   progress.Model

	snapshot supervision.Snapshot
	partial  string

	width  int
	height int
	ready  bool
}

func newModel(supervisor *supervision.Supervisor) model {
	volume := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	return model{
		supervisor: supervisor,
		volume:     volume,
		snapshot:   supervisor.Snapshot(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.supervisor.Stop()
			return m, tea.Quit
		case "m", " ":
			m.supervisor.TapMic()
		case "c":
			m.supervisor.ClearTranscript()
		case "esc":
			m.supervisor.Stop()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.volume.Width = msg.Width - 20

		contentHeight := msg.Height - chromeHeight
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = contentHeight
		}
		m.refreshTranscript()

	case snapshotMsg:
		m.snapshot = supervision.Snapshot(msg)
		m.refreshTranscript()
		return m, nil

	case transcriptLineMsg:
		// Lines arrive inside the next snapshot too; the dedicated message
		// only forces the viewport to follow the newest line.
		m.viewport.GotoBottom()
		return m, nil

	case partialTranscriptMsg:
		m.partial = string(msg)
		m.refreshTranscript()
		return m, nil

	case connectivityMsg:
		m.snapshot.IsConnected = bool(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// chromeHeight is everything that is not transcript: title, status line,
// volume meter, help line and the transcript border.
const chromeHeight = 8

func (m *model) refreshTranscript() {
	if !m.ready {
		return
	}

	atBottom := m.viewport.AtBottom()

	var builder strings.Builder
	for _, line := range m.snapshot.Lines {
		text := wordwrap.String(line.Text, m.viewport.Width)
		if strings.HasPrefix(line.Text, "❌") {
			text = errorLineStyle.Render(text)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	if m.partial != "" {
		builder.WriteString(partialStyle.Render(wordwrap.String(m.partial, m.viewport.Width)))
		builder.WriteString("\n")
	}

	m.viewport.SetContent(builder.String())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}

	var status string
	if m.snapshot.MicState == supervision.MicListening {
		status = listeningStyle.Render("● listening")
	} else {
		status = idleStyle.Render("○ idle")
	}
	if !m.snapshot.IsConnected {
		status = lipgloss.JoinHorizontal(lipgloss.Top, status, "  ", offlineStyle.Render("⚠ offline"))
	}

	meter := ""
	if m.snapshot.MicState == supervision.MicListening {
		meter = fmt.Sprintf("mic %s", m.volume.ViewAs(m.snapshot.VolumeLevel))
	}

	sections := []string{
		titleStyle.Render("vani"),
		status,
		transcriptFrame.Render(m.viewport.View()),
		meter,
		helpStyle.Render("m: mic  c: clear  q: quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}
