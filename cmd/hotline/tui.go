package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	session "github.com/reliefdesk/hotline-core/core"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6b5e")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	callerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58a6ff"))
	operatorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ee787"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// Model is the terminal UI around one call controller.
type Model struct {
	controller *session.Controller
	exportDir  string

	events chan tea.Msg

	transcript viewport.Model
	messages   []session.TranscriptMessage

	// In-flight fragments shown below the transcript until they finalize.
	pendingCaller   string
	pendingOperator string

	status   string
	speaking bool
	lastErr  string
	notice   string

	width  int
	height int
	ready  bool
}

func NewModel(controller *session.Controller, exportDir string) *Model {
	return &Model{
		controller: controller,
		exportDir:  exportDir,
		events:     make(chan tea.Msg, 64),
		status:     "idle",
	}
}

type (
	connectedMsg  struct{}
	endedMsg      struct{ duration time.Duration }
	failedMsg     struct{ reason string }
	transcriptMsg struct{ message session.TranscriptMessage }
	speakingMsg   struct{ speaking bool }
	fragmentMsg   struct {
		role     session.Role
		fragment string
	}
	logMsg    string
	noticeMsg string
	tickMsg   time.Time
)

// teaLogWriter forwards log output into the running program so stdlib logs
// from the pipeline show up in the UI instead of corrupting the screen.
type teaLogWriter struct {
	program *tea.Program
}

func (w teaLogWriter) Write(p []byte) (int, error) {
	w.program.Send(logMsg(strings.TrimRight(string(p), "\n")))
	return len(p), nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.tick())
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) startCall() tea.Cmd {
	return func() tea.Msg {
		err := m.controller.Start(context.Background(),
			session.WithConnectedCallback(func() {
				m.events <- connectedMsg{}
			}),
			session.WithEndedCallback(func(duration time.Duration) {
				m.events <- endedMsg{duration: duration}
			}),
			session.WithErrorCallback(func(reason string) {
				m.events <- failedMsg{reason: reason}
			}),
			session.WithMessageCallback(func(message session.TranscriptMessage) {
				m.events <- transcriptMsg{message: message}
			}),
			session.WithSpeakingStateCallback(func(isSpeaking bool) {
				m.events <- speakingMsg{speaking: isSpeaking}
			}),
			session.WithCallerFragmentCallback(func(fragment string) {
				m.events <- fragmentMsg{role: session.RoleCaller, fragment: fragment}
			}),
			session.WithOperatorFragmentCallback(func(fragment string) {
				m.events <- fragmentMsg{role: session.RoleOperator, fragment: fragment}
			}),
		)
		if err != nil {
			return failedMsg{reason: err.Error()}
		}
		return noticeMsg("Connecting...")
	}
}

func (m *Model) endCall() tea.Cmd {
	return func() tea.Msg {
		if err := m.controller.End(); err != nil {
			return failedMsg{reason: err.Error()}
		}
		return nil
	}
}

func (m *Model) exportTranscript() tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := m.controller.Snapshot()
		if !ok {
			return noticeMsg("Nothing to export yet")
		}

		data, err := snapshot.ExportJSON()
		if err != nil {
			return failedMsg{reason: fmt.Sprintf("export failed: %v", err)}
		}

		path := filepath.Join(m.exportDir, fmt.Sprintf("call-%s.json", snapshot.CallID))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return failedMsg{reason: fmt.Sprintf("export failed: %v", err)}
		}
		return noticeMsg("Exported " + path)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s":
			if !m.controller.IsLive() {
				m.lastErr = ""
				m.status = "connecting"
				cmds = append(cmds, m.startCall())
			}
		case "e":
			if m.controller.IsLive() {
				cmds = append(cmds, m.endCall())
			}
		case "x":
			cmds = append(cmds, m.exportTranscript())
		case "up", "k":
			m.transcript.ScrollUp(1)
		case "down", "j":
			m.transcript.ScrollDown(1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript = viewport.New(msg.Width, max(msg.Height-7, 3))
		m.ready = true
		m.refreshTranscript()

	case connectedMsg:
		m.status = "live"
		m.notice = ""
		cmds = append(cmds, m.listen())

	case endedMsg:
		m.status = "ended"
		m.speaking = false
		m.pendingCaller = ""
		m.pendingOperator = ""
		m.notice = fmt.Sprintf("Call ended after %s", msg.duration.Round(time.Second))
		cmds = append(cmds, m.listen())

	case failedMsg:
		m.status = "idle"
		m.speaking = false
		m.lastErr = msg.reason
		cmds = append(cmds, m.listen())

	case transcriptMsg:
		m.messages = append(m.messages, msg.message)
		switch msg.message.Role {
		case session.RoleCaller:
			m.pendingCaller = ""
		case session.RoleOperator:
			m.pendingOperator = ""
		}
		m.refreshTranscript()
		cmds = append(cmds, m.listen())

	case speakingMsg:
		m.speaking = msg.speaking
		cmds = append(cmds, m.listen())

	case fragmentMsg:
		switch msg.role {
		case session.RoleCaller:
			m.pendingCaller += msg.fragment
		case session.RoleOperator:
			m.pendingOperator += msg.fragment
		}
		m.refreshTranscript()
		cmds = append(cmds, m.listen())

	case logMsg:
		m.notice = string(msg)
		cmds = append(cmds, m.listen())

	case noticeMsg:
		m.notice = string(msg)

	case tickMsg:
		cmds = append(cmds, m.tick())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, message := range m.messages {
		b.WriteString(renderMessage(message.Role, message.Text, m.width))
		b.WriteString("\n")
	}
	if m.pendingCaller != "" {
		b.WriteString(pendingStyle.Render(wordwrap.String("caller: "+m.pendingCaller, max(m.width-2, 20))))
		b.WriteString("\n")
	}
	if m.pendingOperator != "" {
		b.WriteString(pendingStyle.Render(wordwrap.String("operator: "+m.pendingOperator, max(m.width-2, 20))))
		b.WriteString("\n")
	}

	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

func renderMessage(role session.Role, text string, width int) string {
	label := callerStyle.Render("caller")
	if role == session.RoleOperator {
		label = operatorStyle.Render("operator")
	}
	return label + "\n" + wordwrap.String(text, max(width-2, 20))
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := m.status
	if m.controller.IsLive() {
		status = fmt.Sprintf("live %s", m.controller.Elapsed().Round(time.Second))
		if m.speaking {
			status += " | operator speaking"
		}
	}

	header := titleStyle.Render("Hotline") + " " + statusStyle.Render("["+status+"]")

	footer := helpStyle.Render("s start | e end | x export | q quit")
	if m.notice != "" {
		footer = statusStyle.Render(m.notice) + "\n" + footer
	}
	if m.lastErr != "" {
		footer = errorStyle.Render(m.lastErr) + "\n" + footer
	}

	return header + "\n\n" + m.transcript.View() + "\n\n" + footer
}
