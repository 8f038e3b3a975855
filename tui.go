package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"murmur/audio"
	"murmur/session"
)

// TUI message types
type RecordingStartMsg struct{}
type PausedMsg struct{}
type ResumedMsg struct{}
type FinalizingMsg struct{}
type CancelledMsg struct{}
type TranscriptionMsg struct {
	Text     string
	Duration time.Duration
	Cost     float64
	NoSpeech bool
}
type ErrorMsg struct {
	Text string
	Raw  string
}
type RateLimitMsg struct{ Text string } // "requests: 45/50 remaining"
type WaveformMsg struct {
	Samples []byte
	Gain    float64
}
type ElapsedMsg struct{ Duration time.Duration }
type StatusLineMsg struct{ Text string } // provider/format/device info
type tickMsg time.Time

type tuiState int

const (
	tuiStateIdle tuiState = iota
	tuiStateRecording
	tuiStatePaused
	tuiStateFinalizing
)

type tuiModel struct {
	state         tuiState
	frame         int
	elapsed       time.Duration
	samples       []byte
	gain          float64
	width, height int

	statusLine string

	msgCount  int
	lastText  string
	lastCost  float64
	lastDur   time.Duration
	lastError string
	errorRaw  string
	noSpeech  bool
	rateLimit string

	onToggle func()
	onCancel func()
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var waveformRunes = []rune("▁▂▃▄▅▆▇█")

var (
	styleRec     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	stylePaused  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	styleBusy    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleWaveRec = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWaveOff = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	styleText    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleHelpKey = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

func NewTUIProgram(onToggle, onCancel func()) *tea.Program {
	m := tuiModel{gain: 1.0, onToggle: onToggle, onCancel: onCancel}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ":
			if m.onToggle != nil {
				m.onToggle()
			}
		case "esc":
			if m.onCancel != nil {
				m.onCancel()
			}
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case RecordingStartMsg:
		m.state = tuiStateRecording
		m.elapsed = 0
		m.samples = nil
		m.gain = 1.0
		m.lastError = ""
		m.errorRaw = ""

	case PausedMsg:
		m.state = tuiStatePaused

	case ResumedMsg:
		m.state = tuiStateRecording

	case FinalizingMsg:
		m.state = tuiStateFinalizing

	case CancelledMsg:
		m.state = tuiStateIdle
		m.samples = nil

	case TranscriptionMsg:
		m.state = tuiStateIdle
		m.samples = nil
		m.msgCount++
		m.lastText = msg.Text
		m.lastDur = msg.Duration
		m.lastCost = msg.Cost
		m.noSpeech = msg.NoSpeech

	case ErrorMsg:
		m.state = tuiStateIdle
		m.samples = nil
		m.lastError = msg.Text
		m.errorRaw = msg.Raw

	case WaveformMsg:
		m.samples = msg.Samples
		m.gain = msg.Gain

	case ElapsedMsg:
		m.elapsed = msg.Duration

	case RateLimitMsg:
		m.rateLimit = msg.Text

	case StatusLineMsg:
		m.statusLine = msg.Text
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString("\n")

	// Status line
	switch m.state {
	case tuiStateRecording:
		b.WriteString(styleRec.Render(fmt.Sprintf("● REC %s", session.FormatElapsed(m.elapsed))))
	case tuiStatePaused:
		b.WriteString(stylePaused.Render(fmt.Sprintf("‖ PAUSED %s", session.FormatElapsed(m.elapsed))))
		b.WriteString(styleDim.Render("  (waiting for speech)"))
	case tuiStateFinalizing:
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}
		b.WriteString(styleBusy.Render(spinner[m.frame%len(spinner)] + " TRANSCRIBING"))
	default:
		b.WriteString(styleIdle.Render("○ STANDBY"))
	}
	b.WriteString("\n\n")

	// Waveform bar
	b.WriteString(m.renderWaveform())
	b.WriteString("\n\n")

	if m.statusLine != "" {
		b.WriteString(styleDim.Render(m.statusLine) + "\n")
	}
	if m.rateLimit != "" {
		b.WriteString(styleDim.Render(m.rateLimit) + "\n")
	}
	b.WriteString("\n")

	// Last outcome panel
	switch {
	case m.lastError != "":
		b.WriteString(styleErr.Render("✗ "+m.lastError) + "\n")
		if m.errorRaw != "" {
			for _, line := range wrapText(m.errorRaw, m.wrapWidth()) {
				b.WriteString(styleDim.Render(line) + "\n")
			}
		}
	case m.noSpeech && m.msgCount > 0:
		b.WriteString(styleWarn.Render("no speech detected") + "\n")
	case m.lastText != "":
		b.WriteString(styleDim.Render(fmt.Sprintf("Last transcription (#%d, %s, $%.4f)", m.msgCount, session.FormatElapsed(m.lastDur), m.lastCost)) + "\n")
		for _, line := range wrapText(m.lastText, m.wrapWidth()) {
			b.WriteString(styleText.Render(line) + "\n")
		}
	default:
		b.WriteString(styleDim.Render("No transcriptions yet") + "\n")
	}
	b.WriteString("\n")

	help := styleHelpKey.Render("Ctrl+Shift+Space") + styleHelp.Render(" or ") +
		styleHelpKey.Render("space") + styleHelp.Render(" to record  ") +
		styleHelpKey.Render("esc") + styleHelp.Render(" to cancel  ") +
		styleHelpKey.Render("q") + styleHelp.Render(" to quit")
	b.WriteString(help + "\n")
	b.WriteString(styleHelp.Render("murmur "+version) + "\n")

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func (m tuiModel) wrapWidth() int {
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	return w
}

// renderWaveform maps the capture frame to one block rune per column, with
// the display gain applied before scaling. Columns fold adjacent samples
// when the frame is wider than the terminal.
func (m tuiModel) renderWaveform() string {
	cols := m.width - 4
	if cols < 16 {
		cols = 16
	}
	if cols > audio.WaveformSize {
		cols = audio.WaveformSize
	}

	live := m.state == tuiStateRecording
	style := styleWaveOff
	if live {
		style = styleWaveRec
	}

	if len(m.samples) == 0 {
		return style.Render(strings.Repeat(string(waveformRunes[0]), cols))
	}

	perCol := len(m.samples) / cols
	if perCol < 1 {
		perCol = 1
	}

	var b strings.Builder
	for c := 0; c < cols; c++ {
		peak := 0
		for i := c * perCol; i < (c+1)*perCol && i < len(m.samples); i++ {
			d := int(m.samples[i]) - audio.WaveformMidpoint
			if d < 0 {
				d = -d
			}
			if d > peak {
				peak = d
			}
		}
		scaled := float64(peak) * m.gain / 128.0
		if scaled > 1 {
			scaled = 1
		}
		idx := int(scaled * float64(len(waveformRunes)-1))
		b.WriteRune(waveformRunes[idx])
	}
	return style.Render(b.String())
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
