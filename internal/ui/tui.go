// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/plan"
	"github.com/planweek/planweek/internal/pomodoro"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	runPomodoro bool
	now         func() time.Time
}

// WithPomodoro enables running a pomodoro timer in the background pane.
func WithPomodoro(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.runPomodoro = enabled
	}
}

// WithClock overrides the clock used for "today" (used in tests).
func WithClock(now func() time.Time) TUIOption {
	return func(c *tuiConfig) {
		c.now = now
	}
}

// RunTUI starts the weekly calendar TUI with the given config.
func RunTUI(ctx context.Context, cfg *config.Config, planPath string, opts ...TUIOption) error {
	c := &tuiConfig{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	var statusCh chan pomodoro.Status
	var cancel context.CancelFunc
	if c.runPomodoro {
		statusCh = make(chan pomodoro.Status, 16)
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		settings := cfg.Pomodoro.Settings()
		go func() {
			timer, err := pomodoro.NewTimer(settings)
			if err != nil {
				close(statusCh)
				return
			}
			timer.Start(c.now())
			runner := pomodoro.NewRunner(timer, time.Second)
			_ = runner.Run(ctx, statusCh)
		}()
	}

	model := newTUIModel(cfg, planPath, statusCh, c.now)
	return runProgram(ctx, model)
}

func runProgram(ctx context.Context, model *tuiModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dayHeadStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212"))
	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	phaseStyles   = map[pomodoro.Phase]lipgloss.Style{
		pomodoro.PhaseFocus:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		pomodoro.PhaseShortBreak: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		pomodoro.PhaseLongBreak:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
	}
)

type tuiModel struct {
	cfg      *config.Config
	planPath string
	now      func() time.Time

	anchor time.Time // any day inside the displayed week
	file   *plan.File

	loadErr  error
	fatalErr error

	statusCh   <-chan pomodoro.Status
	lastStatus pomodoro.Status
	timerDone  bool

	input    textinput.Model
	adding   bool
	addErr   error
	showHelp bool

	tickInterval time.Duration
}

type tickMsg time.Time

type pomodoroMsg struct {
	status pomodoro.Status
}

type pomodoroDoneMsg struct{}

func newTUIModel(cfg *config.Config, planPath string, statusCh <-chan pomodoro.Status, now func() time.Time) *tuiModel {
	input := textinput.New()
	input.Placeholder = "14:00-15:30 Study algebra"
	input.CharLimit = 120
	input.Width = 48

	return &tuiModel{
		cfg:          cfg,
		planPath:     planPath,
		now:          now,
		anchor:       now(),
		statusCh:     statusCh,
		input:        input,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	cmds := []tea.Cmd{tickCmd(m.tickInterval)}
	if m.statusCh != nil {
		cmds = append(cmds, waitForPomodoro(m.statusCh))
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateQuickAdd(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "left", "p":
			m.anchor = m.anchor.AddDate(0, 0, -7)
			return m, nil
		case "right", "n":
			m.anchor = m.anchor.AddDate(0, 0, 7)
			return m, nil
		case "t":
			m.anchor = m.now()
			return m, nil
		case "a":
			m.adding = true
			m.addErr = nil
			m.input.SetValue("")
			return m, m.input.Focus()
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case pomodoroMsg:
		m.lastStatus = msg.status
		if m.statusCh != nil {
			return m, waitForPomodoro(m.statusCh)
		}
	case pomodoroDoneMsg:
		m.timerDone = true
	}

	return m, nil
}

func (m *tuiModel) updateQuickAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		if err := m.commitQuickAdd(m.input.Value()); err != nil {
			m.addErr = err
			return m, nil
		}
		m.adding = false
		m.input.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitQuickAdd parses the quick-add input and appends a task on today.
func (m *tuiModel) commitQuickAdd(value string) error {
	task, err := ParseQuickAdd(value, m.now())
	if err != nil {
		return err
	}
	file, err := plan.LoadOrInit(m.planPath)
	if err != nil {
		return err
	}
	file.AddTask(task)
	return file.Save(m.planPath)
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("planweek") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.statusCh != nil {
		writePomodoroPane(&b, m.lastStatus, m.timerDone)
	}

	if m.loadErr != nil {
		b.WriteString("Error loading plan file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}
	if m.file == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b)
		return b.String()
	}

	m.writeWeek(&b)

	if m.adding {
		b.WriteString("Add task (esc to cancel):\n")
		b.WriteString(m.input.View() + "\n")
		if m.addErr != nil {
			b.WriteString(priorityStyle.Render("  "+m.addErr.Error()) + "\n")
		}
		b.WriteString("\n")
	}

	writeFooter(&b)
	return b.String()
}

// writeWeek renders the seven day columns for the anchored week.
func (m *tuiModel) writeWeek(b *strings.Builder) {
	week := plan.Week(m.anchor)
	today := m.now().Format(plan.DateLayout)

	b.WriteString(fmt.Sprintf("Week of %s - %s\n\n",
		week[0].Format("Mon Jan 2"), week[6].Format("Mon Jan 2")))

	for _, day := range week {
		head := day.Format("Monday 2006-01-02")
		if day.Format(plan.DateLayout) == today {
			b.WriteString(todayStyle.Render(head) + "\n")
		} else {
			b.WriteString(dayHeadStyle.Render(head) + "\n")
		}
		b.WriteString(RenderDay(m.file.TasksOn(day)))
		b.WriteString("\n")
	}
}

func writePomodoroPane(b *strings.Builder, status pomodoro.Status, done bool) {
	if done {
		b.WriteString("Pomodoro finished.\n\n")
		return
	}
	if status.Phase == "" {
		return
	}
	style, ok := phaseStyles[status.Phase]
	if !ok {
		style = dimStyle
	}
	state := "paused"
	if status.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("%s  %s  (%s, %d done)\n\n",
		style.Render(string(status.Phase)),
		FormatRemaining(status.Remaining),
		state,
		status.CompletedFocus,
	))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh plan\n")
	b.WriteString("  left, p      Previous week\n")
	b.WriteString("  right, n     Next week\n")
	b.WriteString("  t            Jump to today\n")
	b.WriteString("  a            Quick-add a task for today\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(dimStyle.Render("Press h for help | a to add | q to quit") + "\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForPomodoro(ch <-chan pomodoro.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return pomodoroDoneMsg{}
		}
		return pomodoroMsg{status: status}
	}
}

func (m *tuiModel) refresh() {
	file, err := plan.LoadOrInit(m.planPath)
	if err != nil {
		m.loadErr = err
		m.file = nil
		return
	}
	m.loadErr = nil
	m.file = file
}

// IsTTY returns true if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
