package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/switchctl/internal/experiment"
)

type TickMsg time.Time

// RunMsg carries one finished run into the Progress model.
type RunMsg experiment.Event

// DoneMsg ends the sweep; Err is the sweep error, if any.
type DoneMsg struct{ Err error }

type taskProgress struct {
	runs     int
	failures int
	best     float64
}

// Progress follows a sweep: overall completion, per-task best values and a
// sparkline of recent objective values.
type Progress struct {
	total   int
	done    int
	failed  int
	tasks   map[string]*taskProgress
	recent  []float64
	frame   int
	started time.Time
	elapsed time.Duration
	err     error
	over    bool
}

func NewProgress(totalRuns int) Progress {
	return Progress{
		total:   totalRuns,
		tasks:   make(map[string]*taskProgress),
		started: time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Progress) Init() tea.Cmd {
	return tick()
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case TickMsg:
		if m.over {
			return m, nil
		}
		m.frame++
		m.elapsed = time.Since(m.started)
		return m, tick()
	case RunMsg:
		m.record(experiment.Event(msg))
	case DoneMsg:
		m.over = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	}
	return m, nil
}

func (m *Progress) record(ev experiment.Event) {
	tp, ok := m.tasks[ev.Task]
	if !ok {
		tp = &taskProgress{best: ev.Value}
		m.tasks[ev.Task] = tp
	}
	m.done++
	if ev.Err != nil {
		m.failed++
		tp.failures++
		return
	}
	if tp.runs == 0 || ev.Value < tp.best {
		tp.best = ev.Value
	}
	tp.runs++
	m.recent = append(m.recent, ev.Value)
	if len(m.recent) > 200 {
		m.recent = m.recent[len(m.recent)-200:]
	}
}

func (m Progress) View() string {
	var s strings.Builder

	status := StatusRunning.Render(Spinner(m.frame) + " running")
	if m.over {
		status = StatusRunning.Render("done")
		if m.err != nil {
			status = StatusFailed.Render("failed: " + m.err.Error())
		}
	}
	s.WriteString(HeaderStyle.Render("Sweep") + "  " + status + "\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	s.WriteString(fmt.Sprintf("%s %d/%d runs  %s\n", ProgressBar(pct, 40), m.done, m.total, Subtle.Render(m.elapsed.Round(time.Second).String())))
	if m.failed > 0 {
		s.WriteString(StatusFailed.Render(fmt.Sprintf("%d failed runs", m.failed)) + "\n")
	}
	s.WriteString("\n")

	names := make([]string, 0, len(m.tasks))
	for name := range m.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tp := m.tasks[name]
		best := "-"
		if tp.runs > 0 {
			best = fmt.Sprintf("%.6g", tp.best)
		}
		s.WriteString(MetricLabel.Render(name) + MetricValue.Render(best))
		if tp.failures > 0 {
			s.WriteString(" " + StatusFailed.Render(fmt.Sprintf("(%d failed)", tp.failures)))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n" + SparklineChart(m.recent, 60) + "\n")
	s.WriteString(KeyHint.Render("q: stop following") + "\n")
	return Panel.Render(s.String())
}
