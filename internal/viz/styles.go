package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
)

const (
	colorBorder = lipgloss.Color("#3b4261")
	colorAccent = lipgloss.Color("#7aa2f7")
	colorMuted  = lipgloss.Color("#565f89")
	colorText   = lipgloss.Color("#c0caf5")
	colorGood   = lipgloss.Color("#9ece6a")
	colorFair   = lipgloss.Color("#e0af68")
	colorPoor   = lipgloss.Color("#f7768e")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	Title       = fg(colorAccent).Bold(true)
	HeaderStyle = fg(colorText).Bold(true).Underline(true)
	Subtle      = fg(colorMuted)
	KeyHint     = fg(colorMuted).Italic(true)

	StatusRunning = fg(colorGood).Bold(true)
	StatusFailed  = fg(colorPoor).Bold(true)

	MetricLabel = fg(colorMuted).Width(24)
	MetricValue = fg(colorAccent)
)

// grade colours a cell by how good it is, 1 being best.
func grade(goodness float64) lipgloss.Style {
	switch {
	case goodness >= 0.7:
		return fg(colorGood)
	case goodness >= 0.3:
		return fg(colorFair)
	default:
		return fg(colorPoor)
	}
}

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

func Spinner(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}

var eighths = []rune(" ▏▎▍▌▋▊▉")

// ProgressBar renders fraction in [0, 1] with eighth-cell resolution.
func ProgressBar(fraction float64, width int) string {
	fraction = math.Max(0, math.Min(1, fraction))
	cells := fraction * float64(width)
	full := int(cells)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	if full < width {
		sb.WriteRune(eighths[int((cells-float64(full))*8)])
		sb.WriteString(strings.Repeat(" ", width-full-1))
	}
	return grade(fraction).Render(sb.String()) + Subtle.Render("▕")
}

var bars = []rune("▁▂▃▄▅▆▇█")

// SparklineChart renders the last width values, low values green.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		bar := string(bars[int(norm*float64(len(bars)-1))])
		sb.WriteString(grade(1 - norm).Render(bar))
	}
	return sb.String()
}
