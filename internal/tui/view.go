package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moorebrett0/triops/internal/lore"
	"github.com/moorebrett0/triops/internal/triops"
)

const (
	tankCols = 48
	tankRows = 12
	logLines = 6
)

// glyph draws the organism for its stage and direction.
func glyph(o triops.Organism, molting bool) string {
	if !o.Alive {
		return "x_x"
	}
	if molting {
		return "{~}"
	}
	// Rotation 90 faces right, 270 faces left.
	right := true
	if r := mod360(o.Position.Rotation); r > 180 {
		right = false
	}
	switch o.Stage {
	case triops.Egg:
		return "o"
	case triops.Nauplius:
		if right {
			return "~>"
		}
		return "<~"
	case triops.Juvenile:
		if right {
			return "=<>"
		}
		return "<>="
	default:
		if right {
			return "≈<D"
		}
		return "C>≈"
	}
}

func mod360(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

// renderTank draws the water column with the organism and the sand bed.
func (m Model) renderTank() string {
	o, env := m.snap.Organism, m.snap.Environment
	g := []rune(glyph(o, m.snap.Molting))

	col := int(o.Position.X / 100 * float64(tankCols-len(g)))
	row := int(o.Position.Y / 100 * float64(tankRows-1))
	if o.Stage == triops.Egg || !o.Alive {
		row = tankRows - 1
	}

	var b strings.Builder
	for r := 0; r < tankRows; r++ {
		line := []rune(strings.Repeat(" ", tankCols))
		if r == row {
			copy(line[col:], g)
		}
		b.WriteString(string(line))
		b.WriteByte('\n')
	}

	sand := strings.Repeat(".", tankCols)
	if env.EggsInSand > 0 {
		eggs := fmt.Sprintf(" %d eggs ", env.EggsInSand)
		sand = sand[:2] + eggs + sand[2+len(eggs):]
	}
	b.WriteString(m.styles.Sand.Render(sand))

	style := m.styles.Tank
	if env.WaterQuality < triops.FoulWaterQuality {
		style = m.styles.Murky
	}
	if !env.LightOn {
		style = style.Faint(true)
	}
	return style.Render(b.String())
}

func (m Model) gauge(label string, v, warn, bad float64) string {
	const width = 20
	filled := int(v / 100 * width)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return m.styles.Label.Render(label) + m.styles.level(v, warn, bad).Render(fmt.Sprintf("%s %3.0f", bar, v))
}

func (m Model) renderStats() string {
	o, env := m.snap.Organism, m.snap.Environment
	p := lore.For(o.Stage)

	tempStyle := m.styles.Good
	if env.Temperature > triops.HotTemperature || env.Temperature < triops.ColdTemperature {
		tempStyle = m.styles.Bad
	}

	lines := []string{
		m.styles.Title.Render(fmt.Sprintf("%s %s", p.Emoji, o.Name)),
		fmt.Sprintf("%s · %s %s", p.Name, lore.MoodEmoji(m.snap.Mood), m.snap.Mood),
		m.styles.Muted.Render(fmt.Sprintf("age %d cycles · size %.1f", o.Age, o.Size)),
		"",
		m.gauge("health", o.Health, 60, 30),
		m.gauge("hunger", o.Hunger, 40, triops.StarvingHunger),
		m.gauge("water", env.WaterQuality, 60, triops.FoulWaterQuality),
		m.gauge("oxygen", env.Oxygen, 50, triops.LowOxygen),
		m.styles.Label.Render("temp") + tempStyle.Render(fmt.Sprintf("%.1f°C", env.Temperature)),
		m.styles.Label.Render("light") + onOff(env.LightOn),
	}
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderLog() string {
	if len(m.log) == 0 {
		return m.styles.Muted.Render("research log is empty")
	}
	n := len(m.log)
	if n > logLines {
		n = logLines
	}
	lines := make([]string, 0, n)
	for _, ev := range m.log[:n] {
		style := m.styles.Muted
		switch ev.Severity {
		case triops.SeveritySuccess:
			style = m.styles.Good
		case triops.SeverityWarning:
			style = m.styles.Warn
		case triops.SeverityError:
			style = m.styles.Bad
		}
		lines = append(lines, style.Render(ev.Time.Format("15:04:05")+" "+ev.Message))
	}
	return strings.Join(lines, "\n")
}

// View renders the tank.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTank(), " ", m.renderStats())

	flavor := m.flavor
	if m.busy {
		flavor = "..."
	}
	if flavor != "" {
		flavor = m.styles.Flavor.Render("“" + flavor + "”")
	}

	help := m.styles.Help.Render("f feed · c clean · o aerate · l light · +/- temp · space tap · r restart · t thought · ? fact · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, top, flavor, m.renderLog(), "", help)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
