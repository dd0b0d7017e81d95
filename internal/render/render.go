// Package render draws app state as terminal text: a tab strip in palette
// colors followed by the active tab's rows.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"microtask/internal/model"
)

const minWidth = 16

type Options struct {
	// Width is the column budget for one collapsed row and for wrapping expanded rows.
	Width   int
	NoColor bool
}

type Renderer struct {
	lg      *lipgloss.Renderer
	width   int
	noColor bool
}

func New(w io.Writer, opts Options) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if opts.NoColor {
		lg.SetColorProfile(termenv.Ascii)
	}
	width := opts.Width
	if width < minWidth {
		width = minWidth
	}
	return &Renderer{lg: lg, width: width, noColor: opts.NoColor}
}

// TabBar renders every tab as a chip: the active one shows its full name inside a
// border in its color, inactive ones show the abbreviation on their color.
func (r *Renderer) TabBar(tabs []model.Tab, activeID uuid.UUID) string {
	if len(tabs) == 0 {
		return r.lg.NewStyle().Faint(true).Render("(no tabs)")
	}
	chips := make([]string, 0, len(tabs))
	for _, t := range tabs {
		chips = append(chips, r.chip(t, t.ID == activeID))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

func (r *Renderer) chip(t model.Tab, active bool) string {
	color := t.Color().Value
	if active {
		name := t.Name
		if name == "" {
			name = " "
		}
		return r.lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Bold(true).
			Padding(0, 1).
			Render(name)
	}
	abbr := t.Abbreviation()
	if abbr == "" {
		abbr = " "
	}
	return r.lg.NewStyle().
		Background(color).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1).
		Margin(0, 1).
		Render(abbr)
}

// Rows renders a tab's rows, numbered from 1. Collapsed rows are cut to one line;
// the expanded row, if any, is rendered as Markdown.
func (r *Renderer) Rows(t model.Tab) string {
	return r.rows(t, -1)
}

// RowsCursor is Rows with a marker in front of the row at index cursor.
func (r *Renderer) RowsCursor(t model.Tab, cursor int) string {
	return r.rows(t, cursor)
}

func (r *Renderer) rows(t model.Tab, cursor int) string {
	if len(t.Rows) == 0 {
		return r.lg.NewStyle().Faint(true).Render("(empty)")
	}
	var b strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		prefix := fmt.Sprintf("%2d. ", i+1)
		if cursor >= 0 {
			mark := "  "
			if i == cursor {
				mark = "> "
			}
			prefix = mark + prefix
		}
		if row.IsExpanded {
			b.WriteString(r.lg.NewStyle().Bold(true).Render(prefix + "▾"))
			b.WriteByte('\n')
			b.WriteString(r.markdown(row.Content))
			continue
		}
		b.WriteString(prefix)
		b.WriteString(Summary(row.Content, r.width-len(prefix)))
	}
	return b.String()
}

// Tab renders the tab strip followed by the active tab's rows.
func (r *Renderer) Tab(tabs []model.Tab, activeID uuid.UUID) string {
	bar := r.TabBar(tabs, activeID)
	for _, t := range tabs {
		if t.ID == activeID {
			return bar + "\n\n" + r.Rows(t)
		}
	}
	return bar
}

// Summary collapses content to its first non-blank line, cut to width columns.
func Summary(content string, width int) string {
	line := ""
	lines := strings.Split(content, "\n")
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			line = strings.TrimSpace(l)
			break
		}
	}
	more := len(strings.TrimSpace(content)) > len(line)
	if width < 1 {
		width = 1
	}
	if more {
		line += " …"
	}
	return ansi.Truncate(line, width, "…")
}

func (r *Renderer) markdown(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	style := styles.DarkStyle
	if r.noColor {
		style = styles.NoTTYStyle
	}
	tr, err := glamour.NewTermRenderer(
		// A fixed style avoids the terminal background query WithAutoStyle makes.
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
