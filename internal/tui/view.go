package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/csvdesk/csvdesk/internal/listing"
)

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(Theme.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(Theme.PageInfo.Render(pageFooter(m.page, m.loading, m.spinner.View())))
	b.WriteString("\n\n")

	b.WriteString(m.path.View())
	b.WriteString("\n")
	if len(m.candidates) > 0 {
		b.WriteString(Theme.Help.Render("  " + strings.Join(m.candidates, "  ")))
		b.WriteString("\n")
	}
	if m.uploading {
		b.WriteString(m.spinner.View() + " " + m.uploadName + " ")
		b.WriteString(m.bar.ViewAs(m.percent / 100))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.pending != nil:
		b.WriteString(Theme.Prompt.Render(m.pending.prompt + " (y/n)"))
	case m.status != "":
		b.WriteString(severityStyle(m.statusLevel).Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keys))

	return Theme.App.Render(b.String())
}

func pageFooter(p listing.Page, loading bool, spin string) string {
	footer := p.Info()
	if p.Query != "" {
		footer += fmt.Sprintf(" · %s of %s files match", humanize.Comma(int64(p.Filtered)), humanize.Comma(int64(p.Total)))
	} else {
		footer += fmt.Sprintf(" · %s files", humanize.Comma(int64(p.Total)))
	}
	if loading {
		footer = spin + " " + footer
	}
	return footer
}
