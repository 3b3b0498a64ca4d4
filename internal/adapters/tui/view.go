package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/facet/internal/core/domain"
)

// maxRowsPerCard caps how many breakdown lines one widget card shows.
const maxRowsPerCard = 8

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("FACET DASHBOARD"))
	if m.loading {
		b.WriteString(" " + cachedStyle.Render("computing..."))
	} else {
		b.WriteString(" " + cachedStyle.Render(fmt.Sprintf("%d widgets in %s", len(m.results), m.took.Round(time.Millisecond))))
	}
	b.WriteString("\n\n")

	if len(m.results) == 0 && !m.loading {
		b.WriteString(emptyStyle.Render("no ground widgets configured") + "\n")
	}

	cards := make([]string, 0, len(m.results))
	for _, r := range m.results {
		cards = append(cards, m.renderCard(r))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	if m.lastInv != nil {
		b.WriteString(cachedStyle.Render(fmt.Sprintf(
			"last change invalidated %d entries (%s)",
			m.lastInv.EntriesInvalidated,
			strings.Join(m.lastInv.InvalidatedWidgets, ", "),
		)) + "\n")
	}

	b.WriteString(helpStyle.Render("r refresh · q quit"))
	return b.String()
}

func (m Model) renderCard(r domain.WidgetResult) string {
	var b strings.Builder
	b.WriteString(widgetNameStyle.Render(r.Widget.ID) + "\n")

	switch {
	case r.Result.IsEmpty:
		b.WriteString(emptyStyle.Render(r.Result.EmptyReason))
	default:
		switch data := r.Result.Data.(type) {
		case domain.AggregationData:
			b.WriteString(countStyle.Render(fmt.Sprintf("%d", data.TotalCount)) + " notes\n")
			b.WriteString(renderCounts(data.TagCounts, "#"))
			for _, field := range r.Widget.Options.GroupBy {
				b.WriteString(renderCounts(data.FieldCounts[field], field+"="))
			}
		case []domain.SimilarityEntry:
			for i, entry := range data {
				if i >= maxRowsPerCard {
					break
				}
				b.WriteString(fmt.Sprintf("%.2f  %s\n", entry.Score, entry.Path))
			}
		default:
			b.WriteString(errorStyle.Render("unrenderable payload"))
		}
	}

	return cardStyle.Render(b.String())
}

// renderCounts renders a count map sorted by count descending then key.
func renderCounts(counts map[string]int, prefix string) string {
	if len(counts) == 0 {
		return ""
	}
	type kv struct {
		key   string
		count int
	}
	rows := make([]kv, 0, len(counts))
	for k, c := range counts {
		rows = append(rows, kv{k, c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})

	var b strings.Builder
	for i, row := range rows {
		if i >= maxRowsPerCard {
			break
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, row.key, countStyle.Render(fmt.Sprintf("%d", row.count))))
	}
	return b.String()
}
