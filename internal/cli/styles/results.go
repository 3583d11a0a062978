package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/recall/internal/domain/entity"
)

const (
	cursorEmpty    = "  "
	cursorSelected = "▸ " // ▸
	activeMarker   = "●"  // ●
	ellipsis       = "…"  // …
	minRowWidth    = 20
)

// RenderResults renders ranked results as two-line rows: title, then URL with badges.
// Rows past height/2 are dropped; a zero height renders every row.
func (t *Theme) RenderResults(results []entity.SearchResult, selected, width, height int, now time.Time) string {
	if len(results) == 0 {
		return t.Subtle.Render("  No matching history")
	}
	if width < minRowWidth {
		width = minRowWidth
	}

	start, end := 0, len(results)
	if rows := height / 2; height > 0 && rows < len(results) {
		if selected >= rows {
			start = selected - rows + 1
		}
		end = start + rows
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		b.WriteString(t.RenderResultRow(results[i], i == selected, width, now))
	}
	return b.String()
}

// RenderResultRow renders one result.
func (t *Theme) RenderResultRow(r entity.SearchResult, selected bool, width int, now time.Time) string {
	cursor := cursorEmpty
	titleStyle, descStyle := t.ListItemTitle, t.ListItemDesc
	if selected {
		cursor = t.Highlight.Render(cursorSelected)
		titleStyle, descStyle = t.ListItemTitleSelected, t.ListItemDescSelected
	}

	title := r.Title
	if title == "" {
		title = r.URL
	}
	if r.IsActive {
		title = activeMarker + " " + title
	}

	var badges []string
	if r.IsActive {
		badges = append(badges, t.Badge.Render("open"))
	}
	if r.VisitCount > 1 {
		badges = append(badges, t.BadgeMuted.Render(fmt.Sprintf("%d visits", r.VisitCount)))
	}
	if r.LastVisitTime > 0 {
		badges = append(badges, t.Subtle.Render(RelativeTimeFrom(time.UnixMilli(r.LastVisitTime), now)))
	}
	badgeText := strings.Join(badges, " ")

	contentWidth := width - lipgloss.Width(cursorEmpty)
	urlWidth := contentWidth - lipgloss.Width(badgeText) - 1
	if urlWidth < minRowWidth/2 {
		urlWidth = minRowWidth / 2
	}

	line1 := cursor + titleStyle.Render(Truncate(title, contentWidth))
	line2 := cursorEmpty + descStyle.Render(Truncate(r.URL, urlWidth))
	if badgeText != "" {
		line2 += " " + badgeText
	}
	return line1 + "\n" + line2
}

// Truncate shortens s to at most width cells, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

// RelativeTime formats a time relative to now (e.g., "2h ago").
func RelativeTime(tm time.Time) string {
	return RelativeTimeFrom(tm, time.Now())
}

// RelativeTimeFrom formats tm relative to now.
func RelativeTimeFrom(tm, now time.Time) string {
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return ago(int(diff.Minutes()), "m")
	case diff < 24*time.Hour:
		return ago(int(diff.Hours()), "h")
	case diff < 7*24*time.Hour:
		return ago(int(diff.Hours()/24), "d")
	case diff < 30*24*time.Hour:
		return ago(int(diff.Hours()/(24*7)), "w")
	case diff < 365*24*time.Hour:
		return ago(int(diff.Hours()/(24*30)), "mo")
	default:
		return ago(int(diff.Hours()/(24*365)), "y")
	}
}

func ago(n int, unit string) string {
	return fmt.Sprintf("%d%s ago", n, unit)
}
