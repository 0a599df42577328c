package ui

import (
	"fmt"
)

// renderHeader renders the status bar: logo, account count, feed health and
// the time of the last successful fetch.
func (m Model) renderHeader() string {
	width, _ := m.size()
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("auox", styles.Logo)}

	switch {
	case m.feed.IsOffline():
		parts = append(parts,
			bg.Render("OFFLINE", styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case m.feed.LastError != nil:
		parts = append(parts, bg.Render("Fetch failed, retrying", styles.WarningText))
	case !m.feed.Loaded:
		parts = append(parts, bg.Render("Loading accounts...", styles.WarningText))
	default:
		parts = append(parts,
			bg.Render("Accounts:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.visible)), styles.Text),
		)
	}

	if !m.feed.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.feed.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(width).Render(bg.Join(parts, "  "))
}
