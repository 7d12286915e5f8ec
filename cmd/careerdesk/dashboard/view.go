// Package dashboard provides the interactive TUI for careerdesk.
// This file contains view rendering functions.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/api"
	"careerdesk/internal/derive"
	"careerdesk/internal/viewstate"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading careerdesk..."
	}
	if m.sessionExpired {
		return m.styles.Content.Render(
			m.styles.Error.Render("Your session has expired.") +
				"\n\nRun " + m.styles.Bold.Render("careerdesk login") +
				" and start the dashboard again.\n\nPress any key to exit.")
	}

	sections := []string{m.renderHeader()}
	if m.bannerVisible() {
		sections = append(sections, m.renderBanner())
	}
	sections = append(sections,
		m.renderTabBar(),
		m.renderContent(),
		m.renderFooter(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := "careerdesk"
	if m.haveAccount {
		title += " — " + m.account.FullName
	}
	header := m.styles.Header.Render(title)

	if m.unread > 0 {
		badge := m.styles.Badge.Render(fmt.Sprintf("✉ %d", m.unread))
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, " ", badge)
	}
	return header
}

func (m Model) renderBanner() string {
	return m.styles.Banner.Render(
		"Please verify your email address to unlock sending. Press x to dismiss.")
}

func (m Model) renderTabBar() string {
	var tabs []string
	for _, t := range allTabs {
		label := t.String()
		if t == TabNotifications && m.unread > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.unread)
		}
		if t == m.tab {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) renderContent() string {
	var body string
	switch m.tab {
	case TabResumes:
		body = m.renderResumes()
	case TabRecruiters:
		body = m.renderRecruiters()
	case TabMessages:
		body = m.renderMessages()
	case TabNotifications:
		body = m.renderNotifications()
	case TabCoaching:
		body = m.renderCoaching()
	}

	if m.mutationErr != "" {
		body = m.styles.Error.Render("✗ "+m.mutationErr) + "\n\n" + body
	}
	return m.styles.Content.Render(body)
}

// renderCollection implements the shared tri-state rendering contract:
// spinner while loading with no data, error with retry hint on
// failure, stale-marked rows when showing a cached snapshot.
func renderCollection(m Model, status viewstate.Status, stale bool, failErr error, n int, table func() string, empty string) string {
	switch status {
	case viewstate.Idle:
		return m.styles.Muted.Render("Nothing loaded yet.")
	case viewstate.Loading:
		if n == 0 {
			return m.spinner.View() + " " + m.styles.Muted.Render("Loading...")
		}
		return m.spinner.View() + "\n" + table()
	case viewstate.Failed:
		msg := "Something went wrong."
		var apiErr *api.Error
		if errors.As(failErr, &apiErr) {
			msg = apiErr.UserMessage()
		}
		out := m.styles.Error.Render("✗ " + msg + " Press r to retry.")
		if n > 0 {
			out += "\n\n" + m.styles.Stale.Render("Showing previously loaded data:") + "\n" + table()
		}
		return out
	default: // Ready
		if n == 0 {
			return m.styles.Muted.Render(empty)
		}
		if stale {
			return m.styles.Stale.Render("(cached)") + "\n" + table()
		}
		return table()
	}
}

func (m Model) renderResumes() string {
	rows := m.resumes.Snapshot()
	table := func() string {
		t := ui.NewSimpleTable("", []string{"Title", "ATS", "Coverage", "Updated"})
		t.Selected = m.cursor
		t.Stale = m.resumes.Stale()
		for _, r := range m.visibleResumes() {
			matched := 0
			for _, s := range r.Skills {
				if s.Matched {
					matched++
				}
			}
			t.AddRow(
				r.Title,
				fmt.Sprintf("%d", r.ATSScore),
				fmt.Sprintf("%d%%", derive.Coverage(matched, len(r.Skills))),
				r.UpdatedAt.Format("2006-01-02"),
			)
		}
		return t.View(m.styles)
	}
	return renderCollection(m, m.resumes.Status(), m.resumes.Stale(), m.resumes.Err(),
		len(rows), table, "No résumés yet. Upload one from the web app.")
}

func (m Model) renderRecruiters() string {
	rows := m.recruiters.Snapshot()
	table := func() string {
		t := ui.NewSimpleTable("", []string{"Name", "Company", "Last contact"})
		t.Selected = m.cursor
		t.Stale = m.recruiters.Stale()
		for _, r := range rows {
			last := "—"
			if r.LastContactAt != nil {
				last = r.LastContactAt.Format("2006-01-02")
			}
			t.AddRow(r.Name, r.Company, last)
		}
		return t.View(m.styles)
	}
	return renderCollection(m, m.recruiters.Status(), m.recruiters.Stale(), m.recruiters.Err(),
		len(rows), table, "No recruiters tracked yet.")
}

func (m Model) renderMessages() string {
	var sb strings.Builder
	sb.WriteString(m.renderStatusTabs())
	sb.WriteString("\n")

	if m.searching {
		sb.WriteString("Search: " + m.searchInput.View() + "\n\n")
	} else if m.searchQuery != "" {
		sb.WriteString(m.styles.Muted.Render(`Filter: "`+m.searchQuery+`" (press / to edit)`) + "\n\n")
	}

	rows := m.visibleMessages()
	table := func() string {
		t := ui.NewSimpleTable("", []string{"Subject", "Recruiter", "Status", "Score"})
		t.Selected = m.cursor
		t.Stale = m.messages.Stale()
		for _, x := range rows {
			score := "—"
			if x.Score != nil {
				score = fmt.Sprintf("%d", *x.Score)
			}
			t.AddRow(x.Subject, x.RecruiterName, x.Status, score)
		}
		return t.View(m.styles)
	}

	empty := "No messages yet."
	if m.searchQuery != "" || m.statusFilter != "" {
		empty = "No messages match the current filter."
	}
	sb.WriteString(renderCollection(m, m.messages.Status(), m.messages.Stale(), m.messages.Err(),
		len(rows), table, empty))
	return sb.String()
}

// renderStatusTabs draws the per-status message counts. Backend stats
// are authoritative; until they land the counts derive from the local
// snapshot.
func (m Model) renderStatusTabs() string {
	stats := m.stats.Get()
	if m.stats.Status() != viewstate.Ready {
		stats = derive.CountByStatus(m.messages.Snapshot())
	}

	entries := []struct {
		label  string
		status string
		count  int
	}{
		{"All", "", stats.Total},
		{"Draft", api.StatusDraft, stats.Draft},
		{"Ready", api.StatusReady, stats.Ready},
		{"Sent", api.StatusSent, stats.Sent},
		{"Responded", api.StatusResponded, stats.Responded},
	}

	var tabs []string
	for _, e := range entries {
		label := fmt.Sprintf("%s %d", e.label, e.count)
		if e.status == m.statusFilter {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) renderNotifications() string {
	rows := m.visibleNotifications()
	table := func() string {
		t := ui.NewSimpleTable("", []string{"", "Title", "When"})
		t.Selected = m.cursor
		t.Stale = m.notifications.Stale()
		for _, n := range rows {
			marker := " "
			if !n.Read {
				marker = "●"
			}
			t.AddRow(marker, n.Title, relativeTime(n.CreatedAt))
		}
		return t.View(m.styles)
	}
	return renderCollection(m, m.notifications.Status(), m.notifications.Stale(), m.notifications.Err(),
		len(rows), table, "No notifications.")
}

func (m Model) renderCoaching() string {
	switch m.coaching.Status() {
	case viewstate.Idle:
		return m.styles.Muted.Render("Nothing loaded yet.")
	case viewstate.Loading:
		return m.spinner.View() + " " + m.styles.Muted.Render("Generating your brief...")
	case viewstate.Failed:
		msg := "Something went wrong."
		var apiErr *api.Error
		if errors.As(m.coaching.Err(), &apiErr) {
			msg = apiErr.UserMessage()
		}
		return m.styles.Error.Render("✗ " + msg + " Press r to retry.")
	}

	brief := m.coaching.Get()
	if brief.Markdown == "" {
		return m.styles.Muted.Render("No coaching brief available yet.")
	}
	body := m.safeRenderMarkdown(brief.Markdown)
	stamp := m.styles.Muted.Render("Generated " + brief.GeneratedAt.Format("Jan 2, 15:04"))
	return stamp + "\n" + body
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) renderFooter() string {
	help := "tab switch · ↑/↓ move · r refresh · t theme · q quit"
	switch m.tab {
	case TabMessages:
		help = "←/→ status · / search · d delete · s mark sent · " + help
	case TabNotifications:
		help = "enter mark read · " + help
	}
	return m.styles.Footer.Render(help)
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
