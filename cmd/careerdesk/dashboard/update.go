package dashboard

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/api"
	"careerdesk/internal/config"
	"careerdesk/internal/derive"
	"careerdesk/internal/logging"
	"careerdesk/internal/ux"
	"careerdesk/internal/viewstate"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		if msg.Width >= 20 {
			if r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(min(msg.Width-4, 100)),
			); err == nil {
				m.renderer = r
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resumesMsg:
		if msg.err != nil {
			if cmd, locked := m.handleAuth(msg.err); locked {
				return m, cmd
			}
			m.resumes.Fail(msg.seq, msg.err)
		} else {
			m.resumes.Succeed(msg.seq, msg.items)
		}
		m.clampCursor()
		return m, nil

	case recruitersMsg:
		if msg.err != nil {
			if cmd, locked := m.handleAuth(msg.err); locked {
				return m, cmd
			}
			m.recruiters.Fail(msg.seq, msg.err)
		} else {
			m.recruiters.Succeed(msg.seq, msg.items)
		}
		m.clampCursor()
		return m, nil

	case messagesMsg:
		if msg.err != nil {
			if cmd, locked := m.handleAuth(msg.err); locked {
				return m, cmd
			}
			m.messages.Fail(msg.seq, msg.err)
		} else {
			m.messages.Succeed(msg.seq, msg.items)
		}
		m.clampCursor()
		return m, nil

	case notificationsMsg:
		if msg.err != nil {
			if cmd, locked := m.handleAuth(msg.err); locked {
				return m, cmd
			}
			m.notifications.Fail(msg.seq, msg.err)
		} else {
			m.notifications.Succeed(msg.seq, msg.items)
		}
		m.clampCursor()
		return m, nil

	case coachingMsg:
		if msg.err != nil {
			if cmd, locked := m.handleAuth(msg.err); locked {
				return m, cmd
			}
			m.coaching.Fail(msg.seq, msg.err)
		} else {
			m.coaching.Succeed(msg.seq, msg.brief)
		}
		return m, nil

	case statsMsg:
		if msg.err != nil {
			if cmd, locked := m.handleAuth(msg.err); locked {
				return m, cmd
			}
			m.stats.Fail(msg.seq, msg.err)
		} else {
			m.stats.Succeed(msg.seq, msg.stats)
		}
		return m, nil

	case accountMsg:
		if msg.err != nil {
			logging.Dashboard("account fetch failed: %v", msg.err)
			return m, nil
		}
		m.account = msg.account
		m.haveAccount = true
		if err := m.sess.SetAccount(msg.account); err != nil {
			logging.SessionError("account not persisted: %v", err)
		}
		return m, nil

	case deleteMessageDoneMsg:
		switch {
		case msg.err == nil || api.IsNotFound(msg.err):
			// A 404 means the record was already gone; the optimistic
			// removal stands either way.
			m.messages.Confirm(nil)
			m.mutationErr = ""
			return m, m.fetchStats()
		default:
			m.messages.Revert()
			m.mutationErr = userMessage(msg.err)
			m.clampCursor()
			return m, nil
		}

	case markSentDoneMsg:
		if msg.err != nil {
			m.messages.Revert()
			m.mutationErr = userMessage(msg.err)
			return m, nil
		}
		record := msg.record
		m.messages.Confirm(viewstate.Replace(
			func(x api.Message) bool { return x.ID == record.ID }, record))
		m.mutationErr = ""
		return m, m.fetchStats()

	case markReadDoneMsg:
		if msg.err != nil {
			m.notifications.Revert()
			m.mutationErr = userMessage(msg.err)
			return m, nil
		}
		record := msg.record
		m.notifications.Confirm(viewstate.Replace(
			func(x api.Notification) bool { return x.ID == record.ID }, record))
		m.mutationErr = ""
		if m.unread > 0 {
			m.unread--
			m.sess.SetUnread(m.unread)
		}
		return m, nil

	case unreadMsg:
		m.unread = int(msg)
		return m, m.waitForUnread()

	case searchAppliedMsg:
		m.searchQuery = string(msg)
		m.cursor = 0
		return m, m.waitForSearch()

	case configReloadedMsg:
		m.cfg = (*config.Config)(msg)
		m.styles = ui.NewStyles(ui.ThemeFromName(m.cfg.UI.Theme))
		m.spinner.Style = m.styles.Spinner
		return m, m.waitForConfig()
	}

	return m, nil
}

// handleAuth turns an expired session into a full-screen lock instead
// of a per-view error.
func (m *Model) handleAuth(err error) (tea.Cmd, bool) {
	if !api.IsAuth(err) {
		return nil, false
	}
	logging.Session("session expired, locking dashboard")
	m.sessionExpired = true
	return nil, true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sessionExpired {
		m.performShutdown()
		return m, tea.Quit
	}

	if msg.Type == tea.KeyCtrlC {
		m.performShutdown()
		return m, tea.Quit
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		m.performShutdown()
		return m, tea.Quit

	case "tab":
		return m.switchTab(Tab((int(m.tab) + 1) % len(allTabs)))
	case "shift+tab":
		return m.switchTab(Tab((int(m.tab) + len(allTabs) - 1) % len(allTabs)))
	case "1":
		return m.switchTab(TabResumes)
	case "2":
		return m.switchTab(TabRecruiters)
	case "3":
		return m.switchTab(TabMessages)
	case "4":
		return m.switchTab(TabNotifications)
	case "5":
		return m.switchTab(TabCoaching)

	case "left", "h":
		if m.tab == TabMessages {
			m.statusFilter = prevStatus(m.statusFilter)
			m.cursor = 0
		}
		return m, nil
	case "right", "l":
		if m.tab == TabMessages {
			m.statusFilter = nextStatus(m.statusFilter)
			m.cursor = 0
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
		return m, nil

	case "/":
		if m.tab == TabMessages {
			m.searching = true
			m.searchInput.SetValue(m.searchQuery)
			m.searchInput.Focus()
		}
		return m, nil

	case "r":
		// Refresh doubles as retry after a failure; the stale rows
		// stay visible while the new fetch is in flight.
		m.mutationErr = ""
		cmds := []tea.Cmd{m.fetchTab(m.tab)}
		if m.tab == TabMessages {
			cmds = append(cmds, m.fetchStats())
		}
		return m, tea.Batch(cmds...)

	case "d":
		if m.tab == TabMessages {
			return m.deleteSelectedMessage()
		}
		return m, nil

	case "s":
		if m.tab == TabMessages {
			return m.markSelectedSent()
		}
		return m, nil

	case "enter":
		if m.tab == TabNotifications {
			return m.markSelectedRead()
		}
		return m, nil

	case "t":
		return m.toggleTheme()

	case "x":
		if m.bannerVisible() {
			if err := m.prefs.DismissBanner(ux.BannerEmailVerification); err != nil {
				logging.Dashboard("banner dismissal not persisted: %v", err)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchQuery = ""
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.search.Cancel()
		m.cursor = 0
		return m, nil
	case tea.KeyEnter:
		// Apply immediately, skipping the debounce.
		m.searching = false
		m.searchQuery = m.searchInput.Value()
		m.searchInput.Blur()
		m.search.Cancel()
		m.cursor = 0
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		ch := m.searchCh
		m.search.Search(after, func(q string) {
			select {
			case <-ch:
			default:
			}
			ch <- q
		})
	}
	return m, cmd
}

// toggleTheme flips between light and dark, restyles the running
// dashboard, and persists the choice.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next := "dark"
	if m.prefs.Get().Theme == "dark" {
		next = "light"
	}
	if err := m.prefs.SetTheme(next); err != nil {
		logging.Dashboard("theme not persisted: %v", err)
	}
	m.styles = ui.NewStyles(ui.ThemeFromName(next))
	m.spinner.Style = m.styles.Spinner
	return m, nil
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.cursor = 0
	m.mutationErr = ""
	if err := m.prefs.SetDefaultTab(tabName(tab)); err != nil {
		logging.Dashboard("default tab not persisted: %v", err)
	}

	// Fetch on first visit; a Ready view refreshes with "r" instead of
	// refetching on every switch.
	if m.tabNeedsFetch(tab) {
		return m, m.fetchTab(tab)
	}
	return m, nil
}

func (m Model) tabNeedsFetch(tab Tab) bool {
	switch tab {
	case TabResumes:
		return m.resumes.Status() == viewstate.Idle
	case TabRecruiters:
		return m.recruiters.Status() == viewstate.Idle
	case TabMessages:
		return m.messages.Status() == viewstate.Idle
	case TabNotifications:
		return m.notifications.Status() == viewstate.Idle
	case TabCoaching:
		return m.coaching.Status() == viewstate.Idle
	default:
		return false
	}
}

// statusOrder is the left-to-right layout of the message status
// sub-tabs. The empty filter is the "All" tab.
var statusOrder = []string{"", api.StatusDraft, api.StatusReady, api.StatusSent, api.StatusResponded}

func nextStatus(current string) string {
	for i, s := range statusOrder {
		if s == current {
			return statusOrder[(i+1)%len(statusOrder)]
		}
	}
	return ""
}

func prevStatus(current string) string {
	for i, s := range statusOrder {
		if s == current {
			return statusOrder[(i+len(statusOrder)-1)%len(statusOrder)]
		}
	}
	return ""
}

// visibleMessages is the projection behind the messages table: status
// sub-tab first, then unified search, server order preserved.
func (m Model) visibleMessages() []api.Message {
	msgs := derive.FilterByStatus(m.messages.Snapshot(), m.statusFilter)
	return derive.FilterMessages(msgs, m.searchQuery)
}

func (m Model) visibleNotifications() []api.Notification {
	return m.notifications.Snapshot()
}

// visibleResumes is the projection the resumes table renders. Cursor
// indexes resolve against this order, not the raw snapshot.
func (m Model) visibleResumes() []api.Resume {
	return derive.SortResumesByScore(m.resumes.Snapshot())
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabResumes:
		return len(m.visibleResumes())
	case TabRecruiters:
		return len(m.recruiters.Snapshot())
	case TabMessages:
		return len(m.visibleMessages())
	case TabNotifications:
		return len(m.visibleNotifications())
	default:
		return 0
	}
}

func (m *Model) clampCursor() {
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) deleteSelectedMessage() (tea.Model, tea.Cmd) {
	rows := m.visibleMessages()
	if m.cursor >= len(rows) {
		return m, nil
	}
	id := rows[m.cursor].ID

	err := m.messages.Apply(viewstate.Remove(
		func(x api.Message) bool { return x.ID == id }))
	if err != nil {
		m.mutationErr = mutationBlocked(err)
		return m, nil
	}
	m.mutationErr = ""
	m.clampCursor()
	return m, m.deleteMessage(id)
}

func (m Model) markSelectedSent() (tea.Model, tea.Cmd) {
	rows := m.visibleMessages()
	if m.cursor >= len(rows) {
		return m, nil
	}
	target := rows[m.cursor]
	if target.Status == api.StatusSent || target.Status == api.StatusResponded {
		return m, nil
	}

	err := m.messages.Apply(viewstate.Patch(
		func(x api.Message) bool { return x.ID == target.ID },
		func(x api.Message) api.Message {
			x.Status = api.StatusSent
			return x
		}))
	if err != nil {
		m.mutationErr = mutationBlocked(err)
		return m, nil
	}
	m.mutationErr = ""
	return m, m.markMessageSent(target.ID)
}

func (m Model) markSelectedRead() (tea.Model, tea.Cmd) {
	rows := m.visibleNotifications()
	if m.cursor >= len(rows) {
		return m, nil
	}
	target := rows[m.cursor]
	if target.Read {
		return m, nil
	}

	err := m.notifications.Apply(viewstate.Patch(
		func(x api.Notification) bool { return x.ID == target.ID },
		func(x api.Notification) api.Notification {
			x.Read = true
			return x
		}))
	if err != nil {
		m.mutationErr = mutationBlocked(err)
		return m, nil
	}
	m.mutationErr = ""
	return m, m.markNotificationRead(target.ID)
}

func (m Model) bannerVisible() bool {
	return m.haveAccount && !m.account.EmailVerified &&
		!m.prefs.IsBannerDismissed(ux.BannerEmailVerification)
}

func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}

func mutationBlocked(err error) string {
	if errors.Is(err, viewstate.ErrMutationPending) {
		return "Another change is still being saved. Try again in a moment."
	}
	return "The view is still loading. Try again once it settles."
}
