package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"careerdesk/internal/api"
	"careerdesk/internal/logging"
	"careerdesk/internal/store"
)

// fetchTab kicks off the fetch for the view that just mounted. Views
// other than the requested one keep whatever state they have.
func (m Model) fetchTab(tab Tab) tea.Cmd {
	switch tab {
	case TabResumes:
		return m.fetchResumes()
	case TabRecruiters:
		return m.fetchRecruiters()
	case TabMessages:
		return m.fetchMessages()
	case TabNotifications:
		return m.fetchNotifications()
	case TabCoaching:
		return m.fetchCoaching()
	default:
		return nil
	}
}

func (m Model) fetchResumes() tea.Cmd {
	seq := m.resumes.BeginLoad()
	client, cache, ctx := m.client, m.cache, m.shutdownCtx
	return func() tea.Msg {
		items, err := client.ListResumes(ctx)
		if err == nil && cache != nil {
			if cErr := cache.Put(store.ResourceResumes, items); cErr != nil {
				logging.StoreError("resume snapshot not cached: %v", cErr)
			}
		}
		return resumesMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) fetchRecruiters() tea.Cmd {
	seq := m.recruiters.BeginLoad()
	client, cache, ctx := m.client, m.cache, m.shutdownCtx
	return func() tea.Msg {
		items, err := client.ListRecruiters(ctx)
		if err == nil && cache != nil {
			if cErr := cache.Put(store.ResourceRecruiters, items); cErr != nil {
				logging.StoreError("recruiter snapshot not cached: %v", cErr)
			}
		}
		return recruitersMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) fetchMessages() tea.Cmd {
	seq := m.messages.BeginLoad()
	client, cache, ctx := m.client, m.cache, m.shutdownCtx
	return func() tea.Msg {
		items, err := client.ListMessages(ctx, api.MessageFilter{})
		if err == nil && cache != nil {
			if cErr := cache.Put(store.ResourceMessages, items); cErr != nil {
				logging.StoreError("message snapshot not cached: %v", cErr)
			}
		}
		return messagesMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) fetchNotifications() tea.Cmd {
	seq := m.notifications.BeginLoad()
	client, cache, ctx := m.client, m.cache, m.shutdownCtx
	return func() tea.Msg {
		items, err := client.ListNotifications(ctx)
		if err == nil && cache != nil {
			if cErr := cache.Put(store.ResourceNotifications, items); cErr != nil {
				logging.StoreError("notification snapshot not cached: %v", cErr)
			}
		}
		return notificationsMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) fetchCoaching() tea.Cmd {
	seq := m.coaching.BeginLoad()
	client, ctx := m.client, m.shutdownCtx
	return func() tea.Msg {
		brief, err := client.Coaching(ctx)
		return coachingMsg{seq: seq, brief: brief, err: err}
	}
}

func (m Model) fetchStats() tea.Cmd {
	seq := m.stats.BeginLoad()
	client, ctx := m.client, m.shutdownCtx
	return func() tea.Msg {
		stats, err := client.GetMessageStats(ctx)
		return statsMsg{seq: seq, stats: stats, err: err}
	}
}

func (m Model) fetchAccount() tea.Cmd {
	client, ctx := m.client, m.shutdownCtx
	return func() tea.Msg {
		acct, err := client.CurrentAccount(ctx)
		return accountMsg{account: acct, err: err}
	}
}

// deleteMessage issues the DELETE backing an already-applied
// optimistic removal.
func (m Model) deleteMessage(id string) tea.Cmd {
	client, ctx := m.client, m.shutdownCtx
	return func() tea.Msg {
		err := client.DeleteMessage(ctx, id)
		return deleteMessageDoneMsg{id: id, err: err}
	}
}

// markMessageSent issues the POST backing the optimistic status flip
// and carries back the authoritative record for reconciliation.
func (m Model) markMessageSent(id string) tea.Cmd {
	client, ctx := m.client, m.shutdownCtx
	return func() tea.Msg {
		record, err := client.MarkMessageSent(ctx, id)
		return markSentDoneMsg{id: id, record: record, err: err}
	}
}

func (m Model) markNotificationRead(id string) tea.Cmd {
	client, ctx := m.client, m.shutdownCtx
	return func() tea.Msg {
		record, err := client.MarkNotificationRead(ctx, id)
		return markReadDoneMsg{id: id, record: record, err: err}
	}
}

// waitForUnread blocks on the poller channel and republishes counts as
// messages. Re-issued after every delivery.
func (m Model) waitForUnread() tea.Cmd {
	ch := m.unreadCh
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return unreadMsg(n)
	}
}

// waitForSearch delivers debounced search queries into the update
// loop.
func (m Model) waitForSearch() tea.Cmd {
	ch := m.searchCh
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return searchAppliedMsg(q)
	}
}

// waitForConfig delivers hot-reloaded configurations.
func (m Model) waitForConfig() tea.Cmd {
	ch := m.watcher.Updates()
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configReloadedMsg(cfg)
	}
}
