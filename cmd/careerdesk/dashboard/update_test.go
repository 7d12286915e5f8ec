// Tests for the dashboard update loop: fetch lifecycle, out-of-order
// resolution, optimistic mutations with rollback, search, and the
// verification banner.
package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"careerdesk/internal/api"
	"careerdesk/internal/ux"
	"careerdesk/internal/viewstate"
)

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(t)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	result := newModel.(Model)

	if result.width != 120 || result.height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", result.width, result.height)
	}
	if !result.ready {
		t.Error("Model must be ready after the first window size")
	}
}

func TestUpdate_WindowSize_Zero(t *testing.T) {
	m := newTestModel(t)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Panic on zero window size: %v", r)
		}
	}()
	_, _ = m.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
}

func TestUpdate_FetchLifecycle(t *testing.T) {
	m := newTestModel(t)

	seq := m.messages.BeginLoad()
	if m.messages.Status() != viewstate.Loading {
		t.Fatalf("Expected Loading, got %s", m.messages.Status())
	}

	items := testMessages()
	newModel, _ := m.Update(messagesMsg{seq: seq, items: items})
	result := newModel.(Model)

	if result.messages.Status() != viewstate.Ready {
		t.Errorf("Expected Ready, got %s", result.messages.Status())
	}
	// Rendered rows are exactly the normalized response in server order.
	if diff := cmp.Diff(items, result.messages.Snapshot()); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_StaleResolutionDropped(t *testing.T) {
	m := newTestModel(t)

	oldSeq := m.messages.BeginLoad()
	newSeq := m.messages.BeginLoad()

	fresh := testMessages()
	model1, _ := m.Update(messagesMsg{seq: newSeq, items: fresh})
	m = model1.(Model)

	// The slow first response lands afterwards and must be ignored.
	model2, _ := m.Update(messagesMsg{seq: oldSeq, items: []api.Message{{ID: "stale"}}})
	m = model2.(Model)

	if diff := cmp.Diff(fresh, m.messages.Snapshot()); diff != "" {
		t.Errorf("Stale response overwrote fresh data (-want +got):\n%s", diff)
	}
}

func TestUpdate_FailureKeepsLastGoodSnapshot(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	seq := m.messages.BeginLoad()
	newModel, _ := m.Update(messagesMsg{seq: seq, err: &api.Error{Kind: api.KindServer, Status: 500}})
	m = newModel.(Model)

	if m.messages.Status() != viewstate.Failed {
		t.Fatalf("Expected Failed, got %s", m.messages.Status())
	}
	if len(m.messages.Snapshot()) != 3 {
		t.Error("Failure must preserve the last good snapshot")
	}
	if !m.messages.Stale() {
		t.Error("Preserved snapshot must be marked stale")
	}

	view := m.View()
	if !strings.Contains(view, "retry") {
		t.Error("Failed view must offer a retry hint")
	}
}

func TestUpdate_AuthErrorLocksDashboard(t *testing.T) {
	m := newTestModel(t)

	seq := m.messages.BeginLoad()
	newModel, _ := m.Update(messagesMsg{seq: seq, err: &api.Error{Kind: api.KindAuth, Status: 401}})
	m = newModel.(Model)

	if !m.sessionExpired {
		t.Fatal("Auth failure must lock the dashboard")
	}
	if !strings.Contains(m.View(), "session has expired") {
		t.Error("Locked view must explain the expired session")
	}

	_, cmd := m.Update(keyMsg("j"))
	if cmd == nil {
		t.Error("Any key on the locked screen must quit")
	}
}

func TestUpdate_ResumeCursorFollowsScoreOrder(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabResumes

	// Snapshot arrives low score first; the table renders high first.
	seq := m.resumes.BeginLoad()
	newModel, _ := m.Update(resumesMsg{seq: seq, items: []api.Resume{
		{ID: "r1", Title: "Backend CV", ATSScore: 55, UpdatedAt: time.Now()},
		{ID: "r2", Title: "Platform CV", ATSScore: 91, UpdatedAt: time.Now()},
	}})
	m = newModel.(Model)

	visible := m.visibleResumes()
	if visible[0].ID != "r2" || visible[1].ID != "r1" {
		t.Fatalf("Projection must be score-ordered, got %s then %s", visible[0].ID, visible[1].ID)
	}

	view := m.View()
	if strings.Index(view, "Platform CV") > strings.Index(view, "Backend CV") {
		t.Error("Rendered rows must follow the score-ordered projection")
	}

	newModel, _ = m.Update(keyMsg("j"))
	m = newModel.(Model)
	if got := m.visibleResumes()[m.cursor].ID; got != "r1" {
		t.Errorf("Cursor must resolve against the rendered order, got %s", got)
	}
}

func TestUpdate_AuthErrorOnCoachingLocksDashboard(t *testing.T) {
	m := newTestModel(t)

	seq := m.coaching.BeginLoad()
	newModel, _ := m.Update(coachingMsg{seq: seq, err: &api.Error{Kind: api.KindAuth, Status: 401}})
	m = newModel.(Model)

	if !m.sessionExpired {
		t.Fatal("Coaching auth failure must lock the session, not the view")
	}
}

func TestUpdate_AuthErrorOnStatsLocksDashboard(t *testing.T) {
	m := newTestModel(t)

	seq := m.stats.BeginLoad()
	newModel, _ := m.Update(statsMsg{seq: seq, err: &api.Error{Kind: api.KindAuth, Status: 401}})
	m = newModel.(Model)

	if !m.sessionExpired {
		t.Fatal("Stats auth failure must lock the session, not the view")
	}
}

func TestUpdate_OptimisticDeleteConfirmed(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	newModel, cmd := m.Update(keyMsg("d"))
	m = newModel.(Model)

	if cmd == nil {
		t.Fatal("Delete must issue the backend call")
	}
	if len(m.messages.Snapshot()) != 2 {
		t.Fatalf("Row must disappear immediately, got %d rows", len(m.messages.Snapshot()))
	}
	if !m.messages.MutationPending() {
		t.Error("Mutation must be pending until the backend answers")
	}

	newModel, _ = m.Update(deleteMessageDoneMsg{id: "m1"})
	m = newModel.(Model)

	if m.messages.MutationPending() {
		t.Error("Confirmed mutation must clear the pending flag")
	}
	if len(m.messages.Snapshot()) != 2 {
		t.Error("Confirmed success must never resurrect the row")
	}
}

func TestUpdate_OptimisticDeleteRevertedOnFailure(t *testing.T) {
	original := testMessages()
	m := readyWithMessages(t, newTestModel(t), original)
	m.tab = TabMessages
	m.cursor = 1

	newModel, _ := m.Update(keyMsg("d"))
	m = newModel.(Model)
	if len(m.messages.Snapshot()) != 2 {
		t.Fatal("Row must disappear optimistically")
	}

	newModel, _ = m.Update(deleteMessageDoneMsg{id: "m2", err: &api.Error{Kind: api.KindServer, Status: 500}})
	m = newModel.(Model)

	if diff := cmp.Diff(original, m.messages.Snapshot()); diff != "" {
		t.Errorf("Failed delete must restore the exact pre-mutation snapshot (-want +got):\n%s", diff)
	}
	if m.mutationErr == "" {
		t.Error("Failed delete must surface an inline error")
	}
	if !strings.Contains(m.View(), m.mutationErr) {
		t.Error("Inline error must be rendered")
	}

	// The triggering key works again after the revert.
	newModel, cmd := m.Update(keyMsg("d"))
	m = newModel.(Model)
	if cmd == nil || len(m.messages.Snapshot()) != 2 {
		t.Error("Delete must be re-enabled after a revert")
	}
}

func TestUpdate_DeleteNotFoundCountsAsSuccess(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	newModel, _ := m.Update(keyMsg("d"))
	m = newModel.(Model)

	newModel, _ = m.Update(deleteMessageDoneMsg{id: "m1", err: &api.Error{Kind: api.KindNotFound, Status: 404}})
	m = newModel.(Model)

	if m.messages.MutationPending() {
		t.Error("A 404 on delete means the record is gone; the removal stands")
	}
	if len(m.messages.Snapshot()) != 2 {
		t.Error("Row must stay removed after a 404")
	}
}

func TestUpdate_SecondMutationBlockedWhilePending(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	newModel, _ := m.Update(keyMsg("d"))
	m = newModel.(Model)

	newModel, cmd := m.Update(keyMsg("d"))
	m = newModel.(Model)

	if cmd != nil {
		t.Error("Second mutation must not reach the backend")
	}
	if len(m.messages.Snapshot()) != 2 {
		t.Error("Second mutation must not change the snapshot")
	}
	if !strings.Contains(m.mutationErr, "still being saved") {
		t.Errorf("Expected pending-mutation message, got %q", m.mutationErr)
	}
}

func TestUpdate_MarkSentReconcilesServerRecord(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages
	m.cursor = 0 // m1, draft

	newModel, cmd := m.Update(keyMsg("s"))
	m = newModel.(Model)
	if cmd == nil {
		t.Fatal("Mark sent must issue the backend call")
	}
	if m.messages.Snapshot()[0].Status != api.StatusSent {
		t.Error("Status must flip optimistically")
	}

	sentAt := time.Now()
	server := api.Message{ID: "m1", Subject: "Quick intro", RecruiterName: "Dana at Google",
		Status: api.StatusSent, SentAt: &sentAt}
	newModel, _ = m.Update(markSentDoneMsg{id: "m1", record: server})
	m = newModel.(Model)

	got := m.messages.Snapshot()[0]
	if got.SentAt == nil {
		t.Error("Confirmation must reconcile server-side fields like sent_at")
	}
}

func TestUpdate_MarkNotificationRead(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabNotifications
	m.unread = 2

	seq := m.notifications.BeginLoad()
	newModel, _ := m.Update(notificationsMsg{seq: seq, items: []api.Notification{
		{ID: "n1", Title: "New suggestion", Read: false},
	}})
	m = newModel.(Model)

	newModel, cmd := m.Update(keyMsg("enter"))
	m = newModel.(Model)
	if cmd == nil {
		t.Fatal("Mark read must issue the backend call")
	}
	if !m.notifications.Snapshot()[0].Read {
		t.Error("Notification must flip to read optimistically")
	}

	newModel, _ = m.Update(markReadDoneMsg{id: "n1", record: api.Notification{ID: "n1", Title: "New suggestion", Read: true}})
	m = newModel.(Model)
	if m.unread != 1 {
		t.Errorf("Unread badge must drop to 1, got %d", m.unread)
	}
}

func TestUpdate_SearchFiltersMatchedFields(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	newModel, cmd := m.Update(searchAppliedMsg("google"))
	m = newModel.(Model)

	if cmd == nil {
		t.Error("Search delivery must re-arm the listener")
	}
	rows := m.visibleMessages()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 matches for %q, got %d", "google", len(rows))
	}
	if rows[0].ID != "m1" || rows[1].ID != "m3" {
		t.Errorf("Wrong matches, got %s and %s", rows[0].ID, rows[1].ID)
	}
}

func TestUpdate_StatusTabsFilter(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	newModel, _ := m.Update(keyMsg("right"))
	m = newModel.(Model)
	if m.statusFilter != api.StatusDraft {
		t.Fatalf("Expected draft filter, got %q", m.statusFilter)
	}
	if rows := m.visibleMessages(); len(rows) != 1 || rows[0].ID != "m1" {
		t.Errorf("Draft tab must show only m1, got %+v", rows)
	}

	newModel, _ = m.Update(keyMsg("left"))
	m = newModel.(Model)
	if m.statusFilter != "" {
		t.Errorf("Expected all tab, got %q", m.statusFilter)
	}
}

func TestUpdate_UnreadBadge(t *testing.T) {
	m := newTestModel(t)

	newModel, cmd := m.Update(unreadMsg(5))
	m = newModel.(Model)

	if m.unread != 5 {
		t.Errorf("unread = %d, want 5", m.unread)
	}
	if cmd == nil {
		t.Error("Unread delivery must re-arm the listener")
	}
	if !strings.Contains(m.View(), "5") {
		t.Error("Badge must be rendered")
	}
}

func TestUpdate_BannerDismissal(t *testing.T) {
	m := newTestModel(t)

	newModel, _ := m.Update(accountMsg{account: api.Account{
		ID: "u1", FullName: "Dana Doe", EmailVerified: false,
	}})
	m = newModel.(Model)

	if !m.bannerVisible() {
		t.Fatal("Unverified account must show the banner")
	}
	if !strings.Contains(m.View(), "verify your email") {
		t.Error("Banner must be rendered")
	}

	newModel, _ = m.Update(keyMsg("x"))
	m = newModel.(Model)

	if m.bannerVisible() {
		t.Error("Dismissed banner must hide")
	}
	if !m.prefs.IsBannerDismissed(ux.BannerEmailVerification) {
		t.Error("Dismissal must be persisted")
	}
}

func TestUpdate_VerifiedAccountShowsNoBanner(t *testing.T) {
	m := newTestModel(t)

	newModel, _ := m.Update(accountMsg{account: api.Account{ID: "u1", EmailVerified: true}})
	m = newModel.(Model)

	if m.bannerVisible() {
		t.Error("Verified account must never show the banner")
	}
}

func TestUpdate_TabSwitchFetchesIdleView(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabResumes

	newModel, cmd := m.Update(keyMsg("3"))
	m = newModel.(Model)

	if m.tab != TabMessages {
		t.Fatalf("Expected messages tab, got %s", m.tab)
	}
	if cmd == nil {
		t.Error("First visit to an Idle view must fetch")
	}
	if m.prefs.Get().DefaultTab != "messages" {
		t.Error("Active tab must be persisted as the default")
	}

	// Second visit to a non-idle view does not refetch.
	m = readyWithMessages(t, m, testMessages())
	newModel, _ = m.Update(keyMsg("1"))
	m = newModel.(Model)
	_, cmd = m.Update(keyMsg("3"))
	if cmd != nil {
		t.Error("Revisiting a Ready view must not refetch")
	}
}

func TestUpdate_RefreshKeepsRowsVisible(t *testing.T) {
	m := readyWithMessages(t, newTestModel(t), testMessages())
	m.tab = TabMessages

	newModel, cmd := m.Update(keyMsg("r"))
	m = newModel.(Model)

	if cmd == nil {
		t.Fatal("Refresh must issue fetches")
	}
	if m.messages.Status() != viewstate.Loading {
		t.Errorf("Expected Loading, got %s", m.messages.Status())
	}
	if len(m.messages.Snapshot()) != 3 {
		t.Error("Rows must stay visible during a refresh")
	}
	if !m.messages.Stale() {
		t.Error("Rows must be marked stale during a refresh")
	}
}

func TestUpdate_MutationRequiresReadyView(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabMessages
	m.messages.Seed(testMessages()) // stale cache, no confirmed fetch yet

	newModel, cmd := m.Update(keyMsg("d"))
	m = newModel.(Model)

	if cmd != nil {
		t.Error("Mutations against an unconfirmed snapshot must not reach the backend")
	}
	if len(m.messages.Snapshot()) != 3 {
		t.Error("Seeded snapshot must be untouched")
	}
	if m.mutationErr == "" {
		t.Error("User must see why the action was refused")
	}
}

func TestUpdate_ThemeToggle(t *testing.T) {
	m := newTestModel(t)

	newModel, _ := m.Update(keyMsg("t"))
	m = newModel.(Model)
	if m.prefs.Get().Theme != "dark" {
		t.Fatalf("Expected dark theme, got %q", m.prefs.Get().Theme)
	}

	newModel, _ = m.Update(keyMsg("t"))
	m = newModel.(Model)
	if m.prefs.Get().Theme != "light" {
		t.Errorf("Expected toggle back to light, got %q", m.prefs.Get().Theme)
	}
}

func TestUpdate_ErrorHelperMessages(t *testing.T) {
	if got := userMessage(&api.Error{Kind: api.KindTransport}); !strings.Contains(got, "connection") {
		t.Errorf("Transport message unexpected: %q", got)
	}
	if got := userMessage(errors.New("plain")); got != "plain" {
		t.Errorf("Plain errors pass through, got %q", got)
	}
}
