// Package dashboard provides the interactive TUI for careerdesk.
// The dashboard is split across multiple files:
//   - model.go: Types, construction, Init, shutdown (this file)
//   - commands.go: tea.Cmds that talk to the backend
//   - update.go: The update loop
//   - view.go: Rendering functions
package dashboard

import (
	"context"
	"sync"
	"time"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/api"
	"careerdesk/internal/config"
	"careerdesk/internal/logging"
	"careerdesk/internal/poll"
	"careerdesk/internal/session"
	"careerdesk/internal/store"
	"careerdesk/internal/ux"
	"careerdesk/internal/viewstate"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Tab identifies a dashboard view.
type Tab int

const (
	TabResumes Tab = iota
	TabRecruiters
	TabMessages
	TabNotifications
	TabCoaching
)

func (t Tab) String() string {
	switch t {
	case TabResumes:
		return "Résumés"
	case TabRecruiters:
		return "Recruiters"
	case TabMessages:
		return "Messages"
	case TabNotifications:
		return "Notifications"
	case TabCoaching:
		return "Coaching"
	default:
		return "?"
	}
}

var allTabs = []Tab{TabResumes, TabRecruiters, TabMessages, TabNotifications, TabCoaching}

// Deps are the services the dashboard is built on. All are owned by
// the caller except the poller and watcher, which the model creates
// and tears down itself.
type Deps struct {
	Client  *api.Client
	Session *session.State
	Cache   *store.Cache // nil disables offline seeding
	Prefs   *ux.Manager
	Config  *config.Config
}

// Model is the main model for the interactive dashboard.
type Model struct {
	// UI components
	styles      ui.Styles
	spinner     spinner.Model
	searchInput textinput.Model
	renderer    *glamour.TermRenderer

	// Backend
	client *api.Client
	sess   *session.State
	cache  *store.Cache
	prefs  *ux.Manager
	cfg    *config.Config

	// Navigation
	tab          Tab
	cursor       int
	statusFilter string // message status sub-tab, "" for all

	// Search
	searching   bool
	searchQuery string
	search      *ui.SearchDebouncer
	searchCh    chan string

	// Per-view remote state
	resumes       *viewstate.Container[api.Resume]
	recruiters    *viewstate.Container[api.Recruiter]
	messages      *viewstate.Container[api.Message]
	notifications *viewstate.Container[api.Notification]
	coaching      *viewstate.Value[api.CoachingBrief]
	stats         *viewstate.Value[api.MessageStats]

	// Identity and unread badge
	account     api.Account
	haveAccount bool
	unread      int
	unreadCh    chan int
	poller      *poll.Poller

	// Config hot reload
	watcher *config.Watcher

	// Inline error from the last reverted mutation, cleared on the
	// next successful action.
	mutationErr string

	// sessionExpired locks the dashboard once a fetch comes back
	// KindAuth; the user must log in again.
	sessionExpired bool

	width  int
	height int
	ready  bool

	// Shutdown coordination
	shutdownOnce   *sync.Once
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// New builds the dashboard model. Cached snapshots, when present, seed
// the containers so the user sees data before the first fetch lands.
func New(deps Deps) Model {
	styles := ui.NewStyles(ui.ThemeFromName(deps.Config.UI.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	search := textinput.New()
	search.Placeholder = "search messages"
	search.CharLimit = 120
	search.Width = 32

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		styles:         styles,
		spinner:        sp,
		searchInput:    search,
		client:         deps.Client,
		sess:           deps.Session,
		cache:          deps.Cache,
		prefs:          deps.Prefs,
		cfg:            deps.Config,
		tab:            tabFromName(deps.Prefs.Get().DefaultTab),
		resumes:        viewstate.NewContainer[api.Resume](),
		recruiters:     viewstate.NewContainer[api.Recruiter](),
		messages:       viewstate.NewContainer[api.Message](),
		notifications:  viewstate.NewContainer[api.Notification](),
		coaching:       viewstate.NewValue[api.CoachingBrief](),
		stats:          viewstate.NewValue[api.MessageStats](),
		search:         ui.NewSearchDebouncer(searchDebounce(deps.Prefs)),
		searchCh:       make(chan string, 1),
		unreadCh:       make(chan int, 1),
		unread:         deps.Session.Unread(),
		shutdownOnce:   &sync.Once{},
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}

	m.seedFromCache()
	m.startPoller()
	m.startConfigWatcher()
	return m
}

func tabFromName(name string) Tab {
	switch name {
	case "recruiters":
		return TabRecruiters
	case "messages":
		return TabMessages
	case "notifications":
		return TabNotifications
	case "coaching":
		return TabCoaching
	default:
		return TabResumes
	}
}

func tabName(t Tab) string {
	switch t {
	case TabRecruiters:
		return "recruiters"
	case TabMessages:
		return "messages"
	case TabNotifications:
		return "notifications"
	case TabCoaching:
		return "coaching"
	default:
		return "resumes"
	}
}

func searchDebounce(prefs *ux.Manager) (d time.Duration) {
	d = ui.DefaultSearchDuration
	if ms := prefs.Get().SearchDebounceMS; ms > 0 {
		d = time.Duration(ms) * time.Millisecond
	}
	return d
}

// seedFromCache pre-populates containers with the last snapshot each
// resource fetched in a previous run. Seeded data is marked stale.
func (m *Model) seedFromCache() {
	if m.cache == nil {
		return
	}
	var resumes []api.Resume
	if _, err := m.cache.Get(store.ResourceResumes, &resumes); err == nil {
		m.resumes.Seed(resumes)
	}
	var recruiters []api.Recruiter
	if _, err := m.cache.Get(store.ResourceRecruiters, &recruiters); err == nil {
		m.recruiters.Seed(recruiters)
	}
	var messages []api.Message
	if _, err := m.cache.Get(store.ResourceMessages, &messages); err == nil {
		m.messages.Seed(messages)
	}
	var notifications []api.Notification
	if _, err := m.cache.Get(store.ResourceNotifications, &notifications); err == nil {
		m.notifications.Seed(notifications)
	}
}

// startPoller begins the background unread-counter poll. Failures are
// silent; the badge just keeps its last value.
func (m *Model) startPoller() {
	if !m.cfg.Poll.Enabled {
		return
	}
	client, sess, ch := m.client, m.sess, m.unreadCh
	m.poller = poll.New(m.cfg.PollInterval(), func(ctx context.Context) {
		n, err := client.UnreadCount(ctx)
		if err != nil {
			logging.PollDebug("unread poll failed: %v", err)
			return
		}
		sess.SetUnread(n)
		select {
		case <-ch:
		default:
		}
		ch <- n
	})
	m.poller.Start(m.shutdownCtx)
}

// startConfigWatcher hot-reloads config.json so theme changes apply to
// the running dashboard.
func (m *Model) startConfigWatcher() {
	dir, err := config.Dir()
	if err != nil {
		return
	}
	w, err := config.NewWatcher(dir)
	if err != nil {
		logging.Config("config watcher unavailable: %v", err)
		return
	}
	m.watcher = w
	w.Start(m.shutdownCtx)
}

// Shutdown stops background goroutines and releases resources. Safe to
// call multiple times.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.shutdownCancel != nil {
			m.shutdownCancel()
		}
		if m.poller != nil {
			m.poller.Stop()
		}
		if m.watcher != nil {
			m.watcher.Stop()
		}
		m.search.Cancel()
		logging.Dashboard("dashboard shut down")
	})
}

// performShutdown is a value-receiver wrapper so Update can trigger
// shutdown before tea.Quit.
func (m Model) performShutdown() {
	ptr := &m
	ptr.Shutdown()
}

// Init starts the spinner, the initial fetches, and the channel
// listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.fetchAccount(),
		m.fetchTab(m.tab),
		m.waitForUnread(),
		m.waitForSearch(),
	}
	if m.tab != TabMessages {
		// The messages container backs the status tabs and unified
		// search, so it loads eagerly.
		cmds = append(cmds, m.fetchMessages(), m.fetchStats())
	} else {
		cmds = append(cmds, m.fetchStats())
	}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForConfig())
	}
	return tea.Batch(cmds...)
}

// Messages for tea updates. Every fetch result carries the sequence
// number issued by BeginLoad so out-of-order resolutions are dropped
// by the container.
type (
	resumesMsg struct {
		seq   uint64
		items []api.Resume
		err   error
	}
	recruitersMsg struct {
		seq   uint64
		items []api.Recruiter
		err   error
	}
	messagesMsg struct {
		seq   uint64
		items []api.Message
		err   error
	}
	notificationsMsg struct {
		seq   uint64
		items []api.Notification
		err   error
	}
	coachingMsg struct {
		seq   uint64
		brief api.CoachingBrief
		err   error
	}
	statsMsg struct {
		seq   uint64
		stats api.MessageStats
		err   error
	}
	accountMsg struct {
		account api.Account
		err     error
	}

	// Mutation results
	deleteMessageDoneMsg struct {
		id  string
		err error
	}
	markSentDoneMsg struct {
		id     string
		record api.Message
		err    error
	}
	markReadDoneMsg struct {
		id     string
		record api.Notification
		err    error
	}

	// Channel-fed updates
	unreadMsg         int
	searchAppliedMsg  string
	configReloadedMsg *config.Config
)
