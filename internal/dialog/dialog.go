package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/store"
)

// State identifies where a user is in the add-reminder conversation.
type State int

const (
	StateIdle State = iota
	StateAwaitingText
	StateAwaitingDate
	StateAwaitingTime
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// DefaultTimeout is how long a draft may sit untouched before it is discarded.
	DefaultTimeout = 600 * time.Second
)

// ErrDraftInconsistent signals a draft missing its text or date at commit time.
var ErrDraftInconsistent = errors.New("dialog draft is missing required fields")

// Creator is the slice of the store the dialog needs.
type Creator interface {
	CreateReminder(ctx context.Context, userID int64, text string, remindAt time.Time) (uint, error)
}

// draft is the ephemeral per-user conversation state. Never persisted;
// a restart simply loses in-flight drafts.
type draft struct {
	state     State
	text      string
	date      time.Time // midnight of the chosen day, in the manager's location
	touchedAt time.Time
}

// Manager owns one draft per user and walks each through
// Idle -> AwaitingText -> AwaitingDate -> AwaitingTime -> Idle.
type Manager struct {
	mu     sync.Mutex
	drafts map[int64]*draft

	creator Creator
	logger  *log.Logger
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
}

// New creates a dialog manager committing completed reminders through creator.
func New(creator Creator, logger *log.Logger, loc *time.Location, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Manager{
		drafts:  make(map[int64]*draft),
		creator: creator,
		logger:  logger,
		loc:     loc,
		timeout: timeout,
		now:     time.Now,
	}
}

// Begin starts a fresh dialog for the user, discarding any prior draft,
// and returns the first prompt.
func (m *Manager) Begin(userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drafts[userID] = &draft{
		state:     StateAwaitingText,
		touchedAt: m.now(),
	}

	return "📝 *New Reminder*\n\n" +
		"Please enter the reminder text:\n" +
		"_(e.g., Doctor appointment)_\n\n" +
		"Type /cancel to stop."
}

// Active reports whether the user currently has a dialog in progress.
// An expired draft counts as inactive and is discarded on the spot.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[userID]
	if !ok {
		return false
	}
	if m.expired(d) {
		delete(m.drafts, userID)
		return false
	}
	return true
}

// Cancel discards the user's draft and reports whether one existed.
func (m *Manager) Cancel(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.drafts[userID]
	delete(m.drafts, userID)
	return ok
}

// HandleTurn feeds one plain-text message into the user's dialog and returns
// the reply to send. The only durable side effect is the CreateReminder call
// when the final state completes.
func (m *Manager) HandleTurn(ctx context.Context, userID int64, text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[userID]
	if !ok {
		return ""
	}
	if m.expired(d) {
		delete(m.drafts, userID)
		return "⌛ Your reminder setup timed out. Start again with /add."
	}
	d.touchedAt = m.now()

	input := strings.TrimSpace(text)

	switch d.state {
	case StateAwaitingText:
		return m.receiveText(d, input)
	case StateAwaitingDate:
		return m.receiveDate(d, input)
	case StateAwaitingTime:
		return m.receiveTime(ctx, userID, d, input)
	default:
		delete(m.drafts, userID)
		return ""
	}
}

func (m *Manager) receiveText(d *draft, input string) string {
	if input == "" {
		return "⚠️ Reminder text cannot be empty. Please try again."
	}

	d.text = input
	d.state = StateAwaitingDate

	return fmt.Sprintf("✅ Text saved: *%s*\n\n"+
		"📅 Now enter the *date* for the reminder:\n"+
		"Format: `YYYY-MM-DD`\n"+
		"_(e.g., 2026-03-01)_", input)
}

func (m *Manager) receiveDate(d *draft, input string) string {
	date, err := time.ParseInLocation(dateLayout, input, m.loc)
	if err != nil {
		return "⚠️ Invalid date format. Please use *YYYY-MM-DD*.\n_(e.g., 2026-03-01)_"
	}

	// Calendar comparison only; same-day is fine, the time check comes next.
	today := m.today()
	if date.Before(today) {
		return "⚠️ That date is in the past! Please enter a future date."
	}

	d.date = date
	d.state = StateAwaitingTime

	return fmt.Sprintf("✅ Date saved: *%s*\n\n"+
		"🕒 Now enter the *time* for the reminder:\n"+
		"Format: `HH:MM` (24-hour)\n"+
		"_(e.g., 14:30 for 2:30 PM)_", input)
}

func (m *Manager) receiveTime(ctx context.Context, userID int64, d *draft, input string) string {
	clock, err := time.Parse(timeLayout, input)
	if err != nil {
		return "⚠️ Invalid time format. Please use *HH:MM* (24-hour).\n_(e.g., 14:30)_"
	}

	if d.text == "" || d.date.IsZero() {
		// Indicates a bug or a race with cancel/timeout; abort rather than
		// commit a half-built reminder.
		delete(m.drafts, userID)
		m.logger.Printf("dialog: user %d: %v", userID, ErrDraftInconsistent)
		return "❌ Something went wrong. Please start over with /add."
	}

	remindAt := time.Date(
		d.date.Year(), d.date.Month(), d.date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, m.loc,
	)
	if !remindAt.After(m.now()) {
		return "⚠️ That date and time is already in the past! Please enter a future time."
	}

	id, err := m.creator.CreateReminder(ctx, userID, d.text, remindAt)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return "⚠️ That date and time is already in the past! Please enter a future time."
		}
		m.logger.Printf("dialog: create reminder for user %d: %v", userID, err)
		delete(m.drafts, userID)
		return "❌ I couldn't save that reminder. Please start over with /add."
	}

	text, date := d.text, d.date.Format(dateLayout)
	delete(m.drafts, userID)

	return fmt.Sprintf("🎉 *Reminder saved!*\n\n"+
		"📌 *Text:* %s\n"+
		"📅 *Date:* %s\n"+
		"🕒 *Time:* %s\n"+
		"🆔 *ID:* %d\n\n"+
		"I'll remind you at %s on %s. ✅", text, date, input, id, input, date)
}

// Run reaps expired drafts until the context is cancelled. The per-turn
// expiry check already guarantees correctness; the reaper just keeps
// abandoned drafts from lingering in memory.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.timeout / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, d := range m.drafts {
		if m.expired(d) {
			delete(m.drafts, userID)
			m.logger.Printf("dialog: user %d: draft timed out", userID)
		}
	}
}

func (m *Manager) expired(d *draft) bool {
	return m.now().Sub(d.touchedAt) >= m.timeout
}

func (m *Manager) today() time.Time {
	now := m.now().In(m.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, m.loc)
}
