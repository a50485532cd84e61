package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/model"
)

// ackPrefix tags the inline button attached to every delivered reminder.
const ackPrefix = "done:"

// Sender is the outbound messaging surface the dispatcher needs.
type Sender interface {
	SendMessageWithButton(chatID int64, text, buttonLabel, callbackData string) error
}

// Dispatcher turns a due reminder into an outbound notification.
type Dispatcher struct {
	sender Sender
}

// New creates a dispatcher delivering through sender.
func New(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch sends the reminder notification with its acknowledge button.
// A non-nil error means the reminder must stay unsent and be retried.
func (d *Dispatcher) Dispatch(r model.Reminder) error {
	message := fmt.Sprintf("🚨 *[REMINDER]*\n\n%s\n\n_(Scheduled for %s)_",
		r.Text, r.RemindAt.Format(time.DateTime))

	if err := d.sender.SendMessageWithButton(r.UserID, message, "✅ Mark as done", AckCallbackData(r.ID)); err != nil {
		return fmt.Errorf("dispatch reminder %d to user %d: %w", r.ID, r.UserID, err)
	}
	return nil
}

// AckCallbackData builds the callback payload for a reminder's acknowledge button.
func AckCallbackData(id uint) string {
	return ackPrefix + strconv.FormatUint(uint64(id), 10)
}

// ParseAckCallback extracts the reminder id from an acknowledge payload.
// Returns false for anything that is not a well-formed done:<id> tag.
func ParseAckCallback(data string) (uint, bool) {
	raw, ok := strings.CutPrefix(data, ackPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
