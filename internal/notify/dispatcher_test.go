package notify

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/model"
)

// fakeSender captures the last outbound message.
type fakeSender struct {
	chatID       int64
	text         string
	buttonLabel  string
	callbackData string
	err          error
	calls        int
}

func (f *fakeSender) SendMessageWithButton(chatID int64, text, buttonLabel, callbackData string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.chatID = chatID
	f.text = text
	f.buttonLabel = buttonLabel
	f.callbackData = callbackData
	return nil
}

func TestDispatchBuildsNotification(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	d := New(sender)

	remindAt := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	reminder := model.Reminder{ID: 42, UserID: 7, Text: "Doctor appointment", RemindAt: remindAt}

	if err := d.Dispatch(reminder); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if sender.chatID != 7 {
		t.Fatalf("sent to chat %d, want 7", sender.chatID)
	}
	if !strings.Contains(sender.text, "Doctor appointment") {
		t.Fatalf("message missing reminder text: %q", sender.text)
	}
	if !strings.Contains(sender.text, "2026-03-01 14:30:00") {
		t.Fatalf("message missing scheduled time: %q", sender.text)
	}
	if sender.callbackData != "done:42" {
		t.Fatalf("callback data = %q, want done:42", sender.callbackData)
	}
	if sender.buttonLabel == "" {
		t.Fatalf("acknowledge button has no label")
	}
}

func TestDispatchReportsTransportFailure(t *testing.T) {
	t.Parallel()
	transportErr := errors.New("bot was blocked by the user")
	sender := &fakeSender{err: transportErr}
	d := New(sender)

	err := d.Dispatch(model.Reminder{ID: 1, UserID: 7, Text: "x", RemindAt: time.Now()})
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestAckCallbackRoundTrip(t *testing.T) {
	t.Parallel()

	id, ok := ParseAckCallback(AckCallbackData(42))
	if !ok || id != 42 {
		t.Fatalf("ParseAckCallback(AckCallbackData(42)) = %d, %v", id, ok)
	}
}

func TestParseAckCallbackRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, data := range []string{"", "done:", "done:abc", "done:-1", "done:0", "undone:3", "3"} {
		if id, ok := ParseAckCallback(data); ok {
			t.Fatalf("ParseAckCallback(%q) accepted as id %d", data, id)
		}
	}
}
