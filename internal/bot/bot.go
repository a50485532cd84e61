package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/dialog"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/notify"
	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/store"
)

// Messenger is the outbound messaging surface the bot needs.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	EditMessageText(chatID int64, messageID int, text string) error
	AnswerCallback(callbackID, text string) error
}

// Turn is one inbound text message from a user. In private chats the chat id
// equals the user id, so replies go straight back to UserID.
type Turn struct {
	UserID    int64
	Username  string
	FirstName string
	Text      string
}

// Action is one inbound button press.
type Action struct {
	UserID      int64
	CallbackID  string
	Data        string
	ChatID      int64
	MessageID   int
	MessageText string
}

// Bot routes inbound updates to the dialog state machine and command handlers.
type Bot struct {
	store   *store.Store
	dialogs *dialog.Manager
	msg     Messenger
	logger  *log.Logger
}

// New wires the bot's collaborators together.
func New(st *store.Store, dialogs *dialog.Manager, msg Messenger, logger *log.Logger) *Bot {
	return &Bot{
		store:   st,
		dialogs: dialogs,
		msg:     msg,
		logger:  logger,
	}
}

// Run consumes the updates channel until the context is cancelled or the
// channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		from := update.Message.From
		b.handleTurn(ctx, Turn{
			UserID:    from.ID,
			Username:  from.UserName,
			FirstName: from.FirstName,
			Text:      update.Message.Text,
		})
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		action := Action{
			UserID:     query.From.ID,
			CallbackID: query.ID,
			Data:       query.Data,
		}
		if query.Message != nil {
			action.ChatID = query.Message.Chat.ID
			action.MessageID = query.Message.MessageID
			action.MessageText = query.Message.Text
		}
		b.handleAction(action)
	}
}

// handleTurn registers the user, then routes the message either into the
// dialog state machine or to a command handler.
func (b *Bot) handleTurn(ctx context.Context, turn Turn) {
	if err := b.store.UpsertUser(ctx, turn.UserID, turn.Username, turn.FirstName); err != nil {
		b.logger.Printf("bot: upsert user %d: %v", turn.UserID, err)
	}

	command, args, isCommand := parseCommand(turn.Text)
	if !isCommand {
		if b.dialogs.Active(turn.UserID) {
			if reply := b.dialogs.HandleTurn(ctx, turn.UserID, turn.Text); reply != "" {
				b.reply(turn.UserID, reply)
			}
		}
		// Plain text outside a dialog is ignored.
		return
	}

	// Any command other than /add interrupts an in-progress dialog.
	if command != "add" && b.dialogs.Cancel(turn.UserID) {
		b.reply(turn.UserID, "❌ Reminder creation cancelled.")
		if command == "cancel" {
			return
		}
	}

	switch command {
	case "start":
		b.reply(turn.UserID, welcomeText(turn.FirstName))
	case "help":
		b.reply(turn.UserID, helpText())
	case "add":
		b.reply(turn.UserID, b.dialogs.Begin(turn.UserID))
	case "list":
		b.handleList(ctx, turn.UserID)
	case "delete":
		b.handleDelete(ctx, turn.UserID, args)
	default:
		// Unknown commands outside a dialog are ignored.
	}
}

func (b *Bot) handleList(ctx context.Context, userID int64) {
	reminders, err := b.store.ListPending(ctx, userID)
	if err != nil {
		b.logger.Printf("bot: list reminders for user %d: %v", userID, err)
		b.reply(userID, "❌ I couldn't fetch your reminders. Please try again later.")
		return
	}

	if len(reminders) == 0 {
		b.reply(userID, "📭 You have no upcoming reminders.\n\nUse /add to create one!")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 *Your Upcoming Reminders:*\n")
	for _, r := range reminders {
		fmt.Fprintf(&sb, "\n🔔 *ID %d* — %s\n   📅 %s", r.ID, r.Text, r.RemindAt.Format("Jan 02, 2006 at 15:04"))
	}
	sb.WriteString("\n\nUse /delete <ID> to remove a reminder.")

	b.reply(userID, sb.String())
}

func (b *Bot) handleDelete(ctx context.Context, userID int64, args string) {
	if args == "" {
		b.reply(userID, "⚠️ Please provide a reminder ID.\nUsage: `/delete 3`\n\nUse /list to see your reminder IDs.")
		return
	}

	id, err := strconv.ParseUint(args, 10, 32)
	if err != nil || id == 0 {
		b.reply(userID, "⚠️ Invalid ID. Please provide a positive whole number.\nExample: `/delete 3`")
		return
	}

	deleted, err := b.store.DeleteReminder(ctx, uint(id), userID)
	if err != nil {
		b.logger.Printf("bot: delete reminder %d for user %d: %v", id, userID, err)
		b.reply(userID, "❌ I couldn't delete that reminder. Please try again later.")
		return
	}

	if deleted {
		b.reply(userID, fmt.Sprintf("✅ Reminder #%d has been deleted.", id))
		return
	}
	b.reply(userID, fmt.Sprintf("❌ Could not find reminder #%d.\n\nIt may already have been sent or deleted. Use /list to check.", id))
}

// handleAction acknowledges a reminder's done button. Cosmetic only: the
// message is edited but the stored reminder is untouched.
func (b *Bot) handleAction(action Action) {
	if _, ok := notify.ParseAckCallback(action.Data); !ok {
		return
	}

	if err := b.msg.AnswerCallback(action.CallbackID, "Marked as done ✅"); err != nil {
		b.logger.Printf("bot: %v", err)
	}

	if action.MessageText == "" {
		return
	}
	doneText := action.MessageText + "\n\n✅ Done"
	if err := b.msg.EditMessageText(action.ChatID, action.MessageID, doneText); err != nil {
		b.logger.Printf("bot: %v", err)
	}
}

func (b *Bot) reply(userID int64, text string) {
	if err := b.msg.SendMessage(userID, text); err != nil {
		b.logger.Printf("bot: %v", err)
	}
}

// parseCommand splits "/delete 3" into ("delete", "3", true). A trailing
// @botname on the command is dropped. Non-command text returns ok=false.
func parseCommand(text string) (command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	command, args, _ = strings.Cut(text[1:], " ")
	command, _, _ = strings.Cut(command, "@")
	if command == "" {
		return "", "", false
	}
	return strings.ToLower(command), strings.TrimSpace(args), true
}

func welcomeText(firstName string) string {
	if strings.TrimSpace(firstName) == "" {
		firstName = "there"
	}
	return fmt.Sprintf("👋 Hello, %s! I'm your *Reminder Bot*.\n\n"+
		"I'll send you a reminder at the time you choose.\n\n"+
		"📋 *Available commands:*\n"+
		"/add — Create a new reminder\n"+
		"/list — View all your pending reminders\n"+
		"/delete — Delete a reminder\n"+
		"/help — Show detailed instructions\n\n"+
		"Get started by typing /add! 🚀", firstName)
}

func helpText() string {
	return "🤖 *Reminder Bot — How to Use*\n\n" +
		"*Creating a reminder (/add)*\n" +
		"1. Type /add\n" +
		"2. Enter your reminder text (e.g., _Doctor appointment_)\n" +
		"3. Enter the date in YYYY-MM-DD format (e.g., _2026-03-01_)\n" +
		"4. Enter the time in HH:MM format (e.g., _14:30_)\n" +
		"✅ Your reminder is saved!\n\n" +
		"*Listing reminders (/list)*\n" +
		"Type /list to see all your upcoming reminders with their IDs and scheduled times.\n\n" +
		"*Deleting a reminder (/delete)*\n" +
		"Type /delete followed by the reminder ID (e.g., /delete 3).\n" +
		"Find the ID using /list.\n\n" +
		"*Cancelling /add*\n" +
		"Type /cancel at any point during the /add flow to stop.\n\n" +
		"⏰ Reminders are checked every minute, so delivery is accurate to ~1 minute."
}
