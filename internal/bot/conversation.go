package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/model"
	"task-tracker/internal/taskform"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDetail
	stageType
	stageDeadline
)

type conversationState struct {
	stage conversationStage
	form  taskform.TaskForm
}

func (b *Bot) startNewTask(ctx context.Context, msg *tgbotapi.Message) error {
	log.WithField("user", msg.From.ID).Debug("start new task conversation")
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle, form: taskform.TaskForm{IsNewTask: true}})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what is the title? (up to 20 characters)", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		state.form.Title = text
		if problem := b.validator.Check(state.form)["title"]; problem != "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title "+problem+". Try again.", cancelKeyboard())
		}
		state.stage = stageDetail
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Add a short detail (or press «Skip»).", skipKeyboard())
	case stageDetail:
		if !isSkipInput(text) {
			state.form.Detail = text
		}
		if problem := b.validator.Check(state.form)["detail"]; problem != "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The detail "+problem+". Try again.", skipKeyboard())
		}
		types, err := b.types.List(ctx)
		if err != nil {
			return b.reportError(msg.Chat.ID, "Could not load task types", err)
		}
		state.stage = stageType
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 Pick a type.", typeKeyboard(types))
	case stageType:
		types, err := b.types.List(ctx)
		if err != nil {
			return b.reportError(msg.Chat.ID, "Could not load task types", err)
		}
		typeID, ok := parseTypeInput(text, types)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the listed types.", typeKeyboard(types))
		}
		state.form.TypeID = typeID
		state.stage = stageDeadline
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ Deadline as <code>2025-11-30</code> or <code>2025-11-30T18:00</code> (or «Skip»).", skipKeyboard())
	case stageDeadline:
		if !isSkipInput(text) {
			d, err := parseDeadline(text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Could not read the date. Use <code>2025-11-30</code> or «Skip».", skipKeyboard())
			}
			state.form.Deadline = &d
		}
		err := b.finishNewTask(ctx, msg.Chat.ID, state.form)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Conversation reset. Start again with /newtask.")
	}
}

func (b *Bot) finishNewTask(ctx context.Context, chatID int64, form taskform.TaskForm) error {
	problems := b.validator.Check(form)
	if _, err := b.tasks.Create(ctx, form, len(problems) == 0); err != nil {
		return b.reportError(chatID, "Could not save the task", err)
	}
	if len(problems) > 0 {
		return b.sendText(chatID, "The task was not saved: "+formatProblems(problems))
	}
	if err := b.sendText(chatID, fmt.Sprintf("✅ <b>Task saved</b>: %s", escape(form.Title))); err != nil {
		return err
	}
	return b.handleList(ctx, chatID)
}

// parseTypeInput accepts a type id, a keyboard label or a type name.
func parseTypeInput(text string, types []model.TaskType) (int, bool) {
	text = strings.TrimSpace(text)
	head := strings.SplitN(text, " ", 2)[0]
	if id, err := strconv.Atoi(head); err == nil {
		for _, t := range types {
			if t.ID == id {
				return id, true
			}
		}
		return 0, false
	}
	for _, t := range types {
		if strings.EqualFold(t.Type, text) {
			return t.ID, true
		}
	}
	return 0, false
}

func parseDeadline(text string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		t, err := time.ParseInLocation(layout, text, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
