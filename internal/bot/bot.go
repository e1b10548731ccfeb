package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/controller"
	"task-tracker/internal/model"
	"task-tracker/internal/service"
	"task-tracker/internal/taskform"
)

// Tasks is the orchestrator the bot drives.
type Tasks interface {
	List(ctx context.Context, form taskform.TaskForm) (controller.Outcome, error)
	Create(ctx context.Context, form taskform.TaskForm, valid bool) (controller.Outcome, error)
	ShowUpdate(ctx context.Context, form taskform.TaskForm, id int, notice string) (controller.Outcome, error)
	Duplicate(ctx context.Context, form taskform.TaskForm, id int) (controller.Outcome, error)
	Delete(ctx context.Context, id int) (controller.Outcome, error)
	SelectType(ctx context.Context, form taskform.TaskForm, typeID int) (controller.Outcome, error)
}

type TypeLister interface {
	List(ctx context.Context) ([]model.TaskType, error)
}

type Digester interface {
	Summary(ctx context.Context, now time.Time) (string, error)
}

// sender is the part of the Telegram API used to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot serves the task list over Telegram private chats.
type Bot struct {
	api          *tgbotapi.BotAPI
	out          sender
	tasks        Tasks
	types        TypeLister
	digest       Digester
	validator    *taskform.Validator
	digestChatID int64

	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(token string, tasks Tasks, types TypeLister, digest Digester, digestChatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.WithField("account", api.Self.UserName).Info("bot authorized")

	b := newBot(api, tasks, types, digest, digestChatID)
	b.api = api
	return b, nil
}

func newBot(out sender, tasks Tasks, types TypeLister, digest Digester, digestChatID int64) *Bot {
	return &Bot{
		out:           out,
		tasks:         tasks,
		types:         types,
		digest:        digest,
		validator:     taskform.NewValidator(),
		digestChatID:  digestChatID,
		conversations: make(map[int64]*conversationState),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, msg); err != nil {
			log.WithError(err).WithField("chat", msg.Chat.ID).Error("handle message")
		}
	}

	return nil
}

// SendDigest posts a prepared digest to the configured chat.
func (b *Bot) SendDigest(ctx context.Context, text string) error {
	if b.digestChatID == 0 {
		return errors.New("digest chat is not configured")
	}
	return b.sendText(b.digestChatID, text)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.WithFields(log.Fields{"user": msg.From.ID, "command": msg.Command()}).Debug("command")
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Send /newtask to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start", "help":
		return b.handleHelp(msg)
	case "tasks":
		return b.handleList(ctx, msg.Chat.ID)
	case "type":
		return b.withID(ctx, msg, b.handleSelectType)
	case "show":
		return b.withID(ctx, msg, b.handleShow)
	case "dup":
		return b.withID(ctx, msg, b.handleDuplicate)
	case "delete":
		return b.withID(ctx, msg, b.handleDelete)
	case "newtask":
		return b.startNewTask(ctx, msg)
	case "digest":
		return b.handleDigest(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Task creation cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelNewTask:
		return true, b.startNewTask(ctx, msg)
	case menuLabelTasks:
		return true, b.handleList(ctx, msg.Chat.ID)
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	case btnCancelDialog:
		b.clearConversation(msg.From.ID)
		return true, b.sendText(msg.Chat.ID, "⏪ Task creation cancelled.")
	default:
		return false, nil
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /tasks — list all tasks\n" +
		"• /type &lt;id&gt; — tasks of one type\n" +
		"• /show &lt;id&gt; — task details\n" +
		"• /newtask — add a task step by step\n" +
		"• /dup &lt;id&gt; — copy a task into a new one\n" +
		"• /delete &lt;id&gt; — delete a task\n" +
		"• /digest — upcoming deadlines\n" +
		"• /cancel — cancel the current input"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleList(ctx context.Context, chatID int64) error {
	out, err := b.tasks.List(ctx, taskform.TaskForm{})
	if err != nil {
		return b.reportError(chatID, "Could not load tasks", err)
	}
	return b.sendText(chatID, formatTaskList(out.View, time.Now()))
}

func (b *Bot) handleSelectType(ctx context.Context, chatID int64, typeID int) error {
	out, err := b.tasks.SelectType(ctx, taskform.TaskForm{}, typeID)
	if err != nil {
		return b.reportError(chatID, "Could not load tasks", err)
	}
	return b.sendText(chatID, formatTaskList(out.View, time.Now()))
}

func (b *Bot) handleShow(ctx context.Context, chatID int64, id int) error {
	out, err := b.tasks.ShowUpdate(ctx, taskform.TaskForm{}, id, "")
	if err != nil {
		return b.reportError(chatID, "Could not load the task", err)
	}
	task, ok := findTask(out.View.Tasks, id)
	if !ok {
		return b.sendText(chatID, fmt.Sprintf("Task #%d not found.", id))
	}
	return b.sendText(chatID, formatTaskDetail(task, out.View.Types, time.Now()))
}

func (b *Bot) handleDuplicate(ctx context.Context, chatID int64, id int) error {
	out, err := b.tasks.Duplicate(ctx, taskform.TaskForm{}, id)
	if err != nil {
		return b.reportError(chatID, "Could not duplicate the task", err)
	}
	if _, ok := findTask(out.View.Tasks, id); !ok {
		return b.sendText(chatID, fmt.Sprintf("Task #%d not found.", id))
	}
	form := out.View.Form
	if problems := b.validator.Check(form); len(problems) > 0 {
		return b.sendText(chatID, "The copy is invalid: "+formatProblems(problems))
	}
	if _, err := b.tasks.Create(ctx, form, true); err != nil {
		return b.reportError(chatID, "Could not save the copy", err)
	}
	if err := b.sendText(chatID, fmt.Sprintf("📄 Task #%d duplicated.", id)); err != nil {
		return err
	}
	return b.handleList(ctx, chatID)
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, id int) error {
	if _, err := b.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return b.sendText(chatID, escape(err.Error())+".")
		}
		return b.reportError(chatID, "Could not delete the task", err)
	}
	return b.sendText(chatID, fmt.Sprintf("🗑 Task #%d deleted.", id))
}

func (b *Bot) handleDigest(ctx context.Context, msg *tgbotapi.Message) error {
	if b.digest == nil {
		return b.sendText(msg.Chat.ID, "Digest is not available.")
	}
	text, err := b.digest.Summary(ctx, time.Now())
	if err != nil {
		return b.reportError(msg.Chat.ID, "Could not build the digest", err)
	}
	return b.sendText(msg.Chat.ID, text)
}

// withID parses the numeric argument of a command before calling next.
func (b *Bot) withID(ctx context.Context, msg *tgbotapi.Message, next func(ctx context.Context, chatID int64, id int) error) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Give an id: /%s 12", msg.Command()))
	}
	id, err := strconv.Atoi(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "The id must be a number.")
	}
	return next(ctx, msg.Chat.ID, id)
}

func (b *Bot) reportError(chatID int64, what string, err error) error {
	log.WithError(err).Error(strings.ToLower(what))
	return b.sendText(chatID, what+".")
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.out.Send(msg)
	return err
}

func findTask(tasks []model.Task, id int) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
