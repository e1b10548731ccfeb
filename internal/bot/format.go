package bot

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-tracker/internal/controller"
	"task-tracker/internal/model"
)

const (
	btnSkip          = "⏭️ Skip"
	btnCancelDialog  = "⏪ Cancel input"
	iconDefault      = "🟢"
	iconDue          = "⏳"
	iconOverdue      = "⚠️"
	menuLabelNewTask = "➕ New task"
	menuLabelTasks   = "📋 Tasks"
	menuLabelHelp    = "ℹ️ Help"
)

func formatTaskList(view *controller.View, now time.Time) string {
	if view == nil || len(view.Tasks) == 0 {
		return "📭 No tasks yet. Add one with /newtask."
	}
	names := typeNames(view.Types)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Tasks</b> (%d)\n\n", len(view.Tasks)))
	for _, task := range view.Tasks {
		b.WriteString(formatTask(task, names, now))
	}
	return strings.TrimSpace(b.String())
}

func formatTask(task model.Task, names map[int]string, now time.Time) string {
	var b strings.Builder
	icon := iconDefault
	if task.Deadline != nil {
		d := task.Deadline.In(now.Location())
		if now.After(d) {
			icon = iconOverdue
		} else if d.Sub(now) <= 48*time.Hour {
			icon = iconDue
		}
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s", icon, task.ID, escape(task.Title)))
	if name, ok := names[task.TypeID]; ok {
		b.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(name)))
	}
	b.WriteByte('\n')
	if task.Deadline != nil {
		b.WriteString(fmt.Sprintf("   ⏰ %s\n", task.Deadline.In(now.Location()).Format("2006-01-02 15:04")))
	}
	return b.String()
}

func formatTaskDetail(task model.Task, types []model.TaskType, now time.Time) string {
	var b strings.Builder
	b.WriteString(formatTask(task, typeNames(types), now))
	if task.Detail != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(task.Detail)))
	}
	return strings.TrimSpace(b.String())
}

func formatProblems(problems map[string]string) string {
	fields := make([]string, 0, len(problems))
	for field := range problems {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+problems[field])
	}
	return escape(strings.Join(parts, "; "))
}

func typeNames(types []model.TaskType) map[int]string {
	names := make(map[int]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Type
	}
	return names
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func typeKeyboard(types []model.TaskType) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(types)+1)
	for _, t := range types {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fmt.Sprintf("%d %s", t.ID, t.Type)),
		))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return text == btnSkip || lower == "skip" || lower == "-"
}

func escape(s string) string {
	return html.EscapeString(s)
}
