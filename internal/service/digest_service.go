package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"task-tracker/internal/model"
)

const dueSoonWindow = 48 * time.Hour

// TaskLister is the read side needed to build a digest.
type TaskLister interface {
	FindAll(ctx context.Context) ([]model.Task, error)
}

// DigestService builds human-readable summaries of upcoming deadlines.
type DigestService struct {
	tasks TaskLister
}

func NewDigestService(tasks TaskLister) *DigestService {
	return &DigestService{tasks: tasks}
}

// Summary groups tasks into overdue, due soon and later buckets.
// The result is Telegram HTML.
func (s *DigestService) Summary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return "", err
	}

	var overdue, dueSoon, later []model.Task
	undated := 0
	for _, task := range tasks {
		if task.Deadline == nil {
			undated++
			continue
		}
		d := task.Deadline.In(now.Location())
		switch {
		case now.After(d):
			overdue = append(overdue, task)
		case d.Sub(now) <= dueSoonWindow:
			dueSoon = append(dueSoon, task)
		default:
			later = append(later, task)
		}
	}
	for _, bucket := range [][]model.Task{overdue, dueSoon, later} {
		sortByDeadline(bucket)
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Task digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	writeSection(&builder, "⚠️ <b>Overdue</b>", overdue, now)
	writeSection(&builder, "⏳ <b>Due within 48h</b>", dueSoon, now)
	writeSection(&builder, "🟢 <b>Later</b>", later, now)

	if len(tasks) == 0 {
		builder.WriteString("\n— no tasks\n")
	} else if undated > 0 {
		builder.WriteString(fmt.Sprintf("\n📁 %d task(s) without a deadline\n", undated))
	}

	return strings.TrimSpace(builder.String()), nil
}

func writeSection(b *strings.Builder, header string, tasks []model.Task, now time.Time) {
	if len(tasks) == 0 {
		return
	}
	b.WriteString("\n" + header + "\n")
	for _, task := range tasks {
		b.WriteString(formatDigestLine(task, now))
	}
}

func formatDigestLine(task model.Task, now time.Time) string {
	d := task.Deadline.In(now.Location())
	line := fmt.Sprintf("#%d %s · %s", task.ID, html.EscapeString(strings.TrimSpace(task.Title)), d.Format("2006-01-02 15:04"))
	if task.TaskType != nil && strings.TrimSpace(task.TaskType.Type) != "" {
		line += fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.TaskType.Type))
	}
	return line + "\n"
}

func sortByDeadline(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].Deadline.Equal(*tasks[j].Deadline) {
			return tasks[i].Deadline.Before(*tasks[j].Deadline)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
