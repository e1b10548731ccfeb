package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"task-tracker/internal/taskform"
)

var deadlineLayouts = []string{"2006-01-02T15:04", time.RFC3339, "2006-01-02"}

// formNumber keeps a numeric field as sent, so bad input is reported by
// the handler instead of failing the bind. JSON numbers and strings are
// both accepted.
type formNumber string

func (n *formNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	} else if s == "null" {
		s = ""
	}
	*n = formNumber(s)
	return nil
}

// Int returns ok=false for text that is not an integer. An empty value is
// zero.
func (n formNumber) Int() (int, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// taskRequest is the wire shape of the task form.
type taskRequest struct {
	TaskID   formNumber `form:"taskId" json:"taskId"`
	TypeID   formNumber `form:"typeId" json:"typeId"`
	Title    string     `form:"title" json:"title"`
	Detail   string     `form:"detail" json:"detail"`
	Deadline string     `form:"deadline" json:"deadline"`
}

type idRequest struct {
	TaskID formNumber `form:"taskId" json:"taskId"`
}

// toForm converts the request and returns the field problems that make it
// invalid. An empty map means the form is valid.
func (req taskRequest) toForm(validate func(interface{}) error) (taskform.TaskForm, map[string]string) {
	typeID, typeOK := req.TypeID.Int()
	form := taskform.TaskForm{
		TypeID: typeID,
		Title:  req.Title,
		Detail: req.Detail,
	}
	problems := taskform.FieldProblems(validate(form))
	if !typeOK {
		problems["typeId"] = "must be a number"
	}
	if strings.TrimSpace(req.Deadline) != "" {
		d, err := parseDeadline(req.Deadline)
		if err != nil {
			problems["deadline"] = "must be a date like 2006-01-02T15:04"
		} else {
			form.Deadline = &d
		}
	}
	return form, problems
}

// taskID is the id of the task being edited or deleted. It is part of the
// address, not the form, so a bad value is a bad request.
func taskID(n formNumber) (int, error) {
	id, ok := n.Int()
	if !ok {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid taskId")
	}
	return id, nil
}

func parseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
