// Package web exposes the task controller over HTTP with echo.
package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/controller"
	"task-tracker/internal/flash"
	"task-tracker/internal/taskform"
)

const flashCookie = "flash"

// TaskController is the orchestrator behind every task route.
type TaskController interface {
	List(ctx context.Context, form taskform.TaskForm) (controller.Outcome, error)
	Create(ctx context.Context, form taskform.TaskForm, valid bool) (controller.Outcome, error)
	ShowUpdate(ctx context.Context, form taskform.TaskForm, id int, notice string) (controller.Outcome, error)
	Update(ctx context.Context, form taskform.TaskForm, valid bool, id int) (controller.Outcome, error)
	Duplicate(ctx context.Context, form taskform.TaskForm, id int) (controller.Outcome, error)
	Delete(ctx context.Context, id int) (controller.Outcome, error)
	SelectType(ctx context.Context, form taskform.TaskForm, typeID int) (controller.Outcome, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type handler struct {
	tasks  TaskController
	flash  flash.Store
	health Pinger
	logger *log.Logger
}

type viewResponse struct {
	*controller.View
	Errors map[string]string `json:"errors,omitempty"`
}

// New builds the echo instance with all routes registered.
func New(tasks TaskController, notices flash.Store, health Pinger, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.Validator = taskform.NewValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))

	register(e, &handler{tasks: tasks, flash: notices, health: health, logger: logger})
	return e
}

func register(e *echo.Echo, h *handler) {
	e.GET("/healthz", h.healthz)
	e.GET("/task", h.list)
	e.POST("/task/insert", h.create)
	e.GET("/task/duplicate", h.duplicate)
	e.GET("/task/selectType", h.selectType)
	e.GET("/task/:id", h.showUpdate)
	e.POST("/task/update", h.update)
	e.POST("/task/delete", h.delete)
}

func (h *handler) healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health.PingContext(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
		}
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) list(c echo.Context) error {
	out, err := h.tasks.List(c.Request().Context(), taskform.TaskForm{})
	return h.render(c, out, nil, err)
}

func (h *handler) create(c echo.Context) error {
	req, err := bindTask(c)
	if err != nil {
		return err
	}
	form, problems := req.toForm(c.Validate)
	out, err := h.tasks.Create(c.Request().Context(), form, len(problems) == 0)
	return h.render(c, out, problems, err)
}

func (h *handler) showUpdate(c echo.Context) error {
	id, err := intParam(c.Param("id"), "id")
	if err != nil {
		return err
	}
	notice := h.takeNotice(c)
	out, err := h.tasks.ShowUpdate(c.Request().Context(), taskform.TaskForm{}, id, notice)
	return h.render(c, out, nil, err)
}

func (h *handler) update(c echo.Context) error {
	req, err := bindTask(c)
	if err != nil {
		return err
	}
	id, err := taskID(req.TaskID)
	if err != nil {
		return err
	}
	form, problems := req.toForm(c.Validate)
	out, err := h.tasks.Update(c.Request().Context(), form, len(problems) == 0, id)
	return h.render(c, out, problems, err)
}

func (h *handler) duplicate(c echo.Context) error {
	id, err := intParam(c.QueryParam("taskId"), "taskId")
	if err != nil {
		return err
	}
	out, err := h.tasks.Duplicate(c.Request().Context(), taskform.TaskForm{}, id)
	return h.render(c, out, nil, err)
}

func (h *handler) delete(c echo.Context) error {
	var req idRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	id, err := taskID(req.TaskID)
	if err != nil {
		return err
	}
	out, err := h.tasks.Delete(c.Request().Context(), id)
	return h.render(c, out, nil, err)
}

func (h *handler) selectType(c echo.Context) error {
	typeID, err := intParam(c.QueryParam("typeId"), "typeId")
	if err != nil {
		return err
	}
	out, err := h.tasks.SelectType(c.Request().Context(), taskform.TaskForm{}, typeID)
	return h.render(c, out, nil, err)
}

func (h *handler) render(c echo.Context, out controller.Outcome, problems map[string]string, err error) error {
	if err != nil {
		return err
	}
	if out.Redirect != nil {
		if out.Redirect.Notice != "" {
			h.putNotice(c, out.Redirect.Notice)
		}
		return c.Redirect(http.StatusSeeOther, out.Redirect.Target)
	}
	if len(problems) == 0 {
		problems = nil
	}
	return c.JSON(http.StatusOK, viewResponse{View: out.View, Errors: problems})
}

// putNotice never fails the request; a lost notice only costs the message.
func (h *handler) putNotice(c echo.Context, notice string) {
	key, err := h.flash.Put(c.Request().Context(), notice)
	if err != nil {
		h.logger.WithError(err).Warn("store flash notice")
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handler) takeNotice(c echo.Context) string {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	notice, err := h.flash.Take(c.Request().Context(), cookie.Value)
	if err != nil {
		h.logger.WithError(err).Warn("take flash notice")
		return ""
	}
	return notice
}

func bindTask(c echo.Context) (taskRequest, error) {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	return req, nil
}

func intParam(raw, name string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
