package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/dto"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/mapper"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/middleware"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/validation"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/ports"
	"github.com/nemanjaninkovic-1/rust-tracker/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	filter, err := parseTaskFilter(c)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskFilter, lang),
		)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		h.respondServiceError(c, lang, err, apierrors.MsgFailListTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c, lang)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to get task", zap.String("task_id", taskID.String()), zap.Error(err))
		h.respondServiceError(c, lang, err, apierrors.MsgFailGetTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTaskInput) {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
			return
		}

		zap.L().Error("failed to create task", zap.Error(err))
		h.respondServiceError(c, lang, err, apierrors.MsgFailCreateTask)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c, lang)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
		case errors.Is(err, domain.ErrInvalidTaskInput):
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
		default:
			zap.L().Error("failed to update task", zap.String("task_id", taskID.String()), zap.Error(err))
			h.respondServiceError(c, lang, err, apierrors.MsgFailUpdateTask)
		}
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c, lang)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to delete task", zap.String("task_id", taskID.String()), zap.Error(err))
		h.respondServiceError(c, lang, err, apierrors.MsgFailDeleteTask)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondServiceError maps storage outages to 503 and everything else to a
// generic 500, keeping the error kind visible to clients.
func (h *TaskHandler) respondServiceError(c *gin.Context, lang string, err error, failMsg string) {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		c.JSON(
			http.StatusServiceUnavailable,
			apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgStorageUnavailable, lang),
		)
		return
	}

	c.JSON(
		http.StatusInternalServerError,
		apierrors.CreateError(http.StatusInternalServerError, failMsg, lang),
	)
}

func parseTaskID(c *gin.Context, lang string) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return uuid.UUID{}, false
	}
	return taskID, true
}

func parseTaskFilter(c *gin.Context) (domain.TaskFilter, error) {
	var filter domain.TaskFilter

	if value := c.Query("status"); value != "" {
		status, err := domain.ParseTaskStatus(value)
		if err != nil {
			return domain.TaskFilter{}, err
		}
		filter.Status = &status
	}

	if value := c.Query("priority"); value != "" {
		priority, err := domain.ParseTaskPriority(value)
		if err != nil {
			return domain.TaskFilter{}, err
		}
		filter.Priority = &priority
	}

	if value := c.Query("due_before"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return domain.TaskFilter{}, err
		}
		utc := parsed.UTC()
		filter.DueBefore = &utc
	}

	if value := c.Query("due_after"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return domain.TaskFilter{}, err
		}
		utc := parsed.UTC()
		filter.DueAfter = &utc
	}

	return filter, nil
}
