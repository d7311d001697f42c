package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"lodge/infras/otel"
	"lodge/internal/domains/task/model"
	"lodge/internal/domains/task/model/dto"
	"lodge/internal/domains/task/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"
)

type Handler struct {
	service service.Task
	otel    otel.Otel
}

func New(service service.Task, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tasks", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetTasks)
		routerGroup.Get("/me", handler.GetMyTasks)
		routerGroup.Post("/generate", handler.GenerateTasks)
		routerGroup.Post("/maintenance/generate", handler.GenerateMaintenanceTasks)
		routerGroup.Get("/{id}", handler.GetTaskByID)
		routerGroup.Patch("/{id}/start", handler.StartTask)
		routerGroup.Patch("/{id}/complete", handler.CompleteTask)
	})
}

// GetTasks retrieves all staff tasks based on query parameters.
// @Summary Get all tasks
// @Description Retrieve all staff tasks with optional filtering and pagination.
// @Tags Task
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param type query string false "Filter by task type"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param assigned_to query string false "Filter by assignee"
// @Param room_id query string false "Filter by room"
// @Success 200 {object} response.Data[dto.GetTasksResponse] "List of tasks"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks [get]
// @Security BearerAuth
func (handler *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := taskFilters(r)

	if assignedTo := r.URL.Query().Get(model.FieldAssignedTo); assignedTo != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldAssignedTo,
			Operator: gDto.FilterOperatorEq,
			Value:    assignedTo,
			Table:    model.TableName,
		})
	}

	tasks, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tasks")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tasks retrieved successfully")

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetMyTasks retrieves the tasks assigned to the authenticated staff member.
// @Summary Get my tasks
// @Description Retrieve the tasks assigned to the authenticated staff member.
// @Tags Task
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param type query string false "Filter by task type"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Success 200 {object} response.Data[dto.GetTasksResponse] "List of tasks"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := taskFilters(r)

	tasks, err := handler.service.GetMine(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get my tasks")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tasks retrieved successfully")

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetTaskByID retrieves a task by its ID.
// @Summary Get a task by ID
// @Description Retrieve a staff task by its unique identifier.
// @Tags Task
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Data[dto.TaskResponse] "Task details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaskByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	task, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get task by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Task retrieved successfully")

	response.WithJSON(w, http.StatusOK, task)
}

// GenerateTasks runs the daily task generation batch.
// @Summary Generate daily tasks
// @Description Generate check-in, check-out, and cleaning tasks for a date.
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.GenerateTasksRequest false "Generate Tasks Request"
// @Success 200 {object} response.Data[dto.GenerateTasksResponse] "Generation result"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/generate [post]
// @Security BearerAuth
func (handler *Handler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GenerateTasks")
	defer scope.End()

	req := dto.GenerateTasksRequest{}

	if r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	res, err := handler.service.GenerateDailyTasks(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate daily tasks")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Daily tasks generated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// GenerateMaintenanceTasks assigns pending maintenance requests to staff.
// @Summary Generate maintenance tasks
// @Description Assign pending maintenance requests to available maintenance staff.
// @Tags Task
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.GenerateTasksResponse] "Generation result"
// @Failure 500 {object} response.Error
// @Router /v1/tasks/maintenance/generate [post]
// @Security BearerAuth
func (handler *Handler) GenerateMaintenanceTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GenerateMaintenanceTasks")
	defer scope.End()

	created, err := handler.service.GenerateMaintenanceTasks(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate maintenance tasks")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance tasks generated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, dto.GenerateTasksResponse{Created: created})
}

// StartTask marks an assigned task as in progress.
// @Summary Start a task
// @Description Mark a pending task as in progress. Only the assignee may start it.
// @Tags Task
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Message "Task started successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/{id}/start [patch]
// @Security BearerAuth
func (handler *Handler) StartTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartTask")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Start(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start task")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Task started successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Task started successfully")
}

// CompleteTask completes a task and applies its side effects.
// @Summary Complete a task
// @Description Complete a task. Only the assignee may complete it.
// @Tags Task
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CompleteTaskRequest false "Complete Task Request"
// @Success 200 {object} response.Message "Task completed successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/{id}/complete [patch]
// @Security BearerAuth
func (handler *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteTask")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CompleteTaskRequest{}

	if r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	if err := handler.service.Complete(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete task")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Task completed successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Task completed successfully")
}

func taskFilters(r *http.Request) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if taskType := r.URL.Query().Get(model.FieldType); taskType != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    taskType,
			Table:    model.TableName,
		})
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if priority := r.URL.Query().Get(model.FieldPriority); priority != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPriority,
			Operator: gDto.FilterOperatorEq,
			Value:    priority,
			Table:    model.TableName,
		})
	}

	if roomID := r.URL.Query().Get(model.FieldRoomID); roomID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	return filterGroup
}
