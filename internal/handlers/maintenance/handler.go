package maintenance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"lodge/infras/otel"
	"lodge/internal/domains/maintenance/model"
	"lodge/internal/domains/maintenance/model/dto"
	"lodge/internal/domains/maintenance/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"
)

type Handler struct {
	service service.Maintenance
	otel    otel.Otel
}

func New(service service.Maintenance, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/maintenance", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.ReportIssue)
		routerGroup.Get("/", handler.GetRequests)
		routerGroup.Get("/{id}", handler.GetRequestByID)
		routerGroup.Patch("/{id}/cancel", handler.CancelRequest)
	})
}

// ReportIssue files a maintenance request for a room.
// @Summary Report a maintenance issue
// @Description File a maintenance request for a room. The room is flagged until resolution.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.CreateMaintenanceRequest true "Create Maintenance Request"
// @Success 201 {object} response.Message "Maintenance request created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance [post]
// @Security BearerAuth
func (handler *Handler) ReportIssue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReportIssue")
	defer scope.End()

	req := dto.CreateMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Report(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to report maintenance issue")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance request created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Maintenance request created successfully")
}

// GetRequests retrieves all maintenance requests based on query parameters.
// @Summary Get all maintenance requests
// @Description Retrieve all maintenance requests with optional filtering and pagination.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param room_id query string false "Filter by room"
// @Success 200 {object} response.Data[dto.GetMaintenanceResponse] "List of maintenance requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance [get]
// @Security BearerAuth
func (handler *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

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

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetRequestByID retrieves a maintenance request by its ID.
// @Summary Get a maintenance request by ID
// @Description Retrieve a maintenance request by its unique identifier.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Success 200 {object} response.Data[dto.MaintenanceResponse] "Maintenance request details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance request retrieved successfully")

	response.WithJSON(w, http.StatusOK, request)
}

// CancelRequest cancels an open maintenance request.
// @Summary Cancel a maintenance request
// @Description Cancel an open maintenance request and restore the room's status.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Success 200 {object} response.Message "Maintenance request cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/{id}/cancel [patch]
// @Security BearerAuth
func (handler *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel maintenance request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance request cancelled successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Maintenance request cancelled successfully")
}
