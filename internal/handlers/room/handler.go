package room

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"lodge/infras/otel"
	bookingDto "lodge/internal/domains/booking/model/dto"
	bookingService "lodge/internal/domains/booking/service"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/model/dto"
	"lodge/internal/domains/room/service"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"
)

type Handler struct {
	service        service.Room
	bookingService bookingService.Booking
	otel           otel.Otel
}

func New(service service.Room, bookingService bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		bookingService: bookingService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/types/available", handler.GetAvailableRoomTypes)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Get("/{id}/availability", handler.GetRoomAvailability)
		routerGroup.Get("/{id}/booked-dates", handler.GetBookedDates)
		routerGroup.Put("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a new room with the provided details.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param number formData string true "Room number"
// @Param type formData string true "Room type (single, double, suite, family, deluxe)"
// @Param price_per_night formData number true "Nightly price"
// @Param capacity formData integer true "Guest capacity"
// @Param beds formData integer false "Number of beds"
// @Param size_sqm formData number false "Room size in square meters"
// @Param floor formData integer false "Floor number"
// @Param amenities formData string false "Comma-separated amenities"
// @Param is_popular formData boolean false "Popular room flag"
// @Param active formData boolean false "Room active status"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.CreateRoomRequest{
		Number: r.FormValue(model.FieldNumber),
		Type:   r.FormValue(model.FieldType),
	}

	if priceStr := r.FormValue(model.FieldPricePerNight); priceStr != constant.Empty {
		if price, err := shared.ConvertStringToFloat(priceStr); err == nil {
			req.PricePerNight = price
		}
	}

	if capStr := r.FormValue(model.FieldCapacity); capStr != constant.Empty {
		if c, err := shared.ConvertStringToInt(capStr); err == nil {
			req.Capacity = c
		}
	}

	if bedsStr := r.FormValue(model.FieldBeds); bedsStr != constant.Empty {
		if beds, err := shared.ConvertStringToInt(bedsStr); err == nil {
			req.Beds = beds
		}
	}

	if sizeStr := r.FormValue(model.FieldSizeSqm); sizeStr != constant.Empty {
		if size, err := shared.ConvertStringToFloat(sizeStr); err == nil {
			req.SizeSqm = size
		}
	}

	if floorStr := r.FormValue(model.FieldFloor); floorStr != constant.Empty {
		if floor, err := shared.ConvertStringToInt(floorStr); err == nil {
			req.Floor = floor
		}
	}

	if amenities := r.FormValue(model.FieldAmenities); amenities != constant.Empty {
		req.Amenities = splitAmenities(amenities)
	}

	if popularStr := r.FormValue(model.FieldIsPopular); popularStr != constant.Empty {
		req.IsPopular = shared.ConvertStringToBool(popularStr)
	}

	if activeStr := r.FormValue(model.FieldActive); activeStr != constant.Empty {
		req.Active = shared.ConvertStringToBool(activeStr)
	}

	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Room created successfully")
}

// GetRooms retrieves all rooms based on query parameters.
// @Summary Get all rooms
// @Description Retrieve all rooms with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param number query string false "Filter by room number"
// @Param type query string false "Filter by room type"
// @Param floor query integer false "Filter by floor"
// @Param is_available query boolean false "Filter by availability"
// @Param is_popular query boolean false "Filter by popular flag"
// @Param cleaning_status query string false "Filter by cleaning status"
// @Param maintenance_status query string false "Filter by maintenance status"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if number := r.URL.Query().Get(model.FieldNumber); number != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldNumber,
			Operator: gDto.FilterOperatorLike,
			Value:    number,
			Table:    model.TableName,
		})
	}

	if roomType := r.URL.Query().Get(model.FieldType); roomType != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    roomType,
			Table:    model.TableName,
		})
	}

	if floorStr := r.URL.Query().Get(model.FieldFloor); floorStr != constant.Empty {
		if floor, err := shared.ConvertStringToInt(floorStr); err == nil {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    model.FieldFloor,
				Operator: gDto.FilterOperatorEq,
				Value:    floor,
				Table:    model.TableName,
			})
		}
	}

	if available := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsAvailable)); available != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsAvailable,
			Operator: gDto.FilterOperatorEq,
			Value:    *available,
			Table:    model.TableName,
		})
	}

	if cleaning := r.URL.Query().Get(model.FieldCleaningStatus); cleaning != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCleaningStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    cleaning,
			Table:    model.TableName,
		})
	}

	if maintenance := r.URL.Query().Get(model.FieldMaintenanceStatus); maintenance != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldMaintenanceStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    maintenance,
			Table:    model.TableName,
		})
	}

	if popular := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsPopular)); popular != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsPopular,
			Operator: gDto.FilterOperatorEq,
			Value:    *popular,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Description Retrieve a room by its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room retrieved successfully")

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Description Update the details of an existing room.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param number formData string false "Room number"
// @Param type formData string false "Room type (single, double, suite, family, deluxe)"
// @Param price_per_night formData number false "Nightly price"
// @Param capacity formData integer false "Guest capacity"
// @Param beds formData integer false "Number of beds"
// @Param size_sqm formData number false "Room size in square meters"
// @Param floor formData integer false "Floor number"
// @Param is_available formData boolean false "Room availability"
// @Param is_popular formData boolean false "Popular room flag"
// @Param active formData boolean false "Room active status"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateRoomRequest{
		Number: r.FormValue(model.FieldNumber),
		Type:   r.FormValue(model.FieldType),
	}

	if priceStr := r.FormValue(model.FieldPricePerNight); priceStr != constant.Empty {
		if price, err := shared.ConvertStringToFloat(priceStr); err == nil {
			req.PricePerNight = &price
		}
	}

	if capStr := r.FormValue(model.FieldCapacity); capStr != constant.Empty {
		if c, err := shared.ConvertStringToInt(capStr); err == nil {
			req.Capacity = &c
		}
	}

	if bedsStr := r.FormValue(model.FieldBeds); bedsStr != constant.Empty {
		if beds, err := shared.ConvertStringToInt(bedsStr); err == nil {
			req.Beds = &beds
		}
	}

	if sizeStr := r.FormValue(model.FieldSizeSqm); sizeStr != constant.Empty {
		if size, err := shared.ConvertStringToFloat(sizeStr); err == nil {
			req.SizeSqm = &size
		}
	}

	if floorStr := r.FormValue(model.FieldFloor); floorStr != constant.Empty {
		if floor, err := shared.ConvertStringToInt(floorStr); err == nil {
			req.Floor = &floor
		}
	}

	if availableStr := r.FormValue(model.FieldIsAvailable); availableStr != constant.Empty {
		req.IsAvailable = shared.ConvertStringToBool(availableStr)
	}

	if popularStr := r.FormValue(model.FieldIsPopular); popularStr != constant.Empty {
		req.IsPopular = shared.ConvertStringToBool(popularStr)
	}

	if activeStr := r.FormValue(model.FieldActive); activeStr != constant.Empty {
		req.Active = shared.ConvertStringToBool(activeStr)
	}

	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Description Delete a room using its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

// GetRoomAvailability checks whether a room is free for a date range.
// @Summary Check room availability
// @Description Check whether a room is available for the given date range.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[bookingDto.AvailabilityResponse] "Availability result"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/availability [get]
func (handler *Handler) GetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := bookingDto.AvailabilityRequest{
		CheckIn:  r.URL.Query().Get("check_in"),
		CheckOut: r.URL.Query().Get("check_out"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.bookingService.IsAvailable(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check room availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room availability checked successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetAvailableRoomTypes lists room types with availability for a stay.
// @Summary Get available room types
// @Description List room types that have availability for the given date range and party size.
// @Tags Room
// @Accept json
// @Produce json
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Param guests query integer true "Number of guests"
// @Success 200 {object} response.Data[bookingDto.AvailableRoomTypesResponse] "Available room types"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/types/available [get]
func (handler *Handler) GetAvailableRoomTypes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRoomTypes")
	defer scope.End()

	req := bookingDto.AvailableRoomTypesRequest{
		CheckIn:  r.URL.Query().Get("check_in"),
		CheckOut: r.URL.Query().Get("check_out"),
	}

	if guestsStr := r.URL.Query().Get("guests"); guestsStr != constant.Empty {
		if guests, err := shared.ConvertStringToInt(guestsStr); err == nil {
			req.Guests = guests
		}
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.bookingService.AvailableRoomTypes(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available room types")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Available room types retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookedDates lists the dates a room is already booked.
// @Summary Get booked dates for a room
// @Description List the dates within a range on which the room is booked.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param until query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[bookingDto.BookedDatesResponse] "Booked dates"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/booked-dates [get]
func (handler *Handler) GetBookedDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookedDates")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	from := r.URL.Query().Get("from")
	until := r.URL.Query().Get("until")

	res, err := handler.bookingService.BookedDates(ctx, id, from, until)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booked dates")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booked dates retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

func splitAmenities(raw string) []string {
	parts := strings.Split(raw, ",")
	amenities := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != constant.Empty {
			amenities = append(amenities, trimmed)
		}
	}

	return amenities
}
