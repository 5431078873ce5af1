package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/api/handler/v1/request"
	"github.com/attendly/attendance-api/internal/api/handler/v1/response"
	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a claimable event
// @Tags         admin
// @Produce      json
// @Param        request   body      request.CreateEventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.ParsedDate(),
		Location:    req.Location,
		ClaimCode:   req.ClaimCode,
		MaxSupply:   req.MaxSupply,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	})
	if err != nil {
		if errors.Is(err, service.ErrClaimCodeExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrClaimCodeExists))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleGetEvents godoc
// @Summary      List events with claim counts
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/events [get]
func (h *EventHandler) HandleGetEvents(ctx *gin.Context) {
	events, err := h.svc.GetEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEvents -> h.svc.GetEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleUpdateEvent godoc
// @Summary      Update event fields or toggle the active flag
// @Tags         admin
// @Produce      json
// @Param        eventID  path       int  true  "Event ID"
// @Param        request   body      request.UpdateEventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/events/{eventID} [patch]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid event ID")))
		return
	}

	var req request.UpdateEventRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	existing, err := h.svc.GetEvent(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	applyEventUpdates(&existing, req)

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), existing)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func applyEventUpdates(event *domain.Event, req request.UpdateEventRequest) {
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		date, _ := time.Parse(time.RFC3339, *req.Date)
		event.Date = date
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if req.MaxSupply != nil {
		event.MaxSupply = req.MaxSupply
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}
}
