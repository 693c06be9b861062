package handler

import (
	appscheduling "github.com/crewpay/backend/internal/application/scheduling"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/interfaces/http/dto"
	"github.com/crewpay/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SchedulingHandler exposes client event CRUD and crew assignment
type SchedulingHandler struct {
	BaseHandler
	service *appscheduling.EventService
}

// NewSchedulingHandler creates a new SchedulingHandler
func NewSchedulingHandler(service *appscheduling.EventService) *SchedulingHandler {
	return &SchedulingHandler{service: service}
}

// RegisterRoutes registers scheduling routes on the given (authenticated) group
func (h *SchedulingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	events.GET("", h.ListEvents)
	events.GET("/:id", h.GetEvent)
	events.GET("/:id/crew", h.GetEventCrew)

	admin := events.Group("", middleware.AdminOnly())
	admin.POST("", h.CreateEvent)
	admin.PUT("/:id", h.UpdateEvent)
	admin.DELETE("/:id", h.DeleteEvent)
	admin.POST("/:id/crew", h.AssignCrew)

	rg.GET("/me/assignments", h.MyAssignments)
	rg.DELETE("/crew-assignments/:id", middleware.AdminOnly(), h.UnassignCrew)
}

// CreateEvent schedules a new client event
func (h *SchedulingHandler) CreateEvent(c *gin.Context) {
	createdBy, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appscheduling.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	event, err := h.service.Create(c.Request.Context(), createdBy, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// GetEvent returns one scheduled event
func (h *SchedulingHandler) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	event, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// ListEvents returns a page of scheduled events, soonest first
func (h *SchedulingHandler) ListEvents(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateEvent applies a partial update to an event's details
func (h *SchedulingHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}
	var req appscheduling.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	event, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// DeleteEvent removes a scheduled event
func (h *SchedulingHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignCrew assigns an employee to an event
func (h *SchedulingHandler) AssignCrew(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}
	assignedBy, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}
	var req appscheduling.AssignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	assignment, err := h.service.AssignCrew(c.Request.Context(), eventID, assignedBy, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, assignment)
}

// GetEventCrew returns the crew assigned to an event
func (h *SchedulingHandler) GetEventCrew(c *gin.Context) {
	eventID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	crew, err := h.service.EventCrew(c.Request.Context(), eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, crew)
}

// MyAssignments returns the authenticated user's crew assignments
func (h *SchedulingHandler) MyAssignments(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		h.BadRequest(c, "Missing user identity")
		return
	}

	assignments, err := h.service.UserAssignments(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignments)
}

// UnassignCrew removes a crew assignment
func (h *SchedulingHandler) UnassignCrew(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid assignment ID")
		return
	}

	if err := h.service.UnassignCrew(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
