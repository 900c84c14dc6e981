package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/dto"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/middleware"
	"github.com/yukikurage/business-management-api/internal/services"
)

type MeetingHandler struct {
	meetingService *services.MeetingService
}

func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

type meetingRequest struct {
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
	Employees   []uint64  `json:"employees"`
}

func (r meetingRequest) input(c *gin.Context) services.MeetingInput {
	return services.MeetingInput{
		OrganizationID: middleware.ParamID(c, "org_id"),
		DepartmentID:   middleware.ParamID(c, "dept_id"),
		Description:    r.Description,
		Window:         services.Window{Start: r.StartAt, End: r.EndAt},
		EmployeeIDs:    r.Employees,
	}
}

func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	meetings, err := h.meetingService.List(c.Request.Context(), user, middleware.ParamID(c, "org_id"), middleware.ParamID(c, "dept_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.MeetingDTO, len(meetings))
	for i, m := range meetings {
		out[i] = dto.ToMeetingDTO(m)
	}
	c.JSON(http.StatusOK, out)
}

// CreateMeeting books a meeting with every requested employee who is free.
// Busy employees are reported back instead of failing the booking.
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req meetingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.meetingService.Book(c.Request.Context(), user, req.input(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingDTO(*booking.Meeting, booking.Occupied))
}

func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req meetingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.meetingService.Update(c.Request.Context(), user, middleware.ParamID(c, "meeting_id"), req.input(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingDTO(*booking.Meeting, booking.Occupied))
}

func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.meetingService.Cancel(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "dept_id"),
		middleware.ParamID(c, "meeting_id"),
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Meeting deleted successfully"})
}
