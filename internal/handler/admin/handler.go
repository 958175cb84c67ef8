package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/handler"
	"github.com/careops/clinic-api/internal/model"
	adminService "github.com/careops/clinic-api/internal/service/admin"
	appointmentService "github.com/careops/clinic-api/internal/service/appointment"
	registrationService "github.com/careops/clinic-api/internal/service/registration"
)

type Handler struct {
	admin        *adminService.Service
	registration *registrationService.Service
	appointment  *appointmentService.Service
}

func NewHandler(admin *adminService.Service, registration *registrationService.Service, appointment *appointmentService.Service) *Handler {
	return &Handler{
		admin:        admin,
		registration: registration,
		appointment:  appointment,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/stats", h.GetStats)
		admin.GET("/doctors", h.GetAllDoctors)
		admin.GET("/patients", h.GetAllPatients)
		admin.GET("/appointments", h.GetAllAppointments)
		admin.GET("/registrations", h.GetPendingRegistrations)
		admin.GET("/logs", h.GetSystemLogs)

		admin.POST("/registrations/:id/approve", h.ApproveDoctor)
		admin.POST("/registrations/:id/reject", h.RejectRegistration)
		admin.PATCH("/doctors/:id/status", h.UpdateDoctorStatus)
		admin.DELETE("/patients/:id", h.DeletePatient)
		admin.PATCH("/appointments/:id", h.UpdateAppointment)
	}
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.admin.GetStats(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.admin.GetAllDoctors(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) GetAllPatients(c *gin.Context) {
	patients, err := h.admin.GetAllPatients(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) GetAllAppointments(c *gin.Context) {
	appointments, err := h.admin.GetAllAppointments(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) GetPendingRegistrations(c *gin.Context) {
	regs, err := h.admin.GetPendingRegistrations(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(regs))
}

func (h *Handler) GetSystemLogs(c *gin.Context) {
	logs, err := h.admin.GetSystemLogs(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}

func (h *Handler) ApproveDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid registration ID"))
		return
	}

	doctorID, err := h.registration.ApproveDoctor(c.Request.Context(), handler.Subject(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"doctor_id": doctorID}))
}

func (h *Handler) RejectRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid registration ID"))
		return
	}

	if err := h.registration.RejectRegistration(c.Request.Context(), handler.Subject(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UpdateDoctorStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req model.UpdateDoctorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.admin.UpdateDoctorStatus(c.Request.Context(), handler.Subject(c), id, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.admin.DeletePatient(c.Request.Context(), handler.Subject(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.appointment.Update(c.Request.Context(), handler.Subject(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}
