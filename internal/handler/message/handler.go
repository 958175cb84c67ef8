package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/handler"
	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/service/conversation"
)

type Handler struct {
	service *conversation.Service
}

func NewHandler(service *conversation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	{
		messages.GET("", h.GetMessages)
		messages.POST("", h.SendMessage)
		messages.GET("/conversations", h.GetDoctorConversations)
		messages.POST("/conversations/:patientId/read", h.MarkMessagesAsRead)
	}
}

func (h *Handler) GetMessages(c *gin.Context) {
	var patientID *uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		patientID = &id
	}

	messages, err := h.service.GetMessages(c.Request.Context(), handler.Subject(c), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), handler.Subject(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}

func (h *Handler) GetDoctorConversations(c *gin.Context) {
	conversations, err := h.service.GetDoctorConversations(c.Request.Context(), handler.Subject(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(conversations))
}

func (h *Handler) MarkMessagesAsRead(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.service.MarkMessagesAsRead(c.Request.Context(), handler.Subject(c), patientID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
