package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/repositories"
)

// ConversationHandler exposes the admin-client messaging inbox
type ConversationHandler struct {
	conversationRepository repositories.ConversationRepository
	userRepository         repositories.UserRepository
}

func NewConversationHandler(convRepo repositories.ConversationRepository, userRepo repositories.UserRepository) *ConversationHandler {
	return &ConversationHandler{
		conversationRepository: convRepo,
		userRepository:         userRepo,
	}
}

// RegisterConversationRoutes registers messaging routes
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations", h.ListConversations)
	g.GET("/conversations/:id", h.GetConversation)
	g.GET("/conversations/:id/messages", h.ListMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.PUT("/conversations/:id/read", h.MarkRead)
	g.PUT("/conversations/:id/messages/:messageId/status", h.UpdateMessageStatus)
	g.DELETE("/conversations/:id/messages/:messageId", h.DeleteMessage)
}

// CreateConversation starts (or returns the existing) conversation between
// the calling admin and a client.
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can start conversations")
	}

	var req models.CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	admin, err := h.userRepository.GetUserByID(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	client, err := h.userRepository.GetUserByID(req.ClientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Client not found")
	}

	conv, err := h.conversationRepository.CreateConversation(
		c.Request().Context(),
		client.AsParticipant(),
		admin.AsParticipant(),
		req.Priority,
		req.OrderRef,
	)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": conv})
}

func (h *ConversationHandler) ListConversations(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conversations, err := h.conversationRepository.ListConversationsForUser(c.Request().Context(), user.RecipientID())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conversations})
}

func (h *ConversationHandler) GetConversation(c echo.Context) error {
	_, conv, err := h.loadMember(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conv})
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	_, conv, err := h.loadMember(c)
	if err != nil {
		return err
	}

	messages, err := h.conversationRepository.ListMessages(c.Request().Context(), conv.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": messages})
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	user, conv, err := h.loadMember(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.conversationRepository.AppendMessage(c.Request().Context(), conv.ID, user.AsParticipant(), req.Text, req.Type)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// MarkRead zeroes the caller's unread counter for the conversation
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	user, conv, err := h.loadMember(c)
	if err != nil {
		return err
	}

	if err := h.conversationRepository.MarkRead(c.Request().Context(), conv.ID, user.RecipientID()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *ConversationHandler) UpdateMessageStatus(c echo.Context) error {
	_, conv, err := h.loadMember(c)
	if err != nil {
		return err
	}

	var req models.UpdateMessageStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.conversationRepository.UpdateMessageStatus(c.Request().Context(), conv.ID, c.Param("messageId"), req.Status); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteMessage soft-deletes; the record stays in storage and disappears from
// listings only.
func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can delete messages")
	}
	_, conv, err := h.loadMember(c)
	if err != nil {
		return err
	}

	if err := h.conversationRepository.SoftDeleteMessage(c.Request().Context(), conv.ID, c.Param("messageId")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// loadMember resolves the caller and the conversation and verifies membership
func (h *ConversationHandler) loadMember(c echo.Context) (*models.User, *models.Conversation, error) {
	user, err := h.userRepository.GetUserByID(currentUserID(c))
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conv, err := h.conversationRepository.GetConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, nil, httpError(err)
	}
	if !conv.HasParticipant(user.RecipientID()) {
		return nil, nil, echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}
	return user, conv, nil
}
