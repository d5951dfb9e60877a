package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/middleware"
	"docuchat/internal/transport/http/response"
)

const messageTimeLayout = "2006-01-02 15:04:05"

type ChatHandler struct {
	chatService *app.ChatService
}

// SendMessageRequest is one chat turn. Omitting thread_id starts a new
// thread titled from the message.
type SendMessageRequest struct {
	Message  string `json:"message"`
	ThreadID uint   `json:"thread_id"`
}

type messageView struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		UserID:   userID,
		ThreadID: req.ThreadID,
		Message:  req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrThreadNotFound):
			response.Error(c, http.StatusNotFound, response.CodeThreadNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, gin.H{
		"thread_id": result.ThreadID,
		"title":     result.Title,
		"messages":  messageViews(result.Messages),
	})
}

func (h *ChatHandler) ListThreads(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	threads, err := h.chatService.ListThreads(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list threads failed")
		return
	}
	response.OK(c, threads)
}

func (h *ChatHandler) DeleteThread(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	threadID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || threadID64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid thread id")
		return
	}

	if err := h.chatService.DeleteThread(c.Request.Context(), userID, uint(threadID64)); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrThreadNotFound):
			response.Error(c, http.StatusNotFound, response.CodeThreadNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete thread failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_thread_id": uint(threadID64)})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	threadID64, err := strconv.ParseUint(c.Query("thread_id"), 10, 64)
	if err != nil || threadID64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid thread_id")
		return
	}

	history, err := h.chatService.GetHistory(c.Request.Context(), userID, uint(threadID64))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrThreadNotFound):
			response.Error(c, http.StatusNotFound, response.CodeThreadNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		}
		return
	}

	response.OK(c, gin.H{
		"thread_id": uint(threadID64),
		"messages":  messageViews(history),
	})
}

func messageViews(messages []model.Message) []messageView {
	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView{
			Sender:    m.Sender,
			Message:   m.Text,
			Timestamp: m.CreatedAt.Format(messageTimeLayout),
		})
	}
	return views
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}
