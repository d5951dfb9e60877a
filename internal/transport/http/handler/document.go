package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
	maxUploadBytes  int64
}

type documentView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"uploaded_at"`
}

func NewDocumentHandler(documentService *app.DocumentService, maxUploadMB int) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  int64(maxUploadMB) << 20,
	}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file field")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), app.UploadInput{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrDocumentEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload document failed")
		}
		return
	}

	response.OK(c, documentViewOf(doc))
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	docs, err := h.documentService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}

	views := make([]documentView, 0, len(docs))
	for i := range docs {
		views = append(views, documentViewOf(&docs[i]))
	}
	response.OK(c, views)
}

func (h *DocumentHandler) Download(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Get(userID, docID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get document failed")
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	c.Data(http.StatusOK, "application/octet-stream", doc.Data)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(userID, docID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_document_id": docID})
}

func parseDocumentID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return 0, false
	}
	return uint(id64), true
}

func documentViewOf(doc *model.Document) documentView {
	return documentView{
		ID:        doc.ID,
		Name:      doc.Name,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt.Format(messageTimeLayout),
	}
}
