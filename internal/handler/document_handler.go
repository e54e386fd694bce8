package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"casedesk/internal/domain"
	"casedesk/internal/service"
)

// DocumentHandler handles document endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload handles POST /api/v1/documents/upload (multipart: client_id, file)
// @Summary Upload a document
// @Description Store a PDF or image in object storage and register it for a client
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param client_id formData string true "Client ID"
// @Param file formData file true "PDF, JPEG or PNG"
// @Success 201 {object} APIResponse{data=domain.Document} "Document uploaded"
// @Failure 400 {object} APIResponse "Invalid file"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Failure 413 {object} APIResponse "File too large"
// @Security BearerAuth
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	clientID, err := uuid.Parse(c.PostForm("client_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id is required")
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), service.DocumentUploadInput{
		ClientID: clientID,
		File:     file,
		Header:   header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// Register handles POST /api/v1/documents
// @Summary Register a document
// @Description Register a document whose file is already stored or reachable by URL
// @Tags documents
// @Accept json
// @Produce json
// @Param request body object true "client_id, file_url and optional file metadata"
// @Success 201 {object} APIResponse{data=domain.Document} "Document registered"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Register(c *gin.Context) {
	var req struct {
		ClientID uuid.UUID `json:"client_id" binding:"required"`
		FileURL  string    `json:"file_url" binding:"required"`
		Name     *string   `json:"original_name"`
		MimeType *string   `json:"mime_type"`
		Size     *int64    `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id and file_url are required")
		return
	}

	doc, err := h.documentService.Register(c.Request.Context(), service.RegisterDocumentInput{
		ClientID: req.ClientID,
		FileURL:  req.FileURL,
		Name:     req.Name,
		MimeType: req.MimeType,
		Size:     req.Size,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents?client_id=
// @Summary List documents
// @Tags documents
// @Produce json
// @Param client_id query string false "Only documents of this client"
// @Success 200 {object} APIResponse{data=[]domain.Document,meta=ListMeta} "Documents"
// @Failure 400 {object} APIResponse "Invalid client_id"
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	var clientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid client_id")
			return
		}
		clientID = &id
	}

	docs, err := h.documentService.List(c.Request.Context(), clientID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	RespondList(c, docs, len(docs))
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse{data=domain.Document} "Document"
// @Failure 404 {object} APIResponse "Document not found"
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}
	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Update handles PATCH /api/v1/documents/:id
// @Summary Update a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body object true "original_name, file_url, mime_type, size"
// @Success 200 {object} APIResponse{data=domain.Document} "Document updated"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [patch]
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"original_name"`
		FileURL  *string `json:"file_url"`
		MimeType *string `json:"mime_type"`
		Size     *int64  `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), id, service.UpdateDocumentInput{
		Name:     req.Name,
		FileURL:  req.FileURL,
		MimeType: req.MimeType,
		Size:     req.Size,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse "Document deleted"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

// DownloadURL handles GET /api/v1/documents/:id/download-url
// @Summary Get a download URL
// @Description Presign a stored file or return a remote URL as is
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse "url"
// @Failure 404 {object} APIResponse "Document or file not found"
// @Router /documents/{id}/download-url [get]
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}
	url, err := h.documentService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
