package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casedesk/internal/service"
)

// RecognizeHandler handles recognition endpoints.
type RecognizeHandler struct {
	recognitionService service.RecognitionService
}

// NewRecognizeHandler creates a new RecognizeHandler.
func NewRecognizeHandler(recognitionService service.RecognitionService) *RecognizeHandler {
	return &RecognizeHandler{recognitionService: recognitionService}
}

// RecognizeForClient handles POST /api/v1/clients/:id/recognize
// @Summary Recognize a file for a client
// @Description Recognize a document file, merge the result into the client and update the profile
// @Tags recognition
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body object true "file_url: storage path or URL"
// @Success 200 {object} APIResponse "Recognition result with merged data"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Failure 502 {object} APIResponse "File could not be fetched"
// @Security BearerAuth
// @Router /clients/{id}/recognize [post]
func (h *RecognizeHandler) RecognizeForClient(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}
	var req struct {
		FileURL string `json:"file_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_url is required")
		return
	}

	res, err := h.recognitionService.RecognizeForClient(c.Request.Context(), id, req.FileURL)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// RecognizeDocument handles POST /api/v1/documents/:id/recognize
// @Summary Recognize a stored document
// @Tags recognition
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse "Recognition result with merged data"
// @Failure 400 {object} APIResponse "Document has no file"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Document not found"
// @Failure 502 {object} APIResponse "File could not be fetched"
// @Security BearerAuth
// @Router /documents/{id}/recognize [post]
func (h *RecognizeHandler) RecognizeDocument(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}
	res, err := h.recognitionService.RecognizeDocument(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}
