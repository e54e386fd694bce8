package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"casedesk/internal/domain"
	"casedesk/internal/export"
	"casedesk/internal/service"
)

// maxJSONBody caps JSON request bodies read by hand.
const maxJSONBody = 1 << 20

// ClientHandler handles client endpoints.
type ClientHandler struct {
	clientService service.ClientService
	validator     *ExtractedDataValidator
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService, validator *ExtractedDataValidator) *ClientHandler {
	return &ClientHandler{clientService: clientService, validator: validator}
}

// Create handles POST /api/v1/clients
// @Summary Create a client
// @Description Create a client case with a name and optional contact details
// @Tags clients
// @Accept json
// @Produce json
// @Param request body object true "Client fields (full_name required)"
// @Success 201 {object} APIResponse{data=domain.Client} "Client created"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "full_name is required")
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), service.CreateClientInput{
		FullName: req.FullName,
		Status:   req.Status,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, client)
}

// List handles GET /api/v1/clients
// @Summary List clients
// @Tags clients
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Client,meta=ListMeta} "Clients"
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	RespondList(c, clients, len(clients))
}

// GetByID handles GET /api/v1/clients/:id
// @Summary Get a client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} APIResponse{data=domain.Client} "Client"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Client not found"
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}
	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// Update handles PATCH /api/v1/clients/:id
// @Summary Update a client
// @Description Update contact fields and status. Extracted data sent here is merged shallowly.
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} APIResponse{data=domain.Client} "Client updated"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [patch]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}
	var req struct {
		FullName      *string               `json:"full_name"`
		Status        *string               `json:"status"`
		ExtractedData *domain.ExtractedData `json:"extracted_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, service.UpdateClientInput{
		FullName:      req.FullName,
		Status:        req.Status,
		ExtractedData: req.ExtractedData,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// UpdateExtractedData handles PATCH /api/v1/clients/:id/extracted-data
// @Summary Edit extracted data
// @Description Merge a flat map of string or null values into the client's extracted data
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body object true "Field edits"
// @Success 200 {object} APIResponse "Merged extracted data"
// @Failure 400 {object} APIResponse "Body does not match the extracted data schema"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/extracted-data [patch]
func (h *ClientHandler) UpdateExtractedData(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "cannot read request body")
		return
	}
	patch, err := h.validator.Decode(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_EXTRACTED_DATA", err.Error())
		return
	}

	merged, err := h.clientService.UpdateExtractedData(c.Request.Context(), id, patch)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"extracted_data": merged})
}

// UpdateProfile handles PUT /api/v1/clients/:id/profile. The body is a flat
// object of profile columns plus an optional passport_number.
// @Summary Save a client profile
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body object true "Profile columns"
// @Success 200 {object} APIResponse{data=domain.Client} "Profile saved"
// @Failure 400 {object} APIResponse "Unknown column or invalid value"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Failure 409 {object} APIResponse "Value already used by another client"
// @Security BearerAuth
// @Router /clients/{id}/profile [put]
func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}
	var body map[string]*string
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be an object of string values")
		return
	}

	input := service.UpdateProfileInput{Fields: map[string]string{}}
	for key, val := range body {
		if key == "passport_number" {
			input.PassportNumber = domain.Deref(val)
			continue
		}
		if !domain.IsProfileColumn(key) {
			RespondError(c, http.StatusBadRequest, "UNKNOWN_FIELD", fmt.Sprintf("unknown profile field %q", key))
			return
		}
		input.Fields[key] = domain.Deref(val)
	}

	client, err := h.clientService.UpdateProfile(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// Validate handles GET /api/v1/clients/validate?field=&value=&exclude_id=
// @Summary Check a unique field
// @Description Report whether another client already uses a passport, SNILS, diploma or certificate number
// @Tags clients
// @Produce json
// @Param field query string true "Field name"
// @Param value query string true "Value to look up"
// @Param exclude_id query string false "Client ID to ignore"
// @Success 200 {object} APIResponse "exists flag"
// @Failure 400 {object} APIResponse "Missing or unsupported field"
// @Router /clients/validate [get]
func (h *ClientHandler) Validate(c *gin.Context) {
	field := c.Query("field")
	value := c.Query("value")
	if field == "" || strings.TrimSpace(value) == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "field and value are required")
		return
	}
	var excludeID *uuid.UUID
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid exclude_id")
			return
		}
		excludeID = &id
	}

	exists, err := h.clientService.CheckDuplicate(c.Request.Context(), field, value, excludeID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"exists": exists})
}

// Delete handles DELETE /api/v1/clients/:id
// @Summary Delete a client
// @Description Delete a client with its documents and stored files
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} APIResponse "Deleted document count"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}
	res, err := h.clientService.Delete(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// Export handles GET /api/v1/clients/export?format=csv|xlsx
// @Summary Export clients
// @Tags clients
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Client table"
// @Failure 400 {object} APIResponse "Unknown format"
// @Router /clients/export [get]
func (h *ClientHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	// Buffer so an encoding failure can still produce an error envelope.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, clients); err != nil {
		HandleError(c, fmt.Errorf("encoding export: %w", err))
		return
	}

	filename := export.BuildFilename("clients", format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
