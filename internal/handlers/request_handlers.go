package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"residora/internal/common"
	"residora/internal/models"
	"residora/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const photoURLExpiry = 15 * time.Minute

type RequestHandlers struct {
	requestService services.RequestService
	storageService services.StorageService
	bucket         string
}

func NewRequestHandlers(requestService services.RequestService, storageService services.StorageService, bucket string) *RequestHandlers {
	return &RequestHandlers{
		requestService: requestService,
		storageService: storageService,
		bucket:         bucket,
	}
}

type CreateRequestRequest struct {
	Message string `json:"message" validate:"required"`
}

// CreateRequest opens a maintenance request for the authenticated resident.
func (h *RequestHandlers) CreateRequest(c echo.Context) error {
	ctx := c.Request().Context()

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	request, err := h.requestService.Create(ctx, callerID, req.Message)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, request)
}

func (h *RequestHandlers) GetRequest(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "request ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	request, err := h.requestService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Maintenance request")
	}

	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin {
		callerID, ok := common.GetUserIDFromContext(ctx)
		if !ok || request.ResidentID != callerID {
			return common.SendForbiddenError(c)
		}
	}

	return c.JSON(http.StatusOK, request)
}

func (h *RequestHandlers) ListRequests(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	requests, err := h.requestService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list maintenance requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// MyRequests lists the authenticated resident's own maintenance requests.
func (h *RequestHandlers) MyRequests(c echo.Context) error {
	ctx := c.Request().Context()

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	requests, err := h.requestService.ListByResident(ctx, callerID)
	if err != nil {
		return common.SendServerError(c, "Failed to list maintenance requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// UpdateRequest applies an admin's status, workflow, cost or note changes.
func (h *RequestHandlers) UpdateRequest(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "request ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var update services.RequestStatusUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	request, err := h.requestService.UpdateStatus(ctx, id, callerID, &update)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, request)
}

// ListHistory returns the permanent maintenance-request audit archive.
func (h *RequestHandlers) ListHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	history, err := h.requestService.ListHistory(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list request history")
	}
	return c.JSON(http.StatusOK, history)
}

// DeleteRequest lets a resident withdraw their own pending request.
func (h *RequestHandlers) DeleteRequest(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "request ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	request, err := h.requestService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Maintenance request")
	}

	if err := h.requestService.DeleteOwn(ctx, id, callerID); err != nil {
		return common.SendClientError(c, err.Error())
	}

	if request.PhotoObject != nil {
		if err := h.storageService.Delete(ctx, h.bucket, *request.PhotoObject); err != nil {
			log.Printf("Failed to delete photo object %s: %v", *request.PhotoObject, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Request deleted successfully"})
}

// UploadPhoto attaches a photo of the issue to the request.
func (h *RequestHandlers) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "request ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	request, err := h.requestService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Maintenance request")
	}

	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin {
		callerID, ok := common.GetUserIDFromContext(ctx)
		if !ok || request.ResidentID != callerID {
			return common.SendForbiddenError(c)
		}
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Photo file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("request-photos/%s/%s-%s", id.String(), uuid.New().String(), filepath.Base(fileHeader.Filename))
	if err := h.storageService.Upload(ctx, h.bucket, objectName, contentType, src, fileHeader.Size); err != nil {
		return common.SendServerError(c, "Failed to store photo")
	}

	if err := h.requestService.AttachPhoto(ctx, id, objectName); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Photo uploaded successfully",
		"object":  objectName,
	})
}

// GetPhotoURL returns a short-lived presigned link to the request photo.
func (h *RequestHandlers) GetPhotoURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "request ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	request, err := h.requestService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Maintenance request")
	}

	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin {
		callerID, ok := common.GetUserIDFromContext(ctx)
		if !ok || request.ResidentID != callerID {
			return common.SendForbiddenError(c)
		}
	}

	if request.PhotoObject == nil {
		return common.SendNotFoundError(c, "Photo")
	}

	url, err := h.storageService.GetPresignedURL(h.bucket, *request.PhotoObject, photoURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate photo link")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
