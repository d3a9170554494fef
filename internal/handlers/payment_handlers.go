package handlers

import (
	"fmt"
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

const receiptURLExpiry = 15 * time.Minute

type PaymentHandlers struct {
	paymentService services.PaymentService
	storageService services.StorageService
	bucket         string
}

func NewPaymentHandlers(paymentService services.PaymentService, storageService services.StorageService, bucket string) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
		storageService: storageService,
		bucket:         bucket,
	}
}

type CreatePaymentRequest struct {
	ResidentID string  `json:"resident_id" validate:"required"`
	RoomID     string  `json:"room_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gte=0"`
	Month      string  `json:"month" validate:"required"`
	Type       string  `json:"type"`
	DueDate    string  `json:"due_date"`
}

func (h *PaymentHandlers) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	residentID, err := common.ValidateUUID(req.ResidentID, "resident ID")
	if err != nil {
		return common.SendValidationError(c, "resident_id", err.Error())
	}
	roomID, err := common.ValidateUUID(req.RoomID, "room ID")
	if err != nil {
		return common.SendValidationError(c, "room_id", err.Error())
	}
	if err := common.ValidateMonthLabel(req.Month, "month"); err != nil {
		return common.SendValidationError(c, "month", err.Error())
	}

	dueDate, err := common.ParseDateParam(req.DueDate, "due_date")
	if err != nil {
		return common.SendValidationError(c, "due_date", err.Error())
	}

	payment := &models.Payment{
		ResidentID: residentID,
		RoomID:     roomID,
		Amount:     req.Amount,
		Month:      req.Month,
		Type:       req.Type,
	}
	if dueDate != nil {
		payment.DueDate = *dueDate
	}

	if err := h.paymentService.Create(c.Request().Context(), payment); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	payment, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Payment")
	}

	// Residents may only read their own payments.
	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin {
		callerID, ok := common.GetUserIDFromContext(ctx)
		if !ok || payment.ResidentID != callerID {
			return common.SendForbiddenError(c)
		}
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	filter := &models.PaymentSearchFilter{}

	if v := c.QueryParam("resident_id"); v != "" {
		id, err := common.ValidateUUID(v, "resident ID")
		if err != nil {
			return common.SendValidationError(c, "resident_id", err.Error())
		}
		filter.ResidentID = &id
	}
	if v := c.QueryParam("status"); v != "" {
		filter.Status = &v
	}
	if v := c.QueryParam("month"); v != "" {
		if err := common.ValidateMonthLabel(v, "month"); err != nil {
			return common.SendValidationError(c, "month", err.Error())
		}
		filter.Month = &v
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	filter.Limit, filter.Offset = common.ValidatePaginationParams(limit, offset)

	payments, err := h.paymentService.List(c.Request().Context(), filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

// MyPayments lists the authenticated resident's own payment history.
func (h *PaymentHandlers) MyPayments(c echo.Context) error {
	ctx := c.Request().Context()

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	payments, err := h.paymentService.ListByResident(ctx, callerID)
	if err != nil {
		return common.SendServerError(c, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

type MarkPaidRequest struct {
	Method string `json:"method"`
}

func (h *PaymentHandlers) MarkPaid(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "payment ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req MarkPaidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.paymentService.MarkPaid(c.Request().Context(), id, req.Method); err != nil {
		return common.SendClientError(c, err.Error())
	}

	payment, err := h.paymentService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendServerError(c, "Failed to load payment")
	}
	return c.JSON(http.StatusOK, payment)
}

// UploadReceipt stores a receipt file in object storage and links it
// to the payment. Only paid payments accept receipts.
func (h *PaymentHandlers) UploadReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Receipt file is required")
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

	objectName := fmt.Sprintf("receipts/%s/%s-%s", id.String(), uuid.New().String(), filepath.Base(fileHeader.Filename))
	if err := h.storageService.Upload(ctx, h.bucket, objectName, contentType, src, fileHeader.Size); err != nil {
		return common.SendServerError(c, "Failed to store receipt")
	}

	if err := h.paymentService.AttachReceipt(ctx, id, objectName); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Receipt uploaded successfully",
		"object":  objectName,
	})
}

// GetReceiptURL returns a short-lived presigned download link for the
// payment's receipt.
func (h *PaymentHandlers) GetReceiptURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	payment, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Payment")
	}

	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin {
		callerID, ok := common.GetUserIDFromContext(ctx)
		if !ok || payment.ResidentID != callerID {
			return common.SendForbiddenError(c)
		}
	}

	if payment.ReceiptObject == nil {
		return common.SendNotFoundError(c, "Receipt")
	}

	url, err := h.storageService.GetPresignedURL(h.bucket, *payment.ReceiptObject, receiptURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate receipt link")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
