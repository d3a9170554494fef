package handlers

import (
	"net/http"
	"strconv"

	"residora/internal/common"
	"residora/internal/models"
	"residora/internal/services"

	"github.com/labstack/echo/v4"
)

type RoomHandlers struct {
	roomService services.RoomService
}

func NewRoomHandlers(roomService services.RoomService) *RoomHandlers {
	return &RoomHandlers{roomService: roomService}
}

type CreateRoomRequest struct {
	RoomNumber   string  `json:"room_number" validate:"required"`
	TotalBeds    int     `json:"total_beds" validate:"required,min=1"`
	OccupiedBeds int     `json:"occupied_beds"`
	Rent         float64 `json:"rent" validate:"required,gt=0"`
	Note         *string `json:"note"`
}

func (h *RoomHandlers) CreateRoom(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.RoomNumber, "room_number"); err != nil {
		return common.SendValidationError(c, "room_number", err.Error())
	}

	room := &models.Room{
		RoomNumber:   req.RoomNumber,
		TotalBeds:    req.TotalBeds,
		OccupiedBeds: req.OccupiedBeds,
		Rent:         req.Rent,
		Note:         req.Note,
	}
	if err := h.roomService.Create(c.Request().Context(), room); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *RoomHandlers) GetRoom(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "room ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	room, err := h.roomService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Room")
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandlers) ListRooms(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	rooms, err := h.roomService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list rooms")
	}
	return c.JSON(http.StatusOK, rooms)
}

type UpdateRoomRequest struct {
	RoomNumber string  `json:"room_number"`
	TotalBeds  int     `json:"total_beds"`
	Rent       float64 `json:"rent"`
	Note       *string `json:"note"`
}

func (h *RoomHandlers) UpdateRoom(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "room ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	room, err := h.roomService.GetByID(ctx, id)
	if err != nil {
		return common.SendNotFoundError(c, "Room")
	}

	if req.RoomNumber != "" {
		room.RoomNumber = req.RoomNumber
	}
	if req.TotalBeds > 0 {
		room.TotalBeds = req.TotalBeds
	}
	if req.Rent > 0 {
		room.Rent = req.Rent
	}
	if req.Note != nil {
		room.Note = req.Note
	}

	if err := h.roomService.Update(ctx, room); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandlers) DeleteRoom(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "room ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.roomService.Delete(c.Request().Context(), id); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Room deleted successfully"})
}

type AssignResidentRequest struct {
	ResidentID string `json:"resident_id" validate:"required"`
}

// AssignResident places a resident into the room, freeing any previous bed.
func (h *RoomHandlers) AssignResident(c echo.Context) error {
	roomID, err := common.ValidateUUID(c.Param("id"), "room ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req AssignResidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	residentID, err := common.ValidateUUID(req.ResidentID, "resident ID")
	if err != nil {
		return common.SendValidationError(c, "resident_id", err.Error())
	}

	if err := h.roomService.AssignResident(c.Request().Context(), roomID, residentID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Resident assigned successfully"})
}

func (h *RoomHandlers) UnassignResident(c echo.Context) error {
	residentID, err := common.ValidateUUID(c.Param("residentId"), "resident ID")
	if err != nil {
		return common.SendValidationError(c, "residentId", err.Error())
	}

	if err := h.roomService.UnassignResident(c.Request().Context(), residentID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Resident unassigned successfully"})
}
