package http

import (
	"net/http"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"
	"github.com/boltauto/garage_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	vehicleService     *services.VehicleService
	maintenanceService *services.MaintenanceService
	logger             ports.LoggerPort
}

type VehicleRequest struct {
	Make             string `json:"make" example:"Mazda"`
	Model            string `json:"model" example:"MX-5"`
	Year             int    `json:"year" example:"2019"`
	Trim             string `json:"trim,omitempty" example:"Club"`
	OtherDescription string `json:"other_vehicle_description,omitempty" example:"Project car"`
	Mileage          int    `json:"mileage" example:"42000"`
}

type UpdateVehicle struct {
	Make             *string `json:"make,omitempty" example:"Mazda"`
	Model            *string `json:"model,omitempty" example:"MX-5"`
	Year             *int    `json:"year,omitempty" example:"2019"`
	Trim             *string `json:"trim,omitempty" example:"Club"`
	OtherDescription *string `json:"other_vehicle_description,omitempty" example:"Project car"`
	Mileage          *int    `json:"mileage,omitempty" example:"45000"`
}

type VehicleResponse struct {
	VehicleID        uuid.UUID `json:"vehicle_id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	Year             int       `json:"year,omitempty"`
	Trim             string    `json:"trim,omitempty"`
	OtherDescription string    `json:"other_vehicle_description,omitempty"`
	Mileage          int       `json:"mileage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type GetMyVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
	Count    int               `json:"count"`
}

type DueMaintenanceResponse struct {
	VehicleID uuid.UUID                   `json:"vehicle_id"`
	Items     []domain.DueMaintenanceItem `json:"items"`
	Count     int                         `json:"count"`
}

func NewVehicleHandler(
	vehicleService *services.VehicleService,
	maintenanceService *services.MaintenanceService,
	logger ports.LoggerPort,
) *VehicleHandler {
	return &VehicleHandler{
		vehicleService:     vehicleService,
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		VehicleID:        v.ID,
		UserID:           v.UserID,
		Name:             v.DisplayName(),
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Trim:             v.Trim,
		OtherDescription: v.OtherDescription,
		Mileage:          v.Mileage,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// @Summary Create vehicle
// @Description Add a vehicle to the caller's garage
// @Tags vehicles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body VehicleRequest true "Vehicle data"
// @Success 201 {object} VehicleResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /vehicles [post]
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to CreateVehicle", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	vehicle := &domain.Vehicle{
		UserID:           payload.UserID,
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Trim:             req.Trim,
		OtherDescription: req.OtherDescription,
		Mileage:          req.Mileage,
	}

	created, err := h.vehicleService.CreateVehicle(c.Request.Context(), vehicle)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toVehicleResponse(created))
}

// @Summary My vehicles
// @Tags vehicles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} GetMyVehiclesResponse
// @Failure 401 {object} errorResponse
// @Router /vehicles/my [get]
func (h *VehicleHandler) GetMyVehicles(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicles, err := h.vehicleService.GetVehiclesByUserID(c.Request.Context(), payload.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := GetMyVehiclesResponse{Vehicles: make([]VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		resp.Vehicles = append(resp.Vehicles, toVehicleResponse(v))
	}
	resp.Count = len(resp.Vehicles)

	c.JSON(http.StatusOK, resp)
}

// @Summary Get vehicle
// @Tags vehicles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} VehicleResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

// @Summary Update vehicle
// @Tags vehicles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body UpdateVehicle true "Fields to change"
// @Success 200 {object} VehicleResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	var req UpdateVehicle
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Trim != nil {
		vehicle.Trim = *req.Trim
	}
	if req.OtherDescription != nil {
		vehicle.OtherDescription = *req.OtherDescription
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}

	updated, err := h.vehicleService.UpdateVehicle(c.Request.Context(), vehicle)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toVehicleResponse(updated))
}

// @Summary Delete vehicle
// @Tags vehicles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} successResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), vehicle.ID.String()); err != nil {
		handleError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Vehicle deleted", nil)
}

// @Summary Due maintenance
// @Description Maintenance items due for the vehicle, most urgent first
// @Tags maintenance
// @Security BearerAuth
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} DueMaintenanceResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /vehicles/{id}/maintenance/due [get]
func (h *VehicleHandler) GetDueMaintenance(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicleID := c.Param("id")
	items, err := h.maintenanceService.GetDueMaintenanceItems(c.Request.Context(), payload, vehicleID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DueMaintenanceResponse{
		VehicleID: uuid.MustParse(vehicleID),
		Items:     items,
		Count:     len(items),
	})
}

// ownedVehicle loads the :id vehicle and checks the caller may access it. On
// failure the response has already been written.
func (h *VehicleHandler) ownedVehicle(c *gin.Context) (*domain.Vehicle, bool) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	vehicleID := c.Param("id")
	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), vehicleID)
	if err != nil {
		handleError(c, err)
		return nil, false
	}

	if !payload.CanAccess(vehicle.UserID) {
		h.logger.Warn("Access denied to vehicle", map[string]interface{}{
			"requester_id": payload.UserID.String(),
			"owner_id":     vehicle.UserID.String(),
			"vehicle_id":   vehicleID,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return vehicle, true
}
