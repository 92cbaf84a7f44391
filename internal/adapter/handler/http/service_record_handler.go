package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"
	"github.com/boltauto/garage_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
)

type ServiceRecordHandler struct {
	recordService  *services.ServiceRecordService
	vehicleService *services.VehicleService
	logger         ports.LoggerPort
}

type ServiceRecordRequest struct {
	VehicleID   string  `json:"vehicle_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	ServiceType string  `json:"service_type" binding:"required" example:"oil_change"`
	Description string  `json:"description,omitempty" example:"Synthetic 5W-30"`
	ServiceDate string  `json:"service_date" binding:"required" example:"2024-03-01"`
	Mileage     int     `json:"mileage" example:"44000"`
	Cost        float64 `json:"cost,omitempty" example:"79.99"`
	InvoiceURL  string  `json:"invoice_url,omitempty" example:"https://example.com/invoice.pdf"`
}

type UpdateServiceRecord struct {
	ServiceType *string  `json:"service_type,omitempty" example:"oil_change"`
	Description *string  `json:"description,omitempty" example:"Synthetic 5W-30"`
	ServiceDate *string  `json:"service_date,omitempty" example:"2024-03-01"`
	Mileage     *int     `json:"mileage,omitempty" example:"44000"`
	Cost        *float64 `json:"cost,omitempty" example:"79.99"`
	InvoiceURL  *string  `json:"invoice_url,omitempty" example:"https://example.com/invoice.pdf"`
}

type ServiceRecordsResponse struct {
	Records []*domain.ServiceRecord `json:"records"`
	Count   int                     `json:"count"`
}

func NewServiceRecordHandler(
	recordService *services.ServiceRecordService,
	vehicleService *services.VehicleService,
	logger ports.LoggerPort,
) *ServiceRecordHandler {
	return &ServiceRecordHandler{
		recordService:  recordService,
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// parseServiceDate accepts a plain date or an RFC 3339 timestamp.
func parseServiceDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: service_date must be YYYY-MM-DD or RFC 3339", domain.ErrValidation)
	}
	return t, nil
}

// @Summary Create service record
// @Tags service-records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ServiceRecordRequest true "Service record"
// @Success 201 {object} domain.ServiceRecord
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /service-records [post]
func (h *ServiceRecordHandler) CreateServiceRecord(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to CreateServiceRecord", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create service record", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), req.VehicleID)
	if err != nil {
		handleError(c, err)
		return
	}
	if !payload.CanAccess(vehicle.UserID) {
		h.logger.Warn("Access denied to add service record", map[string]interface{}{
			"requester_id": payload.UserID.String(),
			"owner_id":     vehicle.UserID.String(),
			"vehicle_id":   req.VehicleID,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	serviceDate, err := parseServiceDate(req.ServiceDate)
	if err != nil {
		handleError(c, err)
		return
	}

	record := &domain.ServiceRecord{
		VehicleID:   vehicle.ID,
		UserID:      vehicle.UserID,
		ServiceType: req.ServiceType,
		Description: req.Description,
		ServiceDate: serviceDate,
		Mileage:     req.Mileage,
		Cost:        req.Cost,
		InvoiceURL:  req.InvoiceURL,
	}

	created, err := h.recordService.CreateServiceRecord(c.Request.Context(), record)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Vehicle service history
// @Tags service-records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} ServiceRecordsResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /vehicles/{id}/service-records [get]
func (h *ServiceRecordHandler) GetVehicleServiceRecords(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	if !payload.CanAccess(vehicle.UserID) {
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	records, err := h.recordService.GetServiceRecordsByVehicleID(c.Request.Context(), vehicle.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	if records == nil {
		records = []*domain.ServiceRecord{}
	}

	c.JSON(http.StatusOK, ServiceRecordsResponse{Records: records, Count: len(records)})
}

// @Summary Update service record
// @Tags service-records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Service record ID"
// @Param request body UpdateServiceRecord true "Fields to change"
// @Success 200 {object} domain.ServiceRecord
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /service-records/{id} [put]
func (h *ServiceRecordHandler) UpdateServiceRecord(c *gin.Context) {
	record, ok := h.ownedRecord(c)
	if !ok {
		return
	}

	var req UpdateServiceRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.ServiceType != nil {
		record.ServiceType = *req.ServiceType
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.ServiceDate != nil {
		serviceDate, err := parseServiceDate(*req.ServiceDate)
		if err != nil {
			handleError(c, err)
			return
		}
		record.ServiceDate = serviceDate
	}
	if req.Mileage != nil {
		record.Mileage = *req.Mileage
	}
	if req.Cost != nil {
		record.Cost = *req.Cost
	}
	if req.InvoiceURL != nil {
		record.InvoiceURL = *req.InvoiceURL
	}

	updated, err := h.recordService.UpdateServiceRecord(c.Request.Context(), record)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Delete service record
// @Tags service-records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Service record ID"
// @Success 200 {object} successResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /service-records/{id} [delete]
func (h *ServiceRecordHandler) DeleteServiceRecord(c *gin.Context) {
	record, ok := h.ownedRecord(c)
	if !ok {
		return
	}

	if err := h.recordService.DeleteServiceRecord(c.Request.Context(), record); err != nil {
		handleError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service record deleted", nil)
}

func (h *ServiceRecordHandler) ownedRecord(c *gin.Context) (*domain.ServiceRecord, bool) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	record, err := h.recordService.GetServiceRecordByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	if !payload.CanAccess(record.UserID) {
		h.logger.Warn("Access denied to service record", map[string]interface{}{
			"requester_id": payload.UserID.String(),
			"owner_id":     record.UserID.String(),
			"record_id":    record.ID.String(),
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return record, true
}

