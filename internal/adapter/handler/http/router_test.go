package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/boltauto/garage_microservice/internal/adapter/prometheus"
	"github.com/boltauto/garage_microservice/internal/config"
	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memGarage struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*domain.Vehicle
	records  map[uuid.UUID]*domain.ServiceRecord
}

func newMemGarage() *memGarage {
	return &memGarage{
		vehicles: make(map[uuid.UUID]*domain.Vehicle),
		records:  make(map[uuid.UUID]*domain.ServiceRecord),
	}
}

func (g *memGarage) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (g *memGarage) GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	vehicle, ok := g.vehicles[vehicleID]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (g *memGarage) GetVehiclesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*domain.Vehicle
	for _, vehicle := range g.vehicles {
		if vehicle.UserID == userID {
			out = append(out, vehicle)
		}
	}
	return out, nil
}

func (g *memGarage) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	return g.CreateVehicle(ctx, vehicle)
}

func (g *memGarage) DeleteVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.vehicles, vehicleID)
	return nil
}

type memRecords struct{ *memGarage }

func (r memRecords) CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return record, nil
}

func (r memRecords) GetServiceRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.ServiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok {
		return nil, domain.ErrServiceRecordNotFound
	}
	return record, nil
}

func (r memRecords) GetServiceRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ServiceRecord
	for _, record := range r.records {
		if record.VehicleID == vehicleID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r memRecords) UpdateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	return r.CreateServiceRecord(ctx, record)
}

func (r memRecords) DeleteServiceRecord(ctx context.Context, recordID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, recordID)
	return nil
}

type noCache struct{}

func (noCache) Get(string) ([]byte, error)              { return nil, domain.ErrNotFound }
func (noCache) Set(string, []byte, time.Duration) error { return nil }
func (noCache) Delete(string) error                     { return nil }

func newTestRouter(t *testing.T) (*Router, *memGarage) {
	t.Helper()
	log := quietLogger()
	garage := newMemGarage()
	records := memRecords{garage}
	validate := validator.New()

	vehicleService := services.NewVehicleService(garage, log, validate, noCache{})
	recordService := services.NewServiceRecordService(records, log, validate, noCache{})
	maintenanceService, err := services.NewMaintenanceService(garage, records, log, nil)
	require.NoError(t, err)

	metrics := prometheus.NewPrometheusAdapter()
	router, err := NewRouter(
		&config.HTTP{Env: "test"},
		NewJWTTokenService(testSecret, log),
		metrics,
		metrics.Handler(),
		nil,
		Handlers{
			Vehicle:       NewVehicleHandler(vehicleService, maintenanceService, log),
			ServiceRecord: NewServiceRecordHandler(recordService, vehicleService, log),
			Challenge:     NewChallengeHandler(nil, log),
			Achievement:   NewAchievementHandler(nil, log),
			Notification:  NewNotificationHandler(nil, nil, log),
		},
	)
	require.NoError(t, err)
	return router, garage
}

func doRequest(router *Router, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set(authorizationHeaderKey, auth)
	}
	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_DueMaintenanceFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	owner := uuid.New()
	auth := bearer(t, owner, domain.AppUser)

	w := doRequest(router, http.MethodPost, "/vehicles", auth, VehicleRequest{
		Make: "Honda", Model: "Civic", Year: 2018, Mileage: 50000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created VehicleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	serviceDate := time.Now().AddDate(0, -8, 0).Format(time.DateOnly)
	w = doRequest(router, http.MethodPost, "/service-records", auth, ServiceRecordRequest{
		VehicleID:   created.VehicleID.String(),
		ServiceType: "Oil Change",
		ServiceDate: serviceDate,
		Mileage:     44000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	duePath := "/vehicles/" + created.VehicleID.String() + "/maintenance/due"
	w = doRequest(router, http.MethodGet, duePath, auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var due DueMaintenanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &due))
	assert.Equal(t, created.VehicleID, due.VehicleID)
	assert.Equal(t, len(due.Items), due.Count)

	var oil *domain.DueMaintenanceItem
	for i := range due.Items {
		if due.Items[i].ServiceType == "oil_change" {
			oil = &due.Items[i]
		}
	}
	require.NotNil(t, oil)
	assert.Equal(t, domain.PriorityMedium, oil.Priority)
	assert.True(t, oil.Overdue)
	assert.Equal(t, 1000, oil.MilesOverdue)

	t.Run("other user is forbidden", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, duePath, bearer(t, uuid.New(), domain.AppUser), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin may read", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, duePath, bearer(t, uuid.New(), domain.Admin), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/vehicles/"+uuid.NewString()+"/maintenance/due", auth, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/vehicles/abc/maintenance/due", auth, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requests are counted", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), `path="/vehicles/:id/maintenance/due"`))
	})
}

func TestRouter_AdminRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/admin/maintenance/reminders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/admin/maintenance/reminders", bearer(t, uuid.New(), domain.AppUser), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
