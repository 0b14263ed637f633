package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
	"github.com/iliyamo/room-reservation/internal/timeutil"
)

type stubStatsService struct {
	rate     float64
	minutes  float64
	topRooms []model.TopRoom
	err      error

	gotPeriod timeutil.Period
	gotRoomID *uint64
}

func (s *stubStatsService) OccupancyRate(_ context.Context, _ uint64, _ string, period timeutil.Period) (float64, error) {
	s.gotPeriod = period
	return s.rate, s.err
}

func (s *stubStatsService) AverageDuration(_ context.Context, roomID *uint64, _, _ string) (float64, error) {
	s.gotRoomID = roomID
	return s.minutes, s.err
}

func (s *stubStatsService) TopRooms(context.Context) ([]model.TopRoom, error) {
	return s.topRooms, s.err
}

func newStatsEcho(stats *stubStatsService) *echo.Echo {
	e := echo.New()
	h := NewStatsHandler(stats)
	e.GET("/v1/stats/occupancy", h.Occupancy)
	e.GET("/v1/stats/average-duration", h.AverageDuration)
	e.GET("/v1/stats/top-rooms", h.TopRooms)
	return e
}

func TestOccupancyHandler(t *testing.T) {
	stats := &stubStatsService{rate: 37.5}
	e := newStatsEcho(stats)

	rec := doJSON(e, http.MethodGet, "/v1/stats/occupancy?room_id=1&date=2030-06-15&period=weekly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timeutil.PeriodWeekly, stats.gotPeriod)

	var body struct {
		Data struct {
			OccupancyRate float64 `json:"occupancy_rate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 37.5, body.Data.OccupancyRate)
}

func TestOccupancyHandlerDefaultsToDaily(t *testing.T) {
	stats := &stubStatsService{}
	e := newStatsEcho(stats)

	rec := doJSON(e, http.MethodGet, "/v1/stats/occupancy?room_id=1&date=2030-06-15", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timeutil.PeriodDaily, stats.gotPeriod)
}

func TestOccupancyHandlerValidation(t *testing.T) {
	e := newStatsEcho(&stubStatsService{})

	rec := doJSON(e, http.MethodGet, "/v1/stats/occupancy?date=2030-06-15", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = doJSON(e, http.MethodGet, "/v1/stats/occupancy?room_id=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestOccupancyHandlerInvalidPeriod(t *testing.T) {
	e := newStatsEcho(&stubStatsService{err: service.ErrInvalidPeriod})

	rec := doJSON(e, http.MethodGet, "/v1/stats/occupancy?room_id=1&date=2030-06-15&period=yearly", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PERIOD", errorCode(t, rec))
}

func TestAverageDurationHandler(t *testing.T) {
	stats := &stubStatsService{minutes: 72.46}
	e := newStatsEcho(stats)

	rec := doJSON(e, http.MethodGet, "/v1/stats/average-duration?room_id=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stats.gotRoomID)
	assert.Equal(t, uint64(5), *stats.gotRoomID)

	// Without a room filter the pointer stays nil.
	rec = doJSON(e, http.MethodGet, "/v1/stats/average-duration", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, stats.gotRoomID)
}

func TestTopRoomsHandler(t *testing.T) {
	e := newStatsEcho(&stubStatsService{topRooms: []model.TopRoom{
		{RoomID: 2, Name: "Harbor", ReservationCount: 9},
	}})

	rec := doJSON(e, http.MethodGet, "/v1/stats/top-rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []model.TopRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Harbor", body.Data[0].Name)
}
