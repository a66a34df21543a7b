package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsHandler_LogsSubscriberCounts(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	hub := sse.NewHub()
	_, other := hub.Subscribe("admin-2")
	defer other()

	ja := jwtauth.New("HS256", []byte(testSecret), nil)
	ctx, err := jwt.NewContext(context.Background(), ja, auth.Claims{UserID: "admin-1", Email: "admin@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	// Act
	NewEventsHandler(hub).Stream(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), `"msg":"Event stream opened"`)
	assert.Contains(t, logs.String(), `"user_subscriptions":1`)
	assert.Contains(t, logs.String(), `"total_subscribers":2`)
	assert.Contains(t, logs.String(), `"msg":"Event stream closed"`)
	assert.Equal(t, 1, hub.TotalSubscribers())
}
