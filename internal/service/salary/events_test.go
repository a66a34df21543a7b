package salary

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	events []sse.Event
}

func (r *recordingBroadcaster) Broadcast(event sse.Event) {
	r.events = append(r.events, event)
}

func TestPublishingService_BroadcastsSuccessfulWrites(t *testing.T) {
	f := newFixture(280)
	seedMarchProject(f)
	events := &recordingBroadcaster{}
	svc := NewPublishingService(newTestService(f, newMemoryCache()), events)

	// Act
	generated, err := svc.Generate(context.Background(), salary.GenerateRequest{Month: "2025-03"})
	require.NoError(t, err)
	_, err = svc.Recalculate(context.Background(), salary.RecalculateRequest{Month: "2025-03"})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), salary.UpdateStatusRequest{ID: generated.Created[0].ID, Status: "Paid"})
	require.NoError(t, err)

	// Assert
	require.Len(t, events.events, 3)
	assert.Equal(t, sse.EventSalariesGenerated, events.events[0].Name)
	assert.Equal(t, batchEvent{Month: "2025-03", CountChanged: 3}, events.events[0].Data)
	assert.Equal(t, sse.EventSalariesRecalculated, events.events[1].Name)
	assert.Equal(t, sse.EventSalaryPaid, events.events[2].Name)
	assert.Equal(t, generated.Created[0].ID, events.events[2].Data.(paidEvent).ID)
}

func TestPublishingService_FailuresAreSilent(t *testing.T) {
	f := newFixture(280)
	events := &recordingBroadcaster{}
	svc := NewPublishingService(newTestService(f, newMemoryCache()), events)

	// Act
	_, err := svc.Generate(context.Background(), salary.GenerateRequest{Month: "bad"})

	// Assert
	assert.Error(t, err)
	assert.Empty(t, events.events)
}

func TestNewPublishingService_NilBroadcasterReturnsInner(t *testing.T) {
	inner := newTestService(newFixture(280), newMemoryCache())

	// Act
	svc := NewPublishingService(inner, nil)

	// Assert
	assert.Same(t, inner, svc)
}
