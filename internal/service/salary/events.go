package salary

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
)

// Broadcaster is satisfied by *sse.Hub.
type Broadcaster interface {
	Broadcast(event sse.Event)
}

type batchEvent struct {
	Month        string `json:"month"`
	CountChanged int    `json:"count_changed"`
	CountSkipped int    `json:"count_skipped"`
	ErrorCount   int    `json:"error_count"`
}

type paidEvent struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
}

// publishingService announces completed batches and payments. Reads pass through.
type publishingService struct {
	salary.SalaryService
	events Broadcaster
}

// NewPublishingService wraps next so that successful writes are broadcast.
func NewPublishingService(next salary.SalaryService, events Broadcaster) salary.SalaryService {
	if events == nil {
		return next
	}
	return &publishingService{SalaryService: next, events: events}
}

func (p *publishingService) Generate(ctx context.Context, req salary.GenerateRequest) (salary.GenerateResponse, error) {
	resp, err := p.SalaryService.Generate(ctx, req)
	if err != nil {
		return resp, err
	}
	p.events.Broadcast(sse.Event{Name: sse.EventSalariesGenerated, Data: batchEvent{
		Month:        resp.Month,
		CountChanged: resp.CreatedCount,
		CountSkipped: resp.SkippedCount,
		ErrorCount:   resp.ErrorCount,
	}})
	return resp, nil
}

func (p *publishingService) Recalculate(ctx context.Context, req salary.RecalculateRequest) (salary.RecalculateResponse, error) {
	resp, err := p.SalaryService.Recalculate(ctx, req)
	if err != nil {
		return resp, err
	}
	p.events.Broadcast(sse.Event{Name: sse.EventSalariesRecalculated, Data: batchEvent{
		Month:        resp.Month,
		CountChanged: resp.UpdatedCount,
		CountSkipped: resp.LockedSkippedCount,
		ErrorCount:   resp.ErrorCount,
	}})
	return resp, nil
}

func (p *publishingService) MarkPaid(ctx context.Context, req salary.UpdateStatusRequest) (salary.SalaryResponse, error) {
	resp, err := p.SalaryService.MarkPaid(ctx, req)
	if err != nil {
		return resp, err
	}
	p.events.Broadcast(sse.Event{Name: sse.EventSalaryPaid, Data: paidEvent{
		ID:         resp.ID,
		EmployeeID: resp.EmployeeID,
		Month:      resp.Month,
	}})
	return resp, nil
}
