package salary

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Employee ID", "Employee", "Role", "Month", "Base Salary (PKR)",
	"Project Bonuses", "PM Commissions", "Team Lead Commissions", "Manager Commissions", "Bidder Commissions",
	"Total (PKR)", "Exchange Rate", "Status", "Paid Date", "Payment Reference",
}

// ExportMonth renders one row per salary with a column per line item collection.
func (s *SalaryServiceImpl) ExportMonth(ctx context.Context, month string) ([]byte, error) {
	m, err := period.Parse(month)
	if err != nil {
		return nil, err
	}

	records, err := s.salaryRepo.ListByMonth(ctx, m)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Salaries " + m.String()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range records {
		row := i + 2
		values := []interface{}{
			r.EmployeeID,
			deref(r.EmployeeName),
			deref(r.EmployeeRole),
			r.Month.String(),
			r.BaseSalary.InexactFloat64(),
			salary.LineItems{ProjectBonuses: r.ProjectBonuses}.Total().InexactFloat64(),
			salary.LineItems{PMCommissions: r.PMCommissions}.Total().InexactFloat64(),
			salary.LineItems{TeamLeadCommissions: r.TeamLeadCommissions}.Total().InexactFloat64(),
			salary.LineItems{ManagerCommissions: r.ManagerCommissions}.Total().InexactFloat64(),
			salary.LineItems{BidderCommissions: r.BidderCommissions}.Total().InexactFloat64(),
			r.TotalAmount.InexactFloat64(),
			r.ExchangeRate.InexactFloat64(),
			string(r.Status),
			"",
			deref(r.PaymentReference),
		}
		if r.PaidDate != nil {
			values[13] = r.PaidDate.Format("2006-01-02")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
