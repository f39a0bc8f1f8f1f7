package payroll

import (
	"context"
	"fmt"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarycalc"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	registerSheet = "Register"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var registerColumns = []string{
	"Number", "Employee ID", "Employee", "Status",
	"Working Days", "Present Days", "Absent Days", "Paid Leave", "Unpaid Leave", "Overtime Hours",
	"Basic", "Overtime Pay", "Bonus", "Late Deduction", "Absent Deduction", "Leave Deduction",
}

var registerTotals = []string{"Total Earnings", "Total Deductions", "Gross", "Net"}

// ExportRegister writes the month's non-cancelled generations to a workbook,
// one row per employee with a column per component code.
func (s *service) ExportRegister(ctx context.Context, companyID string, req RegisterExportRequest) (FileDownload, error) {
	if !validPeriod(req.Month, req.Year) {
		return FileDownload{}, payrollerrors.ErrInvalidPeriod
	}

	generations, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		Month:            req.Month,
		Year:             req.Year,
		ExcludeCancelled: true,
		WithDetails:      true,
	})
	if err != nil {
		return FileDownload{}, err
	}

	content, err := buildRegister(generations)
	if err != nil {
		return FileDownload{}, err
	}
	return FileDownload{
		FileName:    fmt.Sprintf("payroll-register-%04d-%02d.xlsx", req.Year, req.Month),
		ContentType: xlsxMediaType,
		Content:     content,
	}, nil
}

// componentColumns lists component codes with earnings first, each group in
// order of first appearance.
func componentColumns(generations []SalaryGeneration) []string {
	var earnings, deductions []string
	seen := make(map[string]bool)
	for _, g := range generations {
		for _, d := range g.Details {
			if seen[d.ComponentCode] {
				continue
			}
			seen[d.ComponentCode] = true
			if d.ComponentType == string(salarycalc.KindDeduction) {
				deductions = append(deductions, d.ComponentCode)
			} else {
				earnings = append(earnings, d.ComponentCode)
			}
		}
	}
	return append(earnings, deductions...)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func buildRegister(generations []SalaryGeneration) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, err
	}

	codes := componentColumns(generations)
	header := make([]any, 0, len(registerColumns)+len(codes)+len(registerTotals))
	for _, c := range registerColumns {
		header = append(header, c)
	}
	for _, c := range codes {
		header = append(header, c)
	}
	for _, c := range registerTotals {
		header = append(header, c)
	}
	if err := f.SetSheetRow(registerSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, g := range generations {
		name := ""
		if g.Employee != nil {
			name = g.Employee.FullName
		}
		row := []any{
			g.GenerationNumber, g.EmployeeID.String(), name, g.Status,
			g.WorkingDays, g.PresentDays.InexactFloat64(), g.AbsentDays.InexactFloat64(),
			g.PaidLeaveDays, g.UnpaidLeaveDays, g.OvertimeHours.InexactFloat64(),
			money(g.BasicSalary), money(g.OvertimePay), money(g.Bonus),
			money(g.LateDeduction), money(g.AbsentDeduction), money(g.LeaveDeduction),
		}
		amounts := make(map[string]decimal.Decimal, len(g.Details))
		for _, d := range g.Details {
			amounts[d.ComponentCode] = d.CalculatedAmount
		}
		for _, code := range codes {
			if amount, ok := amounts[code]; ok {
				row = append(row, money(amount))
			} else {
				row = append(row, nil)
			}
		}
		row = append(row,
			money(g.TotalEarnings), money(g.TotalDeductions),
			money(g.GrossSalary), money(g.NetSalary),
		)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(registerSheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}
	if err := f.SetPanes(registerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
