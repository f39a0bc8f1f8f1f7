package payroll

import (
	"bytes"
	"fmt"

	"go-payroll/internal/salarycalc"

	"github.com/jung-kurt/gofpdf"
)

// renderPayslipPDF lays out one generation as an A4 payslip.
func renderPayslipPDF(g SalaryGeneration) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+g.GenerationNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	employee := g.EmployeeID.String()
	if g.Employee != nil && g.Employee.FullName != "" {
		employee = g.Employee.FullName
	}

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Number", g.GenerationNumber},
		{"Employee", employee},
		{"Period", fmt.Sprintf("%s to %s", g.PayPeriodStart.Format(dateLayout), g.PayPeriodEnd.Format(dateLayout))},
		{"Working days", fmt.Sprintf("%d", g.WorkingDays)},
		{"Present days", g.PresentDays.String()},
		{"Paid leave days", fmt.Sprintf("%d", g.PaidLeaveDays)},
		{"Unpaid leave days", fmt.Sprintf("%d", g.UnpaidLeaveDays)},
		{"Overtime hours", g.OvertimeHours.StringFixed(2)},
	}
	for _, row := range header {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section := func(title string, rows [][2]string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			pdf.CellFormat(130, 7, row[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, row[1], "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	var earnings, deductions [][2]string
	for _, d := range g.Details {
		row := [2]string{d.ComponentName, d.CalculatedAmount.StringFixed(2)}
		if d.ComponentType == string(salarycalc.KindDeduction) {
			deductions = append(deductions, row)
		} else {
			earnings = append(earnings, row)
		}
	}
	if g.OvertimePay.IsPositive() {
		earnings = append(earnings, [2]string{"Overtime", g.OvertimePay.StringFixed(2)})
	}
	if g.Bonus.IsPositive() {
		earnings = append(earnings, [2]string{"Bonus", g.Bonus.StringFixed(2)})
	}
	if g.LateDeduction.IsPositive() {
		deductions = append(deductions, [2]string{"Late arrivals", g.LateDeduction.StringFixed(2)})
	}
	if g.AbsentDeduction.IsPositive() {
		deductions = append(deductions, [2]string{"Absence", g.AbsentDeduction.StringFixed(2)})
	}
	if g.LeaveDeduction.IsPositive() {
		deductions = append(deductions, [2]string{"Unpaid leave", g.LeaveDeduction.StringFixed(2)})
	}

	section("Earnings", earnings)
	section("Deductions", deductions)
	section("Summary", [][2]string{
		{"Gross salary", g.GrossSalary.StringFixed(2)},
		{"Total deductions", g.TotalDeductions.StringFixed(2)},
		{"Net salary", g.NetSalary.StringFixed(2)},
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip %s: %w", g.GenerationNumber, err)
	}
	return buf.Bytes(), nil
}
