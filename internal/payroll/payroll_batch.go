package payroll

import (
	"context"
	"errors"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	batchConcurrency = 8

	OutcomeGenerated = "GENERATED"
	OutcomeSkipped   = "SKIPPED"
	OutcomeFailed    = "FAILED"
)

// GenerateBatch generates the month for every listed employee, or for every
// employee with a salary in force at the end of the month when none are
// listed. One employee's failure never stops the others; employees already
// generated for the month are reported as skipped.
func (s *service) GenerateBatch(ctx context.Context, companyID, actorID string, req GenerateBatchRequest) (BatchGenerateResponse, error) {
	if !validPeriod(req.Month, req.Year) {
		return BatchGenerateResponse{}, payrollerrors.ErrInvalidPeriod
	}

	employeeIDs := dedupe(req.EmployeeIDs)
	if len(employeeIDs) == 0 {
		_, periodEnd := PayPeriod(req.Month, req.Year)
		ids, err := s.repo.ListPayableEmployees(ctx, companyID, periodEnd)
		if err != nil {
			return BatchGenerateResponse{}, err
		}
		employeeIDs = ids
	}

	results := make([]BatchOutcome, len(employeeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, employeeID := range employeeIDs {
		i, employeeID := i, employeeID
		g.Go(func() error {
			results[i] = s.generateOne(gctx, companyID, actorID, employeeID, req)
			return nil
		})
	}
	_ = g.Wait()

	resp := BatchGenerateResponse{
		Month:   req.Month,
		Year:    req.Year,
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		switch r.Status {
		case OutcomeGenerated:
			resp.Succeeded++
		case OutcomeFailed:
			resp.Failed++
		}
	}

	s.logger.Info("salary batch finished",
		zap.String("company_id", companyID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("total", resp.Total),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *service) generateOne(ctx context.Context, companyID, actorID, employeeID string, req GenerateBatchRequest) BatchOutcome {
	outcome := BatchOutcome{EmployeeID: employeeID}

	generation, err := s.generate(ctx, companyID, actorID, GeneratePayrollRequest{
		EmployeeID: employeeID,
		Month:      req.Month,
		Year:       req.Year,
	})
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		outcome.Status = OutcomeFailed
		if errors.Is(err, payrollerrors.ErrDuplicateGeneration) {
			outcome.Status = OutcomeSkipped
		}
		outcome.ErrorCode = httpErr.Code
		outcome.Error = httpErr.Message
		if outcome.Status == OutcomeFailed {
			s.logger.Warn("salary generation in batch failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
		}
		return outcome
	}

	outcome.Status = OutcomeGenerated
	outcome.SalaryGenerationID = generation.ID.String()
	outcome.GenerationNumber = generation.GenerationNumber
	outcome.NetSalary = generation.NetSalary.StringFixed(2)
	return outcome
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
