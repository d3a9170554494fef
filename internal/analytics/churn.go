package analytics

import (
	"context"
	"sort"
	"time"

	"residora/internal/models"

	"github.com/google/uuid"
)

// ChurnResult is the scored risk profile of a single resident.
type ChurnResult struct {
	ResidentID uuid.UUID `json:"residentId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Score      int       `json:"score"`
	RiskLevel  string    `json:"riskLevel"`
	Reasons    []string  `json:"reasons"`
}

// ChurnReport aggregates churn results for every active resident, sorted by
// score descending.
type ChurnReport struct {
	GeneratedAt    time.Time     `json:"generatedAt"`
	TotalResidents int           `json:"totalResidents"`
	HighRisk       int           `json:"highRisk"`
	MediumRisk     int           `json:"mediumRisk"`
	LowRisk        int           `json:"lowRisk"`
	Residents      []ChurnResult `json:"residents"`
}

// ScoreResident applies the additive churn rules to one resident's payment
// and maintenance history. Reasons keep rule-check order; the score clamps
// to [0,100].
func ScoreResident(resident *models.User, payments []*models.Payment, requests []*models.MaintenanceRequest, now time.Time) ChurnResult {
	score := 0
	reasons := []string{}

	unpaid := 0
	for _, p := range payments {
		if p.Status == models.PaymentStatusUnpaid {
			unpaid++
		}
	}
	if unpaid >= 2 {
		score += 30
		reasons = append(reasons, "Multiple unpaid payments")
	} else if unpaid == 1 {
		score += 15
		reasons = append(reasons, "Recent unpaid payment")
	}

	if len(requests) >= 5 {
		score += 20
		reasons = append(reasons, "High number of maintenance requests")
	}

	for _, req := range requests {
		if now.Sub(req.CreatedAt).Hours() <= 30*24 {
			score += 10
			reasons = append(reasons, "Recent maintenance complaint")
			break
		}
	}

	lastActivity := resident.UpdatedAt
	if lastActivity.IsZero() {
		lastActivity = resident.CreatedAt
	}
	if now.Sub(lastActivity).Hours() > 90*24 {
		score += 15
		reasons = append(reasons, "Inactive for over 90 days")
	}

	if now.Sub(resident.CreatedAt).Hours() < 60*24 {
		score += 10
		reasons = append(reasons, "New resident (low tenure)")
	}

	if score > 100 {
		score = 100
	}

	riskLevel := RiskLow
	if score >= 60 {
		riskLevel = RiskHigh
	} else if score >= 30 {
		riskLevel = RiskMedium
	}

	return ChurnResult{
		ResidentID: resident.ID,
		Name:       resident.Name,
		Email:      resident.Email,
		Score:      score,
		RiskLevel:  riskLevel,
		Reasons:    reasons,
	}
}

// CalculateChurn scores a single resident against their full payment and
// maintenance-request history.
func (s *Service) CalculateChurn(ctx context.Context, residentID uuid.UUID) (*ChurnResult, error) {
	resident, err := s.userRepo.GetByID(ctx, residentID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, err
	}

	result := ScoreResident(resident, payments, requests, s.now())
	return &result, nil
}

// PredictChurn scores every active resident. Ties keep resident iteration
// order (stable sort), so repeated runs over the same snapshot agree.
func (s *Service) PredictChurn(ctx context.Context) (*ChurnReport, error) {
	residents, err := s.userRepo.ListActiveResidents(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]ChurnResult, 0, len(residents))

	for _, resident := range residents {
		payments, err := s.paymentRepo.ListByResident(ctx, resident.ID)
		if err != nil {
			return nil, err
		}
		requests, err := s.requestRepo.ListByResident(ctx, resident.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, ScoreResident(resident, payments, requests, now))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	report := &ChurnReport{
		GeneratedAt:    now,
		TotalResidents: len(residents),
		Residents:      results,
	}
	for _, r := range results {
		switch r.RiskLevel {
		case RiskHigh:
			report.HighRisk++
		case RiskMedium:
			report.MediumRisk++
		default:
			report.LowRisk++
		}
	}

	return report, nil
}
