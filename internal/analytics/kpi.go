package analytics

import (
	"context"
	"time"

	"residora/internal/models"
)

type OccupancyKPI struct {
	Rate         float64 `json:"rate"`
	OccupiedBeds int     `json:"occupiedBeds"`
	TotalBeds    int     `json:"totalBeds"`
}

type PaymentKPI struct {
	CollectionRate float64 `json:"collectionRate"`
	TotalBilled    float64 `json:"totalBilled"`
	TotalCollected float64 `json:"totalCollected"`
}

type MaintenanceKPI struct {
	AvgResolutionTime float64 `json:"avgResolutionTime"`
	ResolvedCount     int     `json:"resolvedCount"`
}

type KPIMeta struct {
	Mode        string     `json:"mode"`
	FromDate    *time.Time `json:"fromDate"`
	ToDate      *time.Time `json:"toDate"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

type KPIReport struct {
	Occupancy   OccupancyKPI   `json:"occupancy"`
	Payments    PaymentKPI     `json:"payments"`
	Maintenance MaintenanceKPI `json:"maintenance"`
	Meta        KPIMeta        `json:"meta"`
}

// ComputeKPIs takes a point-in-time snapshot of occupancy, collections and
// maintenance resolution. A [from,to] range narrows payments by paid_at and
// requests by created_at; the window applies only when both bounds are given,
// a one-sided range is ignored. Rooms are always current. Every ratio guards
// its denominator, so empty data yields zeros rather than errors.
func (s *Service) ComputeKPIs(ctx context.Context, from, to *time.Time) (*KPIReport, error) {
	now := s.now()
	windowed := from != nil && to != nil

	rooms, err := s.roomRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var payments []*models.Payment
	if windowed {
		payments, err = s.paymentRepo.ListByPaidRange(ctx, *from, *to)
	} else {
		payments, err = s.paymentRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	var resolved []*models.MaintenanceRequest
	if windowed {
		resolved, err = s.requestRepo.ListResolved(ctx, from, to)
	} else {
		resolved, err = s.requestRepo.ListResolved(ctx, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	totalBeds := 0
	occupiedBeds := 0
	for _, room := range rooms {
		totalBeds += room.TotalBeds
		occupiedBeds += room.OccupiedBeds
	}

	occupancyRate := 0.0
	if totalBeds > 0 {
		occupancyRate = round2(float64(occupiedBeds) / float64(totalBeds) * 100)
	}

	var totalBilled, totalCollected float64
	for _, payment := range payments {
		totalBilled += payment.Amount
		if payment.Status == models.PaymentStatusPaid {
			totalCollected += payment.Amount
		}
	}

	collectionRate := 0.0
	if totalBilled > 0 {
		collectionRate = round2(totalCollected / totalBilled * 100)
	}

	var totalResolutionHours float64
	for _, req := range resolved {
		totalResolutionHours += req.ResolutionHours()
	}

	avgResolutionTime := 0.0
	if len(resolved) > 0 {
		avgResolutionTime = round2(totalResolutionHours / float64(len(resolved)))
	}

	return &KPIReport{
		Occupancy: OccupancyKPI{
			Rate:         occupancyRate,
			OccupiedBeds: occupiedBeds,
			TotalBeds:    totalBeds,
		},
		Payments: PaymentKPI{
			CollectionRate: collectionRate,
			TotalBilled:    totalBilled,
			TotalCollected: totalCollected,
		},
		Maintenance: MaintenanceKPI{
			AvgResolutionTime: avgResolutionTime,
			ResolvedCount:     len(resolved),
		},
		Meta: KPIMeta{
			Mode:        "snapshot",
			FromDate:    from,
			ToDate:      to,
			GeneratedAt: now,
		},
	}, nil
}
