package analytics

import (
	"context"
	"time"
)

// OccupancyPoint is one month of observed occupancy.
type OccupancyPoint struct {
	Month         string  `json:"month"`
	OccupancyRate float64 `json:"occupancyRate"`
}

// OccupancyProjection is one month of predicted occupancy.
type OccupancyProjection struct {
	Month              string  `json:"month"`
	PredictedOccupancy float64 `json:"predictedOccupancy"`
}

type OccupancyForecast struct {
	History  []OccupancyPoint      `json:"history"`
	Forecast []OccupancyProjection `json:"forecast"`
	Meta     ForecastMeta          `json:"meta"`
}

// CostPoint is one month of observed maintenance spend.
type CostPoint struct {
	Month string  `json:"month"`
	Cost  float64 `json:"cost"`
}

// CostProjection is one month of predicted maintenance spend.
type CostProjection struct {
	Month         string  `json:"month"`
	PredictedCost float64 `json:"predictedCost"`
}

type MaintenanceForecast struct {
	History  []CostPoint      `json:"history"`
	Forecast []CostProjection `json:"forecast"`
	Meta     ForecastMeta     `json:"meta"`
}

type ForecastMeta struct {
	Trend       float64   `json:"trend"`
	SpikeRisk   string    `json:"spikeRisk,omitempty"`
	Model       string    `json:"model"`
	Note        string    `json:"note,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// spikeRisk compares the latest month against the window mean. Short
// histories carry too little signal to call a spike.
func spikeRisk(values []float64) string {
	if len(values) < 3 {
		return RiskLow
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	last := values[len(values)-1]

	switch {
	case last > avg*1.4:
		return RiskHigh
	case last > avg*1.2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ForecastOccupancy projects the occupancy rate monthsAhead months forward
// from a linear trend over the trailing six calendar months. Bed counts are
// a present-time snapshot replicated across the history buckets.
func (s *Service) ForecastOccupancy(ctx context.Context, monthsAhead int) (*OccupancyForecast, error) {
	if monthsAhead <= 0 {
		monthsAhead = defaultForecastMonths
	}

	now := s.now()

	rooms, err := s.roomRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return &OccupancyForecast{
			History:  []OccupancyPoint{},
			Forecast: []OccupancyProjection{},
			Meta: ForecastMeta{
				Model:       "insufficient-data",
				Note:        "No room data available",
				GeneratedAt: now,
			},
		}, nil
	}

	totalBeds := 0
	occupiedBeds := 0
	for _, room := range rooms {
		totalBeds += room.TotalBeds
		occupiedBeds += room.OccupiedBeds
	}

	rate := 0.0
	if totalBeds > 0 {
		rate = round2(float64(occupiedBeds) / float64(totalBeds) * 100)
	}

	history := make([]OccupancyPoint, 0, historyMonths)
	rates := make([]float64, 0, historyMonths)
	for i := historyMonths; i > 0; i-- {
		history = append(history, OccupancyPoint{
			Month:         monthLabel(monthStart(now, -i)),
			OccupancyRate: rate,
		})
		rates = append(rates, rate)
	}

	trend := trendOf(rates)

	forecast := make([]OccupancyProjection, 0, monthsAhead)
	current := rates[len(rates)-1]
	for i := 1; i <= monthsAhead; i++ {
		current += trend
		if current < 0 {
			current = 0
		}
		if current > 100 {
			current = 100
		}
		forecast = append(forecast, OccupancyProjection{
			Month:              monthLabel(monthStart(now, i)),
			PredictedOccupancy: round2(current),
		})
	}

	return &OccupancyForecast{
		History:  history,
		Forecast: forecast,
		Meta: ForecastMeta{
			Trend:       round2(trend),
			Model:       "linear-trend",
			GeneratedAt: now,
		},
	}, nil
}

// ForecastMaintenanceCost projects monthly maintenance spend monthsAhead
// months forward and flags spike risk against the trailing window.
func (s *Service) ForecastMaintenanceCost(ctx context.Context, monthsAhead int) (*MaintenanceForecast, error) {
	if monthsAhead <= 0 {
		monthsAhead = defaultForecastMonths
	}

	now := s.now()

	total, err := s.requestRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &MaintenanceForecast{
			History:  []CostPoint{},
			Forecast: []CostProjection{},
			Meta: ForecastMeta{
				Model:       "insufficient-data",
				Note:        "No maintenance cost data available",
				GeneratedAt: now,
			},
		}, nil
	}

	history := make([]CostPoint, 0, historyMonths)
	costs := make([]float64, 0, historyMonths)
	for i := historyMonths; i > 0; i-- {
		start := monthStart(now, -i)
		end := monthStart(now, -i+1).Add(-time.Nanosecond)

		cost, err := s.requestRepo.SumCostBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}

		history = append(history, CostPoint{
			Month: monthLabel(start),
			Cost:  round2(cost),
		})
		costs = append(costs, round2(cost))
	}

	trend := trendOf(costs)
	risk := spikeRisk(costs)

	forecast := make([]CostProjection, 0, monthsAhead)
	current := costs[len(costs)-1]
	for i := 1; i <= monthsAhead; i++ {
		current += trend
		if current < 0 {
			current = 0
		}
		forecast = append(forecast, CostProjection{
			Month:         monthLabel(monthStart(now, i)),
			PredictedCost: round2(current),
		})
	}

	return &MaintenanceForecast{
		History:  history,
		Forecast: forecast,
		Meta: ForecastMeta{
			Trend:       round2(trend),
			SpikeRisk:   risk,
			Model:       "linear-trend",
			GeneratedAt: now,
		},
	}, nil
}
