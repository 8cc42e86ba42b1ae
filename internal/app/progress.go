package app

import (
	"context"
	"time"

	"fitcenter/internal/domain"
)

// MonthPoint is one month of a yearly progress chart.
type MonthPoint struct {
	Month   int          `json:"month"`
	Name    string       `json:"name"`
	Weight  *WeightPoint `json:"weight"`
	BodyFat *float64     `json:"bodyFat"`
	HasData bool         `json:"hasData"`
}

// WeightPoint is the optional weight value within a MonthPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// MonthlyProgress returns twelve points, January to December, each holding
// the month's latest weight and body fat, with weights converted to unit.
func (s *MeasurementService) MonthlyProgress(ctx context.Context, userID int64, year int, unit string) ([]MonthPoint, error) {
	if unit == "" {
		unit = "kg"
	}
	if unit != "kg" && unit != "lb" {
		return nil, invalid("unit must be \"kg\" or \"lb\"")
	}
	if year < 1900 || year > 9999 {
		return nil, invalid("year out of range")
	}

	points, err := cached(ctx, s.cache, progressKey(userID, year), func(ctx context.Context) ([]MonthPoint, error) {
		return s.monthly(ctx, userID, year)
	})
	if err != nil {
		return nil, err
	}

	if unit != "kg" {
		for i := range points {
			if w := points[i].Weight; w != nil {
				points[i].Weight = &WeightPoint{Value: domain.ConvertWeight(w.Value, w.Unit, unit), Unit: unit}
			}
		}
	}
	return points, nil
}

func (s *MeasurementService) monthly(ctx context.Context, userID int64, year int) ([]MonthPoint, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	list, err := s.repo.ListMeasurementsBetween(ctx, userID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	points := make([]MonthPoint, 12)
	for i := range points {
		points[i] = MonthPoint{Month: i + 1, Name: time.Month(i + 1).String()[:3]}
	}
	// Oldest first, so later entries of a month overwrite earlier ones.
	for _, m := range list {
		p := &points[m.CapturedAt.UTC().Month()-1]
		p.HasData = true
		p.Weight = &WeightPoint{Value: m.WeightKg, Unit: "kg"}
		if m.BodyFatPercent > 0 {
			bf := m.BodyFatPercent
			p.BodyFat = &bf
		} else {
			p.BodyFat = nil
		}
	}
	return points, nil
}
