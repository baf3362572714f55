package yield

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

// Service answers the district endpoints: history, prediction and maps.
type Service struct {
	dataset *Dataset
	model   ports.YieldModel
	geo     *GeoIndex
}

// NewService wires the loaded datasets with the inference client. Any of
// them may be nil; the matching lookups then report ErrDistrictNotFound.
func NewService(dataset *Dataset, model ports.YieldModel, geo *GeoIndex) *Service {
	return &Service{dataset: dataset, model: model, geo: geo}
}

// Districts lists the districts present in the historical data.
func (s *Service) Districts() []string {
	if s.dataset == nil {
		return []string{}
	}
	return s.dataset.Districts()
}

// Historical returns the observed series for one district.
func (s *Service) Historical(district string) (domain.HistoricalSeries, error) {
	if s.dataset == nil {
		return domain.HistoricalSeries{}, fmt.Errorf("%s: %w", district, domain.ErrDistrictNotFound)
	}
	return s.dataset.Series(district)
}

// Predict runs the model on the district's fixed input row. Production is
// yield (kg/acre) times area (thousand acres) over 1000, in thousand tonnes.
// Outputs and inputs are rounded to two decimals.
func (s *Service) Predict(ctx context.Context, district string) (domain.YieldPrediction, error) {
	input, ok := InputFor(district)
	if !ok {
		return domain.YieldPrediction{}, fmt.Errorf("%s: %w", district, domain.ErrDistrictNotFound)
	}
	if s.model == nil {
		return domain.YieldPrediction{}, fmt.Errorf("yield model is not configured")
	}

	raw, err := s.model.PredictYield(ctx, input.Weather.Features())
	if err != nil {
		return domain.YieldPrediction{}, fmt.Errorf("predict %s: %w", district, err)
	}

	yieldValue := decimal.NewFromFloat(raw)
	production := yieldValue.Mul(decimal.NewFromFloat(input.Area)).Div(decimal.NewFromInt(1000))

	return domain.YieldPrediction{
		District:            district,
		PredictedYield:      round2(yieldValue),
		PredictedProduction: round2(production),
		Input:               roundInput(input),
	}, nil
}

// AllDistricts returns the district outline GeoJSON.
func (s *Service) AllDistricts() (json.RawMessage, error) {
	if s.geo == nil {
		return nil, fmt.Errorf("district outlines: %w", domain.ErrNotFound)
	}
	return s.geo.AllDistricts(), nil
}

// DistrictMap returns the yield grid cells for one district.
func (s *Service) DistrictMap(district string) (*geojson.FeatureCollection, error) {
	if s.geo == nil {
		return nil, fmt.Errorf("%s: %w", district, domain.ErrDistrictNotFound)
	}
	return s.geo.DistrictGrid(district)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func roundInput(in domain.PredictionInput) domain.PredictionInput {
	r := func(v float64) float64 { return round2(decimal.NewFromFloat(v)) }
	w := in.Weather
	return domain.PredictionInput{
		Area: r(in.Area),
		Weather: domain.SeasonWeather{
			PlantationTemperature: r(w.PlantationTemperature),
			PlantationHumidity:    r(w.PlantationHumidity),
			PlantationRainfall:    r(w.PlantationRainfall),
			GrowthTemperature:     r(w.GrowthTemperature),
			GrowthHumidity:        r(w.GrowthHumidity),
			GrowthRainfall:        r(w.GrowthRainfall),
			HarvestTemperature:    r(w.HarvestTemperature),
			HarvestHumidity:       r(w.HarvestHumidity),
			HarvestRainfall:       r(w.HarvestRainfall),
		},
	}
}
