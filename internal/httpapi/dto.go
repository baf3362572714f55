package httpapi

import "CropInsights/internal/domain"

// Response bodies keep the field names of the original dashboard API.

// TriggerResponse is the body of a successful POST /news/trigger.
type TriggerResponse struct {
	Message          string `json:"message"`
	InsightsSaved    string `json:"insights_saved"`
	TotalArticles    int    `json:"total_articles"`
	RelevantArticles int    `json:"relevant_articles"`
	InsightsCount    int    `json:"insights_count"`
}

// InsightsResponse wraps one date's bundle.
type InsightsResponse struct {
	Date    string               `json:"date"`
	Results domain.InsightBundle `json:"results"`
}

type DatesResponse struct {
	AvailableDates []string `json:"available_dates"`
}

// LastRunResponse carries a null date until the first run completes.
type LastRunResponse struct {
	LastExecution *string `json:"last_execution"`
}

type DistrictsResponse struct {
	Districts []string `json:"districts"`
}

// HistoricalData holds parallel per-year series.
type HistoricalData struct {
	Years      []int     `json:"Years"`
	Area       []float64 `json:"Area"`
	Production []float64 `json:"Production"`
	Yield      []float64 `json:"Yield"`
}

// HistoricalResponse keeps the capitalised keys the dashboard reads.
type HistoricalResponse struct {
	District       string         `json:"District"`
	HistoricalData HistoricalData `json:"Historical_Data"`
}

// PredictionInputs echoes the area and weather readings fed to the model.
type PredictionInputs struct {
	Area                  float64 `json:"Area"`
	PlantationTemperature float64 `json:"Plantation_Temperature"`
	PlantationHumidity    float64 `json:"Plantation_Humidity"`
	PlantationRainfall    float64 `json:"Plantation_Rainfall"`
	GrowthTemperature     float64 `json:"Growth_Temperature"`
	GrowthHumidity        float64 `json:"Growth_Humidity"`
	GrowthRainfall        float64 `json:"Growth_Rainfall"`
	HarvestTemperature    float64 `json:"Harvest_Temperature"`
	HarvestHumidity       float64 `json:"Harvest_Humidity"`
	HarvestRainfall       float64 `json:"Harvest_Rainfall"`
}

// PredictionResponse is the body of POST /district/:name/predict.
type PredictionResponse struct {
	District            string           `json:"District"`
	PredictedProduction float64          `json:"Predicted_Production"`
	PredictedYield      float64          `json:"Predicted_Yield"`
	Inputs              PredictionInputs `json:"Inputs"`
}

func toHistoricalResponse(s domain.HistoricalSeries) HistoricalResponse {
	return HistoricalResponse{
		District: s.District,
		HistoricalData: HistoricalData{
			Years:      s.Years,
			Area:       s.Area,
			Production: s.Production,
			Yield:      s.Yield,
		},
	}
}

func toPredictionResponse(p domain.YieldPrediction) PredictionResponse {
	w := p.Input.Weather
	return PredictionResponse{
		District:            p.District,
		PredictedProduction: p.PredictedProduction,
		PredictedYield:      p.PredictedYield,
		Inputs: PredictionInputs{
			Area:                  p.Input.Area,
			PlantationTemperature: w.PlantationTemperature,
			PlantationHumidity:    w.PlantationHumidity,
			PlantationRainfall:    w.PlantationRainfall,
			GrowthTemperature:     w.GrowthTemperature,
			GrowthHumidity:        w.GrowthHumidity,
			GrowthRainfall:        w.GrowthRainfall,
			HarvestTemperature:    w.HarvestTemperature,
			HarvestHumidity:       w.HarvestHumidity,
			HarvestRainfall:       w.HarvestRainfall,
		},
	}
}
