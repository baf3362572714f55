package domain

// HistoricalRecord is one season of observed crop data for a district.
type HistoricalRecord struct {
	District   string
	Year       int
	Area       float64
	Production float64
	Yield      float64
}

// HistoricalSeries groups a district's records column-wise.
type HistoricalSeries struct {
	District   string
	Years      []int
	Area       []float64
	Production []float64
	Yield      []float64
}

// SeasonWeather holds the weather readings for the three crop stages.
type SeasonWeather struct {
	PlantationTemperature float64
	PlantationHumidity    float64
	PlantationRainfall    float64
	GrowthTemperature     float64
	GrowthHumidity        float64
	GrowthRainfall        float64
	HarvestTemperature    float64
	HarvestHumidity       float64
	HarvestRainfall       float64
}

// Features returns the model input vector in training column order.
func (w SeasonWeather) Features() []float64 {
	return []float64{
		w.PlantationTemperature, w.PlantationHumidity, w.PlantationRainfall,
		w.GrowthTemperature, w.GrowthHumidity, w.GrowthRainfall,
		w.HarvestTemperature, w.HarvestHumidity, w.HarvestRainfall,
	}
}

// PredictionInput is the fixed per-district input row fed to the yield model.
type PredictionInput struct {
	Area    float64
	Weather SeasonWeather
}

// YieldPrediction is the model output plus the inputs that produced it.
type YieldPrediction struct {
	District            string
	PredictedYield      float64
	PredictedProduction float64
	Input               PredictionInput
}
