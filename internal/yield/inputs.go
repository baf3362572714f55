package yield

import "CropInsights/internal/domain"

// predictionInputs is the fixed area and seasonal weather row per district.
var predictionInputs = map[string]domain.PredictionInput{
	"Bhawalnagar": {Area: 110.0, Weather: domain.SeasonWeather{
		PlantationTemperature: 29.0, PlantationHumidity: 68.0, PlantationRainfall: 140.0,
		GrowthTemperature: 34.0, GrowthHumidity: 75.0, GrowthRainfall: 280.0,
		HarvestTemperature: 20.0, HarvestHumidity: 48.0, HarvestRainfall: 45.0,
	}},
	"Sheikhupura": {Area: 232.0, Weather: domain.SeasonWeather{
		PlantationTemperature: 30.0, PlantationHumidity: 70.0, PlantationRainfall: 150.0,
		GrowthTemperature: 35.0, GrowthHumidity: 80.0, GrowthRainfall: 300.0,
		HarvestTemperature: 25.0, HarvestHumidity: 50.0, HarvestRainfall: 50.0,
	}},
	"Jhang": {Area: 154.0, Weather: domain.SeasonWeather{
		PlantationTemperature: 28.0, PlantationHumidity: 65.0, PlantationRainfall: 130.0,
		GrowthTemperature: 33.0, GrowthHumidity: 78.0, GrowthRainfall: 250.0,
		HarvestTemperature: 22.0, HarvestHumidity: 45.0, HarvestRainfall: 40.0,
	}},
	"Sialkot": {Area: 190.0, Weather: domain.SeasonWeather{
		PlantationTemperature: 27.0, PlantationHumidity: 67.0, PlantationRainfall: 145.0,
		GrowthTemperature: 32.0, GrowthHumidity: 76.0, GrowthRainfall: 270.0,
		HarvestTemperature: 21.0, HarvestHumidity: 46.0, HarvestRainfall: 42.0,
	}},
	"Hafizabad": {Area: 156.0, Weather: domain.SeasonWeather{
		PlantationTemperature: 29.5, PlantationHumidity: 69.0, PlantationRainfall: 135.0,
		GrowthTemperature: 34.5, GrowthHumidity: 77.0, GrowthRainfall: 260.0,
		HarvestTemperature: 23.0, HarvestHumidity: 47.0, HarvestRainfall: 43.0,
	}},
	"Pakpattan": {Area: 84.5, Weather: domain.SeasonWeather{
		PlantationTemperature: 28.5, PlantationHumidity: 66.0, PlantationRainfall: 140.0,
		GrowthTemperature: 33.5, GrowthHumidity: 74.0, GrowthRainfall: 275.0,
		HarvestTemperature: 22.0, HarvestHumidity: 46.0, HarvestRainfall: 44.0,
	}},
}

// InputFor returns the fixed prediction input for a district.
func InputFor(district string) (domain.PredictionInput, bool) {
	in, ok := predictionInputs[district]
	return in, ok
}
