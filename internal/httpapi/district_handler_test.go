package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"CropInsights/internal/domain"
)

type fakeDistricts struct {
	names      []string
	series     map[string]domain.HistoricalSeries
	prediction *domain.YieldPrediction
	predictErr error
	outlines   json.RawMessage
	grid       map[string]*geojson.FeatureCollection
}

func (f *fakeDistricts) Districts() []string { return f.names }

func (f *fakeDistricts) Historical(name string) (domain.HistoricalSeries, error) {
	s, ok := f.series[name]
	if !ok {
		return domain.HistoricalSeries{}, domain.ErrDistrictNotFound
	}
	return s, nil
}

func (f *fakeDistricts) Predict(ctx context.Context, name string) (domain.YieldPrediction, error) {
	if f.predictErr != nil {
		return domain.YieldPrediction{}, f.predictErr
	}
	if f.prediction == nil || f.prediction.District != name {
		return domain.YieldPrediction{}, domain.ErrDistrictNotFound
	}
	return *f.prediction, nil
}

func (f *fakeDistricts) AllDistricts() (json.RawMessage, error) {
	if f.outlines == nil {
		return nil, domain.ErrNotFound
	}
	return f.outlines, nil
}

func (f *fakeDistricts) DistrictMap(name string) (*geojson.FeatureCollection, error) {
	fc, ok := f.grid[name]
	if !ok {
		return nil, domain.ErrDistrictNotFound
	}
	return fc, nil
}

func newTestDistrictRouter(d DistrictService) http.Handler {
	gin.SetMode(gin.TestMode)
	return NewRouter(Deps{Districts: d, Insights: &fakeInsights{}})
}

func TestListDistricts(t *testing.T) {
	r := newTestDistrictRouter(&fakeDistricts{names: []string{"Sheikhupura", "Jhang"}})

	w := serve(r, "GET", "/districts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"districts":["Sheikhupura","Jhang"]}`, w.Body.String())
}

func TestHistorical(t *testing.T) {
	r := newTestDistrictRouter(&fakeDistricts{series: map[string]domain.HistoricalSeries{
		"Jhang": {District: "Jhang", Years: []int{2010}, Area: []float64{150}, Production: []float64{300}, Yield: []float64{2000}},
	}})

	w := serve(r, "GET", "/district/Jhang/historical")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		`{"District":"Jhang","Historical_Data":{"Years":[2010],"Area":[150],"Production":[300],"Yield":[2000]}}`,
		w.Body.String())

	w = serve(r, "GET", "/district/Lahore/historical")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredict(t *testing.T) {
	r := newTestDistrictRouter(&fakeDistricts{prediction: &domain.YieldPrediction{
		District:            "Jhang",
		PredictedYield:      2100.5,
		PredictedProduction: 323.48,
		Input: domain.PredictionInput{Area: 154, Weather: domain.SeasonWeather{
			PlantationTemperature: 28, HarvestRainfall: 40,
		}},
	}})

	w := serve(r, "POST", "/district/Jhang/predict")
	assert.Equal(t, http.StatusOK, w.Code)

	var res PredictionResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Jhang", res.District)
	assert.Equal(t, 323.48, res.PredictedProduction)
	assert.Equal(t, 2100.5, res.PredictedYield)
	assert.Equal(t, 154.0, res.Inputs.Area)
	assert.Equal(t, 28.0, res.Inputs.PlantationTemperature)
	assert.Equal(t, 40.0, res.Inputs.HarvestRainfall)

	w = serve(r, "POST", "/district/Lahore/predict")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredict_ModelFailure(t *testing.T) {
	r := newTestDistrictRouter(&fakeDistricts{predictErr: errors.New("inference down")})

	w := serve(r, "POST", "/district/Jhang/predict")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAllDistricts(t *testing.T) {
	raw := json.RawMessage(`{"type":"FeatureCollection","features":[]}`)
	r := newTestDistrictRouter(&fakeDistricts{outlines: raw})

	w := serve(r, "GET", "/all-districts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(raw), w.Body.String())

	r = newTestDistrictRouter(&fakeDistricts{})
	w = serve(r, "GET", "/all-districts")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDistrictMap(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	cell := geojson.NewFeature(orb.Point{73.2, 29.9})
	cell.Properties["district"] = "Bahawalnagar"
	fc.Append(cell)

	r := newTestDistrictRouter(&fakeDistricts{grid: map[string]*geojson.FeatureCollection{"Bhawalnagar": fc}})

	w := serve(r, "GET", "/district/Bhawalnagar/map")
	assert.Equal(t, http.StatusOK, w.Code)

	decoded, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(decoded.Features))

	w = serve(r, "GET", "/district/Lahore/map")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "District 'Lahore' not found", res["error"])
}
