package yield

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"CropInsights/internal/domain"
)

// The grid file spells the district as it appears in the survey data.
var districtAliases = map[string]string{
	"Bhawalnagar": "Bahawalnagar",
}

// GeoIndex serves the district outlines and the per-district yield grid.
type GeoIndex struct {
	outlines json.RawMessage
	grid     *geojson.FeatureCollection
}

// LoadGeoIndex reads both GeoJSON files. The outlines are kept verbatim.
func LoadGeoIndex(outlinesPath, gridPath string) (*GeoIndex, error) {
	outlines, err := os.ReadFile(outlinesPath)
	if err != nil {
		return nil, fmt.Errorf("read district outlines: %w", err)
	}
	rawGrid, err := os.ReadFile(gridPath)
	if err != nil {
		return nil, fmt.Errorf("read yield grid: %w", err)
	}
	return NewGeoIndex(outlines, rawGrid)
}

// NewGeoIndex validates the outline document and decodes the grid.
func NewGeoIndex(outlines, grid []byte) (*GeoIndex, error) {
	if !json.Valid(outlines) {
		return nil, fmt.Errorf("district outlines are not valid JSON")
	}
	fc, err := geojson.UnmarshalFeatureCollection(grid)
	if err != nil {
		return nil, fmt.Errorf("decode yield grid: %w", err)
	}
	return &GeoIndex{outlines: json.RawMessage(outlines), grid: fc}, nil
}

// AllDistricts returns the outline document as loaded.
func (g *GeoIndex) AllDistricts() json.RawMessage {
	return g.outlines
}

// DistrictGrid filters grid features whose "district" property matches.
func (g *GeoIndex) DistrictGrid(district string) (*geojson.FeatureCollection, error) {
	if alias, ok := districtAliases[district]; ok {
		district = alias
	}

	fc := geojson.NewFeatureCollection()
	for _, f := range g.grid.Features {
		if f.Properties.MustString("district", "") == district {
			fc.Append(f)
		}
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%s: %w", district, domain.ErrDistrictNotFound)
	}
	return fc, nil
}
