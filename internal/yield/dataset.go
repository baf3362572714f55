package yield

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"CropInsights/internal/domain"
)

var requiredColumns = []string{"District", "Year", "Area", "Production", "Crop_Yield"}

// Dataset holds the observed per-district seasons in file order.
type Dataset struct {
	records   []domain.HistoricalRecord
	districts []string
}

// LoadDataset reads the historical CSV from disk.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open historical data: %w", err)
	}
	defer f.Close()

	ds, err := ParseDataset(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset reads CSV rows keyed by header name. Extra columns such as the
// simulated weather readings are ignored.
func ParseDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	ds := &Dataset{}
	seen := map[string]struct{}{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRecord(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.records = append(ds.records, rec)
		if _, ok := seen[rec.District]; !ok {
			seen[rec.District] = struct{}{}
			ds.districts = append(ds.districts, rec.District)
		}
	}
	return ds, nil
}

func parseRecord(row []string, index map[string]int) (domain.HistoricalRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[index[name]])
	}

	// Seasons are written as "2010-11"; the starting year identifies them.
	yearText, _, _ := strings.Cut(field("Year"), "-")
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("year %q: %w", field("Year"), err)
	}

	values := make(map[string]float64, 3)
	for _, col := range []string{"Area", "Production", "Crop_Yield"} {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil {
			return domain.HistoricalRecord{}, fmt.Errorf("%s %q: %w", col, field(col), err)
		}
		values[col] = v
	}

	return domain.HistoricalRecord{
		District:   field("District"),
		Year:       year,
		Area:       values["Area"],
		Production: values["Production"],
		Yield:      values["Crop_Yield"],
	}, nil
}

// Districts lists district names in first-seen order.
func (d *Dataset) Districts() []string {
	out := make([]string, len(d.districts))
	copy(out, d.districts)
	return out
}

// Series returns the district's seasons column-wise, or ErrDistrictNotFound.
func (d *Dataset) Series(district string) (domain.HistoricalSeries, error) {
	series := domain.HistoricalSeries{
		District:   district,
		Years:      []int{},
		Area:       []float64{},
		Production: []float64{},
		Yield:      []float64{},
	}
	for _, rec := range d.records {
		if rec.District != district {
			continue
		}
		series.Years = append(series.Years, rec.Year)
		series.Area = append(series.Area, rec.Area)
		series.Production = append(series.Production, rec.Production)
		series.Yield = append(series.Yield, rec.Yield)
	}
	if len(series.Years) == 0 {
		return domain.HistoricalSeries{}, fmt.Errorf("%s: %w", district, domain.ErrDistrictNotFound)
	}
	return series, nil
}
