package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// CityWeight is the cumulative collected weight of a single city on one date.
type CityWeight struct {
	City   string  `json:"city"`
	Weight float64 `json:"weight"`
}

// Cities keeps city contributions in the order they were first recorded.
// It serializes as a JSON object whose keys follow that order.
type Cities []CityWeight

// Get returns the weight recorded for city, or 0 when the city is unseen.
func (c Cities) Get(city string) float64 {
	for _, entry := range c {
		if entry.City == city {
			return entry.Weight
		}
	}
	return 0
}

// Add accumulates weight onto city, appending the city when unseen.
func (c *Cities) Add(city string, weight float64) {
	for i := range *c {
		if (*c)[i].City == city {
			(*c)[i].Weight += weight
			return
		}
	}
	*c = append(*c, CityWeight{City: city, Weight: weight})
}

// set replaces the weight of city, keeping its original position.
func (c *Cities) set(city string, weight float64) {
	for i := range *c {
		if (*c)[i].City == city {
			(*c)[i].Weight = weight
			return
		}
	}
	*c = append(*c, CityWeight{City: city, Weight: weight})
}

// Total sums every city weight.
func (c Cities) Total() float64 {
	var total float64
	for _, entry := range c {
		total += entry.Weight
	}
	return total
}

// MarshalJSON writes the cities as an ordered JSON object.
func (c Cities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.City)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Weight)
		if err != nil {
			return nil, fmt.Errorf("city %q: %w", entry.City, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order. Values that are not
// numbers decode as 0; a repeated key keeps its first position and last value.
func (c *Cities) UnmarshalJSON(data []byte) error {
	*c = Cities{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("cities: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		city, ok := tok.(string)
		if !ok {
			return fmt.Errorf("cities: expected key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("cities: value for %q: %w", city, err)
		}

		var weight float64
		if err := json.Unmarshal(raw, &weight); err != nil || math.IsNaN(weight) {
			weight = 0
		}
		c.set(city, weight)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Industry aggregates the materials recovered by the industry partner on a date.
type Industry struct {
	Weight float64 `json:"weight"`
	Res    int64   `json:"res"`
	Cap    int64   `json:"cap"`
	Iron   int64   `json:"iron"`
	Mag    int64   `json:"mag"`
	Cop    float64 `json:"cop"`
	Sil    float64 `json:"sil"`
}

// Add accumulates every field of delta onto i.
func (i *Industry) Add(delta Industry) {
	i.Weight += delta.Weight
	i.Res += delta.Res
	i.Cap += delta.Cap
	i.Iron += delta.Iron
	i.Mag += delta.Mag
	i.Cop += delta.Cop
	i.Sil += delta.Sil
}

// UnmarshalJSON accepts any JSON number for the counter fields, truncating
// fractional values toward zero.
func (i *Industry) UnmarshalJSON(data []byte) error {
	var aux struct {
		Weight float64 `json:"weight"`
		Res    float64 `json:"res"`
		Cap    float64 `json:"cap"`
		Iron   float64 `json:"iron"`
		Mag    float64 `json:"mag"`
		Cop    float64 `json:"cop"`
		Sil    float64 `json:"sil"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*i = Industry{
		Weight: aux.Weight,
		Res:    int64(aux.Res),
		Cap:    int64(aux.Cap),
		Iron:   int64(aux.Iron),
		Mag:    int64(aux.Mag),
		Cop:    aux.Cop,
		Sil:    aux.Sil,
	}
	return nil
}

// DateRecord holds everything recorded for one date.
type DateRecord struct {
	Cities   Cities   `json:"cities"`
	Industry Industry `json:"industry"`
}

// NewDateRecord returns an empty record: no cities and every industry field at zero.
func NewDateRecord() *DateRecord {
	return &DateRecord{Cities: Cities{}}
}

// Database maps an ISO date string to its record. It is persisted as a single blob.
type Database map[string]*DateRecord

// Record returns the record stored for date.
func (db Database) Record(date string) (*DateRecord, bool) {
	rec, ok := db[date]
	if !ok || rec == nil {
		return nil, false
	}
	return rec, true
}

// Ensure returns the record for date, creating an empty one when absent.
func (db Database) Ensure(date string) *DateRecord {
	if rec, ok := db.Record(date); ok {
		return rec
	}
	rec := NewDateRecord()
	db[date] = rec
	return rec
}

// Dates lists every recorded date in ascending string order.
func (db Database) Dates() []string {
	dates := make([]string, 0, len(db))
	for date, rec := range db {
		if rec == nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// EncodeDatabase serializes db into the persisted blob shape.
func EncodeDatabase(db Database) ([]byte, error) {
	if db == nil {
		db = Database{}
	}
	payload, err := json.Marshal(db)
	if err != nil {
		return nil, fmt.Errorf("encode database: %w", err)
	}
	return payload, nil
}

// DecodeDatabase parses a persisted blob. Empty or malformed content yields an
// empty Database; corruption is never reported as an error.
func DecodeDatabase(raw []byte) Database {
	db := Database{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return db
	}

	var decoded map[string]*DateRecord
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return db
	}

	for date, rec := range decoded {
		if rec == nil {
			continue
		}
		if rec.Cities == nil {
			rec.Cities = Cities{}
		}
		db[date] = rec
	}
	return db
}
