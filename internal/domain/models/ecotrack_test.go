package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCitiesKeepInsertionOrder(t *testing.T) {
	var cities Cities
	cities.Add("Shelbyville", 120)
	cities.Add("Springfield", 250)
	cities.Add("Shelbyville", 30)

	require.Len(t, cities, 2)
	assert.Equal(t, "Shelbyville", cities[0].City)
	assert.Equal(t, 150.0, cities[0].Weight)
	assert.Equal(t, 250.0, cities.Get("Springfield"))
	assert.Equal(t, 0.0, cities.Get("Ogdenville"))
	assert.Equal(t, 400.0, cities.Total())

	payload, err := json.Marshal(cities)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Shelbyville":150,"Springfield":250}`, string(payload))
	assert.Equal(t, `{"Shelbyville":150,"Springfield":250}`, string(payload))
}

func TestCitiesUnmarshal(t *testing.T) {
	t.Run("preserves key order", func(t *testing.T) {
		var cities Cities
		require.NoError(t, json.Unmarshal([]byte(`{"Zeta":1,"Alpha":2,"Mid":3}`), &cities))
		assert.Equal(t, Cities{{"Zeta", 1}, {"Alpha", 2}, {"Mid", 3}}, cities)
	})

	t.Run("non numeric values read as zero", func(t *testing.T) {
		var cities Cities
		require.NoError(t, json.Unmarshal([]byte(`{"A":"heavy","B":null,"C":{"x":1}}`), &cities))
		assert.Equal(t, Cities{{"A", 0}, {"B", 0}, {"C", 0}}, cities)
	})

	t.Run("rejects non objects", func(t *testing.T) {
		var cities Cities
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &cities))
	})
}

func TestIndustryUnmarshalTruncatesCounters(t *testing.T) {
	var ind Industry
	require.NoError(t, json.Unmarshal([]byte(`{"weight":12.5,"res":3.9,"cap":2,"sil":0.25}`), &ind))

	assert.Equal(t, Industry{Weight: 12.5, Res: 3, Cap: 2, Sil: 0.25}, ind)
}

func TestDatabaseEnsureCreatesZeroRecord(t *testing.T) {
	db := Database{}
	rec := db.Ensure("2024-01-01")

	require.NotNil(t, rec)
	assert.Empty(t, rec.Cities)
	assert.NotNil(t, rec.Cities)
	assert.Equal(t, Industry{}, rec.Industry)
	assert.Same(t, rec, db.Ensure("2024-01-01"))

	payload, err := EncodeDatabase(db)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2024-01-01":{"cities":{},"industry":{"weight":0,"res":0,"cap":0,"iron":0,"mag":0,"cop":0,"sil":0}}}`, string(payload))
}

func TestDecodeDatabase(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		dates []string
	}{
		{name: "empty", raw: "", dates: []string{}},
		{name: "null", raw: "null", dates: []string{}},
		{name: "garbage", raw: "{not json", dates: []string{}},
		{name: "wrong shape", raw: `["2024-01-01"]`, dates: []string{}},
		{name: "null record dropped", raw: `{"2024-01-02":null,"2024-01-01":{"cities":{"A":1}}}`, dates: []string{"2024-01-01"}},
		{name: "sorted dates", raw: `{"2024-02-01":{},"2024-01-15":{}}`, dates: []string{"2024-01-15", "2024-02-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := DecodeDatabase([]byte(tt.raw))
			require.NotNil(t, db)
			assert.Equal(t, tt.dates, db.Dates())
		})
	}
}

func TestDecodeDatabaseRoundTripKeepsCityOrder(t *testing.T) {
	raw := `{"2024-01-01":{"cities":{"Springfield":250,"Shelbyville":120,"Ogdenville":50},"industry":{"weight":40,"res":1,"cap":2,"iron":3,"mag":4,"cop":1.5,"sil":0.5}}}`

	db := DecodeDatabase([]byte(raw))
	rec, ok := db.Record("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, []string{"Springfield", "Shelbyville", "Ogdenville"}, []string{rec.Cities[0].City, rec.Cities[1].City, rec.Cities[2].City})

	payload, err := EncodeDatabase(db)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(payload))
}
