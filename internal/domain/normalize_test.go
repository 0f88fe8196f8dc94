package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncident(t *testing.T) {
	zoneNames := DefaultZoneNames()

	t.Run("valid ISO row", func(t *testing.T) {
		rec := RawIncidentRecord{
			IncidentDate:      "2021-03-14",
			EstimatedQuantity: "120.5",
			ZonalOffice:       "ph",
			Location:          "Bodo West",
		}
		incident, ok := ParseIncident(rec, zoneNames)

		require.True(t, ok)
		assert.Equal(t, time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC), incident.Date)
		assert.Equal(t, 120.5, incident.EstimatedQuantity)
		assert.Equal(t, "Port Harcourt", incident.Zone)
	})

	t.Run("datetime layout", func(t *testing.T) {
		rec := RawIncidentRecord{IncidentDate: "2021-03-14 09:30:00", EstimatedQuantity: "1"}
		incident, ok := ParseIncident(rec, zoneNames)

		require.True(t, ok)
		assert.Equal(t, 2021, incident.Date.Year())
		assert.Equal(t, time.March, incident.Date.Month())
		assert.Equal(t, 14, incident.Date.Day())
	})

	t.Run("day-first layout", func(t *testing.T) {
		rec := RawIncidentRecord{IncidentDate: "25/12/2020", EstimatedQuantity: "40"}
		incident, ok := ParseIncident(rec, zoneNames)

		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC), incident.Date)
	})

	t.Run("uppercase zone code", func(t *testing.T) {
		rec := RawIncidentRecord{IncidentDate: "2021-01-01", EstimatedQuantity: "10", ZonalOffice: "PH"}
		incident, ok := ParseIncident(rec, zoneNames)

		require.True(t, ok)
		assert.Equal(t, "Port Harcourt", incident.Zone)
	})

	t.Run("unmapped zone passes through", func(t *testing.T) {
		rec := RawIncidentRecord{IncidentDate: "2021-01-01", EstimatedQuantity: "10", ZonalOffice: "Abuja Field Office"}
		incident, ok := ParseIncident(rec, zoneNames)

		require.True(t, ok)
		assert.Equal(t, "Abuja Field Office", incident.Zone)
	})

	dropped := []struct {
		name string
		rec  RawIncidentRecord
	}{
		{"missing date", RawIncidentRecord{EstimatedQuantity: "10"}},
		{"unparseable date", RawIncidentRecord{IncidentDate: "not-a-date", EstimatedQuantity: "10"}},
		{"missing quantity", RawIncidentRecord{IncidentDate: "2021-01-01"}},
		{"non-numeric quantity", RawIncidentRecord{IncidentDate: "2021-01-01", EstimatedQuantity: "lots"}},
		{"zero quantity", RawIncidentRecord{IncidentDate: "2021-01-01", EstimatedQuantity: "0"}},
		{"negative quantity", RawIncidentRecord{IncidentDate: "2021-01-01", EstimatedQuantity: "-5"}},
		{"non-finite quantity", RawIncidentRecord{IncidentDate: "2021-01-01", EstimatedQuantity: "NaN"}},
	}
	for _, tt := range dropped {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseIncident(tt.rec, zoneNames)
			assert.False(t, ok)
		})
	}
}

func TestZoneName(t *testing.T) {
	zoneNames := DefaultZoneNames()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"lowercase code", "by", "Bayelsa"},
		{"uppercase code", "WA", "Warri"},
		{"padded code", " uy ", "Uyo"},
		{"already named", "Lagos", "Lagos"},
		{"unknown value", "zz", "zz"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ZoneName(tt.raw, zoneNames))
		})
	}
}

func TestFilterByZones(t *testing.T) {
	incidents := []Incident{
		{Date: time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC), EstimatedQuantity: 100, Zone: "Lagos"},
		{Date: time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC), EstimatedQuantity: 50, Zone: "Bayelsa"},
		{Date: time.Date(2021, 2, 2, 0, 0, 0, 0, time.UTC), EstimatedQuantity: 75, Zone: "Lagos"},
	}

	t.Run("nil selection keeps all", func(t *testing.T) {
		assert.Len(t, FilterByZones(incidents, nil), 3)
	})

	t.Run("empty selection keeps all", func(t *testing.T) {
		assert.Len(t, FilterByZones(incidents, []string{}), 3)
	})

	t.Run("single zone", func(t *testing.T) {
		filtered := FilterByZones(incidents, []string{"Lagos"})
		require.Len(t, filtered, 2)
		for _, inc := range filtered {
			assert.Equal(t, "Lagos", inc.Zone)
		}
	})

	t.Run("unknown zone yields empty", func(t *testing.T) {
		assert.Empty(t, FilterByZones(incidents, []string{"Kaduna"}))
	})
}

func TestZones(t *testing.T) {
	incidents := []Incident{
		{Zone: "Warri"},
		{Zone: "Akure"},
		{Zone: "Warri"},
		{Zone: ""},
	}
	assert.Equal(t, []string{"Akure", "Warri"}, Zones(incidents))
}
