package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawIncidentRecord is one row of the cleaned NOSDRA CSV before coercion.
// Optional columns (ZonalOffice, Location) are empty when the export lacks
// them; column presence is resolved once by the loader, not re-checked here.
type RawIncidentRecord struct {
	IncidentDate      string
	EstimatedQuantity string
	ZonalOffice       string
	Location          string
}

// defaultZoneNames maps NOSDRA zonal office codes to office names.
var defaultZoneNames = map[string]string{
	"ak": "Akure",
	"by": "Bayelsa",
	"kd": "Kaduna",
	"lg": "Lagos",
	"ph": "Port Harcourt",
	"uy": "Uyo",
	"wa": "Warri",
}

// DefaultZoneNames returns a copy of the built-in zonal-office mapping,
// suitable as the configuration default.
func DefaultZoneNames() map[string]string {
	names := make(map[string]string, len(defaultZoneNames))
	for code, name := range defaultZoneNames {
		names[code] = name
	}
	return names
}

// dateLayouts are tried in order when coercing the incident date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// ParseIncident coerces a raw record into an Incident using the given
// zonal-office mapping. It reports false for rows the register treats as
// invalid: a missing or unparseable date, or a quantity that is missing,
// non-numeric, non-finite, or not strictly positive.
func ParseIncident(rec RawIncidentRecord, zoneNames map[string]string) (Incident, bool) {
	date, ok := parseDate(rec.IncidentDate)
	if !ok {
		return Incident{}, false
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(rec.EstimatedQuantity), 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return Incident{}, false
	}

	return Incident{
		Date:              date,
		EstimatedQuantity: qty,
		Zone:              ZoneName(rec.ZonalOffice, zoneNames),
	}, true
}

// ZoneName resolves a raw zonal-office value against the mapping. Codes match
// case-insensitively; values outside the mapping pass through unchanged.
func ZoneName(raw string, zoneNames map[string]string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if name, ok := zoneNames[strings.ToLower(trimmed)]; ok {
		return name
	}
	return trimmed
}

// FilterByZones restricts incidents to the given zone labels.
// A nil or empty selection keeps every incident.
func FilterByZones(incidents []Incident, zones []string) []Incident {
	if len(zones) == 0 {
		return incidents
	}

	keep := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		keep[z] = struct{}{}
	}

	filtered := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if _, ok := keep[inc.Zone]; ok {
			filtered = append(filtered, inc)
		}
	}
	return filtered
}

// Zones returns the distinct non-empty zone labels present, sorted.
func Zones(incidents []Incident) []string {
	seen := make(map[string]struct{})
	for _, inc := range incidents {
		if inc.Zone != "" {
			seen[inc.Zone] = struct{}{}
		}
	}

	zones := make([]string, 0, len(seen))
	for z := range seen {
		zones = append(zones, z)
	}
	sort.Strings(zones)
	return zones
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
