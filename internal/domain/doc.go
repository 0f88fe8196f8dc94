// Package domain models NOSDRA oil-spill incident data.
//
// # Data Source
//
// Incident records originate from the Nigerian National Oil Spill Detection
// and Response Agency (NOSDRA) public incident register, distributed as a
// pre-cleaned CSV export. Each row is one reported spill event with the
// incident date, the estimated spilled quantity in barrels, and optionally
// the reporting zonal office and a free-text location.
//
// # CSV Conventions
//
// Dates:
//
//	Primarily ISO "2006-01-02"; some exports carry a time component or
//	day-first "02/01/2006" ordering. All accepted layouts are tried in
//	order by [ParseIncident]. Rows with an unparseable date are dropped.
//
// Quantities:
//
//	Decimal barrels. Rows with a missing, non-numeric, or non-positive
//	quantity are dropped — a spill report without a positive volume carries
//	no signal for volume aggregation.
//
// Zonal offices:
//
//	The register encodes the reporting office as a two-letter code
//	(ak, by, kd, lg, ph, uy, wa). [ZoneName] resolves codes to office
//	names (Akure, Bayelsa, Kaduna, Lagos, Port Harcourt, Uyo, Warri)
//	case-insensitively; values outside the mapping pass through unchanged
//	so already-named exports keep working. The mapping is supplied by the
//	caller (configuration), not hardcoded at use sites.
//
// # Monthly Resampling
//
// [AggregateMonthly] buckets incidents by calendar month keyed on the
// month-end date and sums quantities per bucket. Every month between the
// earliest and latest incident appears in the output; months with no
// incidents carry a total volume of 0, matching a resample-then-sum over
// the full span rather than a plain group-by.
package domain
