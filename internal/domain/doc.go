// Package domain models NOAA Space Weather Prediction Center (SWPC) telemetry.
//
// # Data Sources
//
// Four public JSON products are polled on a fixed interval, each with its own
// shape:
//
//	Planetary K index   https://services.swpc.noaa.gov/products/noaa-planetary-k-index.json
//	Solar wind plasma   https://services.swpc.noaa.gov/products/solar-wind/plasma-1-day.json
//	GOES X-ray flux     https://services.swpc.noaa.gov/json/goes/primary/xrays-6-hour.json
//	K index forecast    https://services.swpc.noaa.gov/products/noaa-planetary-k-index-forecast.json
//
// The "products" feeds are row tables whose first row is a header:
//
//	[["time_tag","Kp","a_running","station_count"],
//	 ["2024-05-10 00:00:00.000","2.33","9","8"], ...]
//
//	[["time_tag","density","speed","temperature"],
//	 ["2024-05-10 00:01:00.000","4.12","402.1","71000"], ...]
//
//	[["time_tag","kp","observed","noaa_scale"],
//	 ["2024-05-11 00:00:00","4.67","predicted",null], ...]
//
// Cells are usually numeric strings but may be JSON numbers or null. The
// GOES feed is a list of records instead:
//
//	[{"time_tag":"2024-05-10T00:00:00Z","satellite":16,"flux":1.2e-6,"energy":"0.1-0.8nm"}, ...]
//
// Only the long-wavelength channel ("0.1-0.8nm") is used for flare and radio
// blackout classification.
//
// # Time Format
//
// Row feeds carry "YYYY-MM-DD hh:mm:ss[.sss]" with no zone; these are UTC.
// The GOES feed carries RFC 3339 with a trailing "Z". [ParseTimestamp] maps
// both to the same instant.
//
// # Classification
//
// Thresholds follow the NOAA space weather scales:
//
//	Kp:    ≥6 storm | ≥4 moderate | otherwise normal
//	Flare: ≥1e-4 W/m² (X class) severe | ≥1e-5 (M class) moderate | otherwise normal
//	Radio: ≥1e-4 R3 | ≥5e-5 R2 | ≥1e-5 R1 | otherwise normal
//
// Flare and radio blackout read the same flux but use distinct bands; the M1
// boundary doubles as R1. They are kept as separate scales on purpose.
//
// # Forecast Grid
//
// Predicted forecast rows are grouped by UTC calendar day into eight 3-hour
// slots (00 through 21). Only the three earliest days are kept. Slots without
// a prediction render as [NoDataMarker], never as zero.
package domain
