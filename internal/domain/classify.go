package domain

import (
	"fmt"
	"math"
	"slices"
)

// Channel names a classified quantity.
type Channel string

const (
	ChannelGeomagnetic   Channel = "geomagnetic"
	ChannelFlare         Channel = "flare"
	ChannelRadioBlackout Channel = "radio_blackout"
	ChannelForecast      Channel = "forecast"
)

// Tier is one severity step of a channel. Tiers of the same channel are
// totally ordered by Level.
type Tier struct {
	Channel     Channel `json:"channel"`
	Level       int     `json:"level"`
	Name        string  `json:"name"`
	Label       string  `json:"label"`
	Class       string  `json:"class"`
	Description string  `json:"description,omitempty"`
}

// AtLeast reports whether t is as severe as o.
func (t Tier) AtLeast(o Tier) bool { return t.Level >= o.Level }

// Geomagnetic tiers (Kp).
var (
	GeomagneticNormal   = Tier{Channel: ChannelGeomagnetic, Level: 0, Name: "NORMAL", Label: "NORMAL", Class: "risk-low"}
	GeomagneticModerate = Tier{Channel: ChannelGeomagnetic, Level: 1, Name: "MODERATE", Label: "MODERATE", Class: "risk-moderate"}
	GeomagneticStorm    = Tier{Channel: ChannelGeomagnetic, Level: 2, Name: "STORM", Label: "STORM WARNING", Class: "risk-high"}
)

// Flare tiers (long-band X-ray flux). FlareMinor has no band on the flare
// scale; it exists so the tier order matches the NOAA enumeration.
var (
	FlareNormal   = Tier{Channel: ChannelFlare, Level: 0, Name: "NORMAL", Label: "SYSTEM ONLINE"}
	FlareMinor    = Tier{Channel: ChannelFlare, Level: 1, Name: "MINOR", Label: "C-CLASS ACTIVITY"}
	FlareModerate = Tier{Channel: ChannelFlare, Level: 2, Name: "MODERATE", Label: "ALERT: M-CLASS FLARE DETECTED", Class: "alert-mode-moderate"}
	FlareSevere   = Tier{Channel: ChannelFlare, Level: 3, Name: "SEVERE", Label: "WARNING: X-CLASS FLARE IN PROGRESS", Class: "alert-mode-critical"}
)

// Radio blackout tiers (same flux, NOAA R scale).
var (
	RadioNormal = Tier{Channel: ChannelRadioBlackout, Level: 0, Name: "NORMAL", Label: "NORMAL", Class: "safe", Description: "No Blackouts Detected"}
	RadioR1     = Tier{Channel: ChannelRadioBlackout, Level: 1, Name: "R1", Label: "MINOR (R1)", Class: "minor", Description: "Weak or minor degradation"}
	RadioR2     = Tier{Channel: ChannelRadioBlackout, Level: 2, Name: "R2", Label: "MODERATE (R2)", Class: "warning", Description: "Limited blackout on sunlit side"}
	RadioR3     = Tier{Channel: ChannelRadioBlackout, Level: 3, Name: "R3", Label: "SEVERE (R3)", Class: "alert", Description: "Wide area HF blackout likely"}
)

// Forecast cell tiers (predicted Kp).
var (
	ForecastLow      = Tier{Channel: ChannelForecast, Level: 0, Name: "LOW", Label: "LOW", Class: "kp-low"}
	ForecastModerate = Tier{Channel: ChannelForecast, Level: 1, Name: "MODERATE", Label: "MODERATE", Class: "kp-mod"}
	ForecastHigh     = Tier{Channel: ChannelForecast, Level: 2, Name: "HIGH", Label: "HIGH", Class: "kp-high"}
)

// Band maps values at or above Min to Tier.
type Band struct {
	Min  float64
	Tier Tier
}

// Scale is an ordered threshold table. Bands are scanned from the highest
// lower bound down and the first match wins; values below every band map to
// the floor tier.
type Scale struct {
	floor Tier
	bands []Band
}

// NewScale builds a Scale from bands given in any order.
func NewScale(floor Tier, bands ...Band) Scale {
	sorted := slices.Clone(bands)
	slices.SortFunc(sorted, func(a, b Band) int {
		switch {
		case a.Min > b.Min:
			return -1
		case a.Min < b.Min:
			return 1
		}
		return 0
	})
	return Scale{floor: floor, bands: sorted}
}

// Classify returns the tier for v. NaN maps to the floor tier.
func (s Scale) Classify(v float64) Tier {
	for _, b := range s.bands {
		if v >= b.Min {
			return b.Tier
		}
	}
	return s.floor
}

var (
	geomagneticScale = NewScale(GeomagneticNormal,
		Band{Min: 6, Tier: GeomagneticStorm},
		Band{Min: 4, Tier: GeomagneticModerate},
	)
	flareScale = NewScale(FlareNormal,
		Band{Min: 1e-4, Tier: FlareSevere},
		Band{Min: 1e-5, Tier: FlareModerate},
	)
	radioBlackoutScale = NewScale(RadioNormal,
		Band{Min: 1e-4, Tier: RadioR3},
		Band{Min: 5e-5, Tier: RadioR2},
		Band{Min: 1e-5, Tier: RadioR1},
	)
	forecastScale = NewScale(ForecastLow,
		Band{Min: 5, Tier: ForecastHigh},
		Band{Min: 4, Tier: ForecastModerate},
	)
)

// ClassifyGeomagnetic maps a Kp value to its storm risk tier.
func ClassifyGeomagnetic(kp float64) Tier { return geomagneticScale.Classify(kp) }

// ClassifyFlare maps a long-band X-ray flux (W/m²) to its flare tier.
func ClassifyFlare(flux float64) Tier { return flareScale.Classify(flux) }

// ClassifyRadioBlackout maps a long-band X-ray flux (W/m²) to its R-scale tier.
func ClassifyRadioBlackout(flux float64) Tier { return radioBlackoutScale.Classify(flux) }

// ClassifyForecastKp maps a predicted Kp to a forecast cell tier.
func ClassifyForecastKp(kp float64) Tier { return forecastScale.Classify(kp) }

// flareClasses are the GOES letter classes with their lower bounds, highest first.
var flareClasses = []struct {
	letter string
	base   float64
}{
	{"X", 1e-4},
	{"M", 1e-5},
	{"C", 1e-6},
	{"B", 1e-7},
	{"A", 1e-8},
}

// FlareClass returns the GOES designation for a flux, e.g. "M2.3". Flux below
// the A class floor is reported against A; non-positive flux returns "".
func FlareClass(flux float64) string {
	if !(flux > 0) || math.IsInf(flux, 0) {
		return ""
	}
	for _, c := range flareClasses {
		if flux >= c.base {
			return fmt.Sprintf("%s%.1f", c.letter, flux/c.base)
		}
	}
	last := flareClasses[len(flareClasses)-1]
	return fmt.Sprintf("%s%.1f", last.letter, flux/last.base)
}
