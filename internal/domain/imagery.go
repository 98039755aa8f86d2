package domain

import (
	"net/url"
	"strconv"
	"time"
)

// ImageRef is an auxiliary image with a cache-busted URL.
type ImageRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Auxiliary imagery refreshed alongside each cycle.
var imagery = []ImageRef{
	{Name: "sdo_aia_193", URL: "https://sdo.gsfc.nasa.gov/assets/img/latest/latest_1024_0193.jpg"},
	{Name: "aurora_north", URL: "https://services.swpc.noaa.gov/images/aurora-forecast-northern-hemisphere.jpg"},
	{Name: "drap_global", URL: "https://services.swpc.noaa.gov/images/animations/d-rap/global/d-rap/latest.png"},
}

// Imagery returns the auxiliary image URLs with a "t" query parameter set to
// the Unix millisecond time of now so browsers refetch them.
func Imagery(now time.Time) []ImageRef {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	out := make([]ImageRef, 0, len(imagery))
	for _, img := range imagery {
		u, err := url.Parse(img.URL)
		if err != nil {
			continue
		}
		q := u.Query()
		q.Set("t", stamp)
		u.RawQuery = q.Encode()
		out = append(out, ImageRef{Name: img.Name, URL: u.String()})
	}
	return out
}
