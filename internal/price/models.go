package price

import "time"

// RegionPrice is one hydrogen retail price observation for a Korean
// administrative region. The dashboard choropleth renders the latest
// observation per region.
type RegionPrice struct {
	RegionCode string `json:"regionCode"`
	RegionName string `json:"regionName"`

	PriceKRWPerKg float64 `json:"priceKrwPerKg"`

	// EffectiveDate is the day the observation applies to, truncated
	// to midnight UTC.
	EffectiveDate time.Time `json:"effectiveDate"`
}
