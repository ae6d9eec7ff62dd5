package facility

import "time"

// Electrolyzer stack types.
const (
	TypePEM  = "PEM"
	TypeALK  = "ALK"
	TypeSOEC = "SOEC"
)

// Facility is one electrolyzer installation fed by a solar plant.
type Facility struct {
	ID    int64 `json:"facilityId"`
	OrgID int64 `json:"orgId"`

	Name string `json:"name"`
	Type string `json:"type"`

	// MaxPowerKW is the rated electrolyzer input power.
	MaxPowerKW float64 `json:"maxPowerKw"`

	// RegionCode ties the facility to the price map (e.g. "11" Seoul,
	// "26" Busan).
	RegionCode string `json:"regionCode"`
	Location   string `json:"location"`

	InstalledAt time.Time `json:"installedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func validType(t string) bool {
	switch t {
	case TypePEM, TypeALK, TypeSOEC:
		return true
	default:
		return false
	}
}
