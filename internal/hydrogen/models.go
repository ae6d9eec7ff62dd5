package hydrogen

import "time"

// ProductionRecord is one hourly sample from a facility's electrolyzer.
type ProductionRecord struct {
	FacilityID int64     `json:"facilityId"`
	RecordedAt time.Time `json:"recordedAt"`

	// KgProduced is the hydrogen output over the sample hour.
	KgProduced float64 `json:"kgProduced"`

	// PowerKW is the average electrolyzer input power over the hour.
	// Zero means the stack sat idle.
	PowerKW float64 `json:"powerKw"`
}

// BucketTotal is a production aggregate over one time bucket
// (hour, day, ISO week or month depending on the query).
type BucketTotal struct {
	Period     string  `json:"period"`
	KgProduced float64 `json:"kgProduced"`
	AvgPowerKW float64 `json:"avgPowerKw"`
	Samples    int     `json:"samples"`
}

// Summary is the dashboard KPI card payload.
type Summary struct {
	FacilityID int64 `json:"facilityId"`

	TotalKg      float64 `json:"totalKg"`
	AvgKgPerHour float64 `json:"avgKgPerHour"`
	PeakPowerKW  float64 `json:"peakPowerKw"`

	// IdleHours counts samples where the stack drew no power.
	IdleHours int `json:"idleHours"`
}
