package models

// TelemetryReading is one sensor sample as stored in structured storage.
// Readings are immutable: the backend only ever reads them back.
type TelemetryReading struct {
	TentID       string  `json:"tent_id"`
	Timestamp    int64   `json:"ts"` // unix seconds, UTC
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	COPpm        float64 `json:"co_ppm"`
}

// TentAverages holds per-tent averages over all stored readings.
type TentAverages struct {
	TentID      string  `json:"tent_id"`
	AvgTemp     float64 `json:"avg_temp"`
	AvgHumidity float64 `json:"avg_humidity"`
	AvgCO       float64 `json:"avg_co"`
}

// TentMaxima holds per-tent maxima over all stored readings.
type TentMaxima struct {
	TentID      string  `json:"tent_id"`
	MaxTemp     float64 `json:"max_temp"`
	MaxHumidity float64 `json:"max_humidity"`
	MaxCO       float64 `json:"max_co"`
}

// HumidityCOPoint is one scatter-plot point: average CO at a humidity level.
type HumidityCOPoint struct {
	HumidityPct float64 `json:"humidity_pct"`
	COPpm       float64 `json:"co_ppm"`
}

// TempBucket is one histogram bucket of the temperature distribution.
// The bucket covers [RangeLow, RangeHigh).
type TempBucket struct {
	RangeLow  float64 `json:"range_low"`
	RangeHigh float64 `json:"range_high"`
	Count     int64   `json:"count"`
}

// COTrendPoint is one point of the CO-over-time series.
type COTrendPoint struct {
	Timestamp int64   `json:"ts"`
	COPpm     float64 `json:"co_ppm"`
}
