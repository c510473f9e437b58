package gateway

import (
	"fmt"
	"regexp"
	"strconv"
)

// tentIDPattern whitelists identifiers before they are interpolated into SQL.
// The engine API takes a single query string with no bind parameters, so
// anything outside this set is rejected outright.
var tentIDPattern = regexp.MustCompile(`^[A-Za-z0-9:_-]{1,64}$`)

// Query templates. All of them are portable between Athena (Presto SQL) and
// the local SQLite engine: timestamps are stored as integer unix seconds and
// bucketing uses CAST truncation instead of engine-specific functions.
const (
	latestSQL = `WITH ranked AS (
    SELECT tent_id, ts, temperature_c, humidity_pct, co_ppm,
           ROW_NUMBER() OVER (PARTITION BY tent_id ORDER BY ts DESC) AS rn
    FROM %[1]s
    %[2]s
)
SELECT tent_id, ts, temperature_c, humidity_pct, co_ppm
FROM ranked
WHERE rn <= %[3]d
ORDER BY ts DESC, tent_id`

	avgMetricsSQL = `SELECT tent_id,
       AVG(temperature_c) AS avg_temp,
       AVG(humidity_pct) AS avg_humidity,
       AVG(co_ppm) AS avg_co
FROM %[1]s
%[2]s
GROUP BY tent_id
ORDER BY tent_id`

	maxMetricsSQL = `SELECT tent_id,
       MAX(temperature_c) AS max_temp,
       MAX(humidity_pct) AS max_humidity,
       MAX(co_ppm) AS max_co
FROM %[1]s
%[2]s
GROUP BY tent_id
ORDER BY tent_id`

	humidityCOSQL = `SELECT humidity_pct, AVG(co_ppm) AS co_ppm
FROM %[1]s
%[2]s
GROUP BY humidity_pct
ORDER BY humidity_pct`

	// CAST truncates toward zero, which matches floor-division only because
	// temperature_c is non-negative for this fleet.
	tempDistSQL = `SELECT CAST(temperature_c / %[3]s AS INTEGER) AS bucket, COUNT(*) AS count
FROM %[1]s
%[2]s
GROUP BY 1
ORDER BY 1`

	alertCountsSQL = `SELECT tent_id,
       SUM(CASE WHEN co_ppm >= %[2]s THEN 1 ELSE 0 END) AS alerts
FROM %[1]s
GROUP BY tent_id
ORDER BY tent_id`

	coTrendSQL = `SELECT ts, co_ppm
FROM %[1]s
%[2]s
ORDER BY ts`
)

// tentFilter renders the optional WHERE clause for a tent id. An empty id
// means no filter; a malformed id is an invalid-parameter error.
func tentFilter(tentID string) (string, error) {
	if tentID == "" {
		return "", nil
	}
	if !tentIDPattern.MatchString(tentID) {
		return "", fmt.Errorf("%w: tent_id %q", ErrInvalidParameter, tentID)
	}
	return fmt.Sprintf("WHERE tent_id = '%s'", tentID), nil
}

// sqlFloat renders a float literal for interpolation.
func sqlFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
