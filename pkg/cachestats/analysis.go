package cachestats

// Analysis is the derived performance verdict for a Metrics snapshot.
type Analysis struct {
	PerformanceLevel string   `json:"performance_level,omitempty"`
	Status           string   `json:"status,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// Verdict tiers. Bounds are inclusive on the lower end: a hit ratio of
// exactly 0.90 is Excellent, not Good.
const (
	LevelExcellent = "Excellent"
	LevelGood      = "Good"
	LevelFair      = "Fair"
	LevelPoor      = "Poor"
)

// Analyze maps a Metrics snapshot to a verdict with advisory messages.
// It is a pure function: no I/O, and identical input always yields
// identical output. An error-marked input yields an error-only result.
func Analyze(m *Metrics) *Analysis {
	if m == nil || m.Error != "" {
		return &Analysis{Error: "no metrics available"}
	}

	a := &Analysis{Recommendations: []string{}}

	switch {
	case m.HitRatio >= 0.9:
		a.PerformanceLevel = LevelExcellent
		a.Status = "success"
		a.Recommendations = append(a.Recommendations,
			"Cache is performing very well. Consider increasing cache TTL for frequently accessed data.")
	case m.HitRatio >= 0.7:
		a.PerformanceLevel = LevelGood
		a.Status = "info"
		a.Recommendations = append(a.Recommendations,
			"Cache performance is good. Monitor for any degradation.")
	case m.HitRatio >= 0.5:
		a.PerformanceLevel = LevelFair
		a.Status = "warning"
		a.Recommendations = append(a.Recommendations,
			"Consider optimizing cache keys or increasing TTL for better performance.")
	default:
		a.PerformanceLevel = LevelPoor
		a.Status = "error"
		a.Recommendations = append(a.Recommendations,
			"Cache hit ratio is low. Review caching strategy and data access patterns.")
	}

	if m.TotalOperations < 100 {
		a.Recommendations = append(a.Recommendations,
			"Low cache usage. Consider if more data should be cached.")
	}

	if m.CachedKeysCount == 0 {
		a.Recommendations = append(a.Recommendations,
			"No cached keys found. Verify cache is being used properly.")
	} else if m.CachedKeysCount > 1000 {
		a.Recommendations = append(a.Recommendations,
			"Large number of cached keys. Consider implementing cache key expiration policies.")
	}

	return a
}
