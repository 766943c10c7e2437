// Package analytics is the single aggregation pipeline behind every dashboard
// endpoint: a family of pure functions turning a snapshot of feedback records
// into derived statistics. Nothing here performs I/O and every aggregate is
// total over an empty snapshot.
package analytics

// Canonical department names ratings are aggregated into.
const (
	DeptTraffic     = "Traffic"
	DeptWomenSafety = "Women Safety"
	DeptNarcotics   = "Narcotic Drugs"
	DeptCyberCrime  = "Cyber Crime"
)

// Config carries the pipeline knobs that used to be inline constants spread
// across the legacy dashboard pages.
type Config struct {
	// ImprovementThreshold flags departments whose average falls below it.
	ImprovementThreshold float64
	// TrendWindowDays is the number of trailing days before today in the
	// daily trend (the emitted series has TrendWindowDays+1 points).
	TrendWindowDays int
	// MinTokenRunes is the shortest token considered by the token matching
	// tier of department-name normalization.
	MinTokenRunes int
	// Variants maps each canonical department to its known labels,
	// including localized full names, abbreviations and scripts.
	Variants map[string][]string
}

// CanonicalDepartments returns the fixed aggregation targets in display order.
func CanonicalDepartments() []string {
	return []string{DeptTraffic, DeptWomenSafety, DeptNarcotics, DeptCyberCrime}
}

// DefaultConfig mirrors the thresholds and label tables observed in citizen
// submissions: English canonical tokens plus Marathi variants.
func DefaultConfig() Config {
	return Config{
		ImprovementThreshold: 5,
		TrendWindowDays:      10,
		MinTokenRunes:        3,
		Variants: map[string][]string{
			DeptTraffic: {
				"traffic", "traffic police", "वाहतूक", "वाहतूक शाखा", "ट्रॅफिक",
			},
			DeptWomenSafety: {
				"women safety", "women", "महिला सुरक्षा", "महिला",
			},
			DeptNarcotics: {
				"narcotic drugs", "narcotics", "drugs", "अमली पदार्थ", "अंमली पदार्थ", "ड्रग्ज",
			},
			DeptCyberCrime: {
				"cyber crime", "cyber", "सायबर गुन्हे", "सायबर",
			},
		},
	}
}

// withDefaults fills zero values so a partially specified Config stays usable.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ImprovementThreshold <= 0 {
		c.ImprovementThreshold = def.ImprovementThreshold
	}
	if c.TrendWindowDays <= 0 {
		c.TrendWindowDays = def.TrendWindowDays
	}
	if c.MinTokenRunes <= 0 {
		c.MinTokenRunes = def.MinTokenRunes
	}
	if c.Variants == nil {
		c.Variants = def.Variants
	}
	return c
}
