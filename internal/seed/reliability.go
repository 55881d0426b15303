package seed

type Level struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Text  string `json:"text"`
}

var (
	LevelHigh   = Level{Name: "high", Color: "#27ae60", Text: "High reliability"}
	LevelMedium = Level{Name: "medium", Color: "#f39c12", Text: "Medium reliability"}
	LevelLow    = Level{Name: "low", Color: "#e74c3c", Text: "Low reliability"}
)

// ReliabilityLevel buckets a 0-100 score: 80 and above is high, 60 and above
// is medium.
func ReliabilityLevel(score int) Level {
	switch {
	case score >= 80:
		return LevelHigh
	case score >= 60:
		return LevelMedium
	default:
		return LevelLow
	}
}
