package realtime

import "time"

// Tone is one step of a sound cue.
type Tone struct {
	FrequencyHz float64       `json:"frequencyHz"`
	Duration    time.Duration `json:"-"`
	DurationMs  int64         `json:"durationMs"`
}

// Sound is rendered by the dashboard with an oscillator; tones play back to back.
type Sound struct {
	Tones []Tone  `json:"tones"`
	Gain  float64 `json:"gain"`
}

func tone(hz float64, d time.Duration) Tone {
	return Tone{FrequencyHz: hz, Duration: d, DurationMs: d.Milliseconds()}
}

// NotificationChime is the two-tone cue played for new notifications.
func NotificationChime() *Sound {
	return &Sound{
		Tones: []Tone{
			tone(880, 150*time.Millisecond),
			tone(1320, 150*time.Millisecond),
		},
		Gain: 0.1,
	}
}

// TotalDuration is the length of the whole cue.
func (s *Sound) TotalDuration() time.Duration {
	if s == nil {
		return 0
	}
	var total time.Duration
	for _, t := range s.Tones {
		total += t.Duration
	}
	return total
}
