package transcripts

import "fmt"

// Result is the outcome of one transcript acquisition.
type Result struct {
	Title string
	Text  string
	// AudioURL is set when the speech-to-text fallback ran and the audio was archived.
	AudioURL string
}

// Segment is one timed caption line.
type Segment struct {
	Text     string
	Start    float64
	Duration float64
}

// TitleFor builds the display title used for a video; no remote title lookup is done.
func TitleFor(videoID string) string {
	return fmt.Sprintf("YouTube Video %s", videoID)
}
