package youtube

import (
	"encoding/xml"
	"errors"
	"html"
	"regexp"
	"strconv"
	"strings"

	domain "github.com/bryanwahyu/videoai/internal/domain/transcripts"
)

var (
	tagPattern   = regexp.MustCompile(`(?i)<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// legacy format: <transcript><text start="1.2" dur="3.4">...</text></transcript>
type legacyTranscript struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Inner string `xml:",innerxml"`
	} `xml:"text"`
}

// srv3 format: <timedtext><body><p t="1200" d="3400">...</p></body></timedtext>, times in ms.
type srv3Transcript struct {
	XMLName xml.Name `xml:"timedtext"`
	Body    struct {
		Paragraphs []struct {
			T     int64  `xml:"t,attr"`
			D     int64  `xml:"d,attr"`
			Inner string `xml:",innerxml"`
		} `xml:"p"`
	} `xml:"body"`
}

// ParseTimedText decodes a caption track in either the legacy or the srv3 format.
func ParseTimedText(body []byte) ([]domain.Segment, error) {
	var legacy legacyTranscript
	if err := xml.Unmarshal(body, &legacy); err == nil {
		segs := make([]domain.Segment, 0, len(legacy.Texts))
		for _, t := range legacy.Texts {
			start, _ := strconv.ParseFloat(t.Start, 64)
			dur, _ := strconv.ParseFloat(t.Dur, 64)
			segs = append(segs, domain.Segment{Text: cleanCaption(t.Inner), Start: start, Duration: dur})
		}
		return segs, nil
	}

	var srv3 srv3Transcript
	if err := xml.Unmarshal(body, &srv3); err == nil {
		segs := make([]domain.Segment, 0, len(srv3.Body.Paragraphs))
		for _, p := range srv3.Body.Paragraphs {
			segs = append(segs, domain.Segment{
				Text:     cleanCaption(p.Inner),
				Start:    float64(p.T) / 1000,
				Duration: float64(p.D) / 1000,
			})
		}
		return segs, nil
	}

	return nil, errors.New("unrecognized caption track format")
}

// cleanCaption drops markup and decodes entities; the legacy format double-escapes text.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
