package transcripts

import (
	"net/url"
	"strings"
)

const shortLinkHost = "youtu.be"

// ExtractVideoID returns the video identifier of a youtu.be or youtube.* URL.
func ExtractVideoID(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())

	var id string
	switch {
	case host == shortLinkHost:
		id = strings.TrimPrefix(u.Path, "/")
	case strings.Contains(host, "youtube"):
		id = u.Query().Get("v")
	}
	if id == "" {
		return "", false
	}
	return id, true
}
