package transcripts

import "context"

// CaptionSource fetches native captions. Implementations return ErrCaptionsDisabled
// when the video has captions turned off.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, videoID, language string) ([]Segment, error)
}

// AudioDownloader saves the best available audio track into dir and returns the file path.
type AudioDownloader interface {
	Download(ctx context.Context, videoURL, dir string) (string, error)
}

// AudioArchive keeps a copy of downloaded audio and removes the local file.
type AudioArchive interface {
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}
