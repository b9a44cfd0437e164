package analysis

import "errors"

var (
	ErrNotFound      = errors.New("analysis not found")
	ErrArtifactParse = errors.New("model output is not a valid mind map")
)
