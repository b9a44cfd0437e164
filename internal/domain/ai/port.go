package ai

import "context"

// CompletionRequest is a single-turn prompt for a text model.
type CompletionRequest struct {
	Prompt string
	// JSONObject asks the provider to constrain the reply to a JSON object.
	JSONObject bool
}

// TextModel generates text from a prompt.
type TextModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// SpeechToText turns a local audio file into text.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
