package prompt

// Instruction prefixes for each study artifact. Transcript text is appended after them.
const (
	SummaryInstruction    = "Summarize the following lecture transcript into a clear, structured summary (150-250 words):\n"
	KeyPointsInstruction  = "List 8-12 exam-focused key points from this transcript as bullet items:"
	MindMapInstruction    = "Create a JSON mind map with 'topic', and 'children' where each child has 'title' and optional 'children'. Focus on 5-8 main branches."
	StudyNotesInstruction = "Turn this transcript into study notes with headings, bullets, definitions, and examples. Keep it concise but comprehensive."
)

// Summary builds the prompt for one transcript chunk.
func Summary(chunk string) string {
	return SummaryInstruction + chunk
}

func KeyPoints(text string) string {
	return KeyPointsInstruction + "\n" + text
}

func MindMap(text string) string {
	return MindMapInstruction + "\n" + text
}

func StudyNotes(text string) string {
	return StudyNotesInstruction + "\n" + text
}
