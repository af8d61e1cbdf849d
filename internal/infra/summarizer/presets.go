package summarizer

import (
	"fmt"
	"strings"

	"quickmind/internal/domain/entity"
)

var lengthGuidance = map[SummaryType]map[SummaryLength]string{
	TypeKeyPoints: {LengthShort: "at most 3 bullet points", LengthMedium: "at most 5 bullet points", LengthLong: "at most 7 bullet points"},
	TypeTLDR:      {LengthShort: "one sentence", LengthMedium: "at most 3 sentences", LengthLong: "at most 5 sentences"},
	TypeTeaser:    {LengthShort: "one sentence", LengthMedium: "at most 3 sentences", LengthLong: "at most 5 sentences"},
	TypeHeadline:  {LengthShort: "at most 12 words", LengthMedium: "at most 17 words", LengthLong: "at most 22 words"},
}

var typeGuidance = map[SummaryType]string{
	TypeKeyPoints: "Present the most important points as a list",
	TypeTLDR:      "Give a short, to-the-point overview",
	TypeTeaser:    "Write an engaging teaser that draws the reader into the full text",
	TypeHeadline:  "Respond with a single headline that captures the main point",
}

// systemPrompt builds the system prompt for a task.
// Summary presets only shape summarization; translation instructions pass through.
func systemPrompt(task entity.Task, preset Preset) string {
	if task.Kind == entity.TaskTranslate {
		return task.Instruction
	}

	var b strings.Builder
	b.WriteString(task.Instruction)
	fmt.Fprintf(&b, " %s, using %s.", typeGuidance[preset.Type], lengthGuidance[preset.Type][preset.Length])
	if preset.Format == FormatPlainText {
		b.WriteString(" Use plain text without any Markdown.")
	} else {
		b.WriteString(" Use Markdown formatting.")
	}
	b.WriteString(" Reply in the language of the text.")
	return b.String()
}
