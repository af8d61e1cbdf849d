package pipeline

import "fmt"

// Pass identifies which kind of map stage is running.
type Pass string

const (
	PassInitial   Pass = "initial"
	PassReduction Pass = "reduction"
	PassTranslate Pass = "translate"
)

const (
	// SummarizeInstruction is sent with the direct path and every first-level chunk.
	SummarizeInstruction = "Summarize this section of a longer document, focusing on the key facts."
	// ReduceInstruction is sent with chunks of already combined partial summaries.
	ReduceInstruction = "Combine and condense these partial summaries into one cohesive summary."
	// FinalInstruction is sent once the combined text fits into one window.
	FinalInstruction = "Provide one cohesive summary of these partial summaries."

	// Separator joins partial outputs in chunk order.
	Separator = "\n\n---\n\n"

	unknownLanguage = "the original language"
)

func (p Pass) instruction() string {
	if p == PassReduction {
		return ReduceInstruction
	}
	return SummarizeInstruction
}

// TranslateInstruction builds the translation instruction for one window.
func TranslateInstruction(source, target string) string {
	if source == "" {
		source = unknownLanguage
	}
	return fmt.Sprintf("Translate the following text from %s to %s. Output only the translation.", source, target)
}
