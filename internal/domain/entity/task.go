package entity

// TaskKind tells the model adapter what sort of transformation is asked for.
type TaskKind int

const (
	// TaskSummarize condenses the input. Summary presets apply.
	TaskSummarize TaskKind = iota
	// TaskTranslate renders the input in another language. Presets do not apply.
	TaskTranslate
)

// String returns the kind name used in logs and metrics.
func (k TaskKind) String() string {
	if k == TaskTranslate {
		return "translate"
	}
	return "summarize"
}

// Task is a single request to the language model primitive.
// The instruction travels next to the input, never inside it, so the input
// reaches the model exactly as the caller supplied it.
type Task struct {
	Kind        TaskKind
	Instruction string
	Input       string
}
