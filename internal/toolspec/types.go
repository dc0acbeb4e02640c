package toolspec

// ToolSpec is the structured proposal returned by the generative service.
type ToolSpec struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PlaceholderUI string `json:"placeholder_ui"`
	BehaviorNotes string `json:"behavior_notes"`
}

// Elements are the DOM ids every generated page exposes and every
// generated script binds to.
type Elements struct {
	Input  string
	Run    string
	Copy   string
	Output string
}

// DefaultElements is the fixed id set shared by the page template and the
// script generation prompt.
var DefaultElements = Elements{
	Input:  "tool-input",
	Run:    "tool-run",
	Copy:   "tool-copy",
	Output: "tool-output",
}
