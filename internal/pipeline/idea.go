package pipeline

// MethodID names a creativity method.
type MethodID string

const (
	Disney        MethodID = "disney"
	Brainstorming MethodID = "brainstorming"
	Scamper       MethodID = "scamper"
	SixHats       MethodID = "sixHats"
	MindMapping   MethodID = "mindMapping"
)

const (
	// DefaultScore is used when no authoritative score exists for an idea.
	DefaultScore = 5
	// TopN is the maximum number of ideas a generation returns.
	TopN = 3
)

// GeneratedIdea is one ranked, annotated result. Note slots are nil when the
// method produced nothing for them.
type GeneratedIdea struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       int     `json:"score"`
	NoteA       *string `json:"note_a,omitempty"`
	NoteB       *string `json:"note_b,omitempty"`
	NoteC       *string `json:"note_c,omitempty"`
}

// Notes returns the three note slots in order.
func (g GeneratedIdea) Notes() [3]*string {
	return [3]*string{g.NoteA, g.NoteB, g.NoteC}
}
