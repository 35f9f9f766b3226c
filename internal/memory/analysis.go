package memory

// QueryAnalysis is the structured verdict of the query understanding step
// for a single user turn.
type QueryAnalysis struct {
	OriginalQuery           string   `json:"original_query"`
	IsAmbiguous             bool     `json:"is_ambiguous"`
	RewrittenQuery          string   `json:"rewritten_query,omitempty"`
	NeededContextFromMemory []string `json:"needed_context_from_memory"`
	ClarifyingQuestions     []string `json:"clarifying_questions,omitempty"`
	FinalAugmentedContext   string   `json:"final_augmented_context,omitempty"`
}

// SanitizeNeededContext removes section names that are not real summary
// sections and returns the dropped ones so the caller can log them. Models
// occasionally invent field names; a bad name must never poison the turn.
func (a *QueryAnalysis) SanitizeNeededContext() []string {
	if len(a.NeededContextFromMemory) == 0 {
		return nil
	}
	kept := a.NeededContextFromMemory[:0]
	var dropped []string
	for _, f := range a.NeededContextFromMemory {
		if _, ok := validSummaryFields[f]; ok {
			kept = append(kept, f)
		} else {
			dropped = append(dropped, f)
		}
	}
	a.NeededContextFromMemory = kept
	return dropped
}

// Normalize enforces the cross-field rule: an unambiguous analysis carries
// no clarifying questions.
func (a *QueryAnalysis) Normalize() {
	if !a.IsAmbiguous {
		a.ClarifyingQuestions = nil
	}
}

// Clone returns a copy with its own slices.
func (a QueryAnalysis) Clone() QueryAnalysis {
	a.NeededContextFromMemory = append([]string(nil), a.NeededContextFromMemory...)
	a.ClarifyingQuestions = append([]string(nil), a.ClarifyingQuestions...)
	return a
}
