package docqa

// Mode selects a preset question for the quick actions offered by the UI.
type Mode string

const (
	ModeChat          Mode = "chat"
	ModeSummary       Mode = "summary"
	ModeKeyInsights   Mode = "key_insights"
	ModeExplainLike10 Mode = "explain_like_10"
	ModeActionItems   Mode = "action_items"
)

var presetQuestions = map[Mode]string{
	ModeSummary:       "Give me a clear structured summary of this document.",
	ModeKeyInsights:   "Give me the key insights of this document.",
	ModeExplainLike10: "Explain the main ideas of this document like I am 10 years old.",
	ModeActionItems:   "Extract actionable items and next steps from this document.",
}

// Valid reports whether m is a known mode. The empty mode means chat.
func (m Mode) Valid() bool {
	if m == "" || m == ModeChat {
		return true
	}
	_, ok := presetQuestions[m]
	return ok
}

// PresetQuestion is the question used when a quick action is sent without text.
func (m Mode) PresetQuestion() string {
	return presetQuestions[m]
}
