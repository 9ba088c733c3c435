package tones

// DefaultToneID is used when parsing yields no usable tone
const DefaultToneID = "Professional - Boss"

// Tone is a named communication style with optional prompt guidance
type Tone struct {
	ID           string `json:"id" yaml:"id"`
	Label        string `json:"label" yaml:"label"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// AllTones returns the built-in tone definitions.
// Hierarchical professional tones come first, the rest are alphabetical.
func AllTones() []Tone {
	return []Tone{
		{
			ID:           "Professional - C-Suite",
			Label:        "Professional - C-Suite",
			Instructions: "Be extremely concise, authoritative, and focus on strategic implications or key outcomes. Avoid operational jargon. Assume a high-level understanding.",
		},
		{
			ID:           "Professional - Director",
			Label:        "Professional - Director",
			Instructions: "Balance detail with clarity. Focus on actionable items, responsibilities, and clear next steps. Maintain a collaborative but decisive tone.",
		},
		{
			ID:           "Professional - Boss",
			Label:        "Professional - Boss",
			Instructions: "Be respectful, succinct, and task-focused. Clearly state the situation, proposed actions, and any required decisions or support. Structure the information logically.",
		},
		{
			ID:           "Professional - Peer Group",
			Label:        "Professional - Peer Group",
			Instructions: "Adopt a collaborative and collegial tone. Be open to discussion and mutual problem-solving. Focus on shared goals.",
		},
		{
			ID:           "Professional - Subordinates",
			Label:        "Professional - Subordinates",
			Instructions: "Be approachable, clear, and motivating. Provide necessary context and explicit instructions. Offer support and encourage questions.",
		},
		{
			ID:           "Professional - Interns",
			Label:        "Professional - Interns",
			Instructions: "Be supportive, encouraging, and explanatory. Clearly define tasks and context using simpler language. Check for understanding and offer guidance.",
		},
		{ID: "Casual", Label: "Casual"},
		{ID: "Confident", Label: "Confident"},
		{ID: "Direct", Label: "Direct"},
		{ID: "Empathetic", Label: "Empathetic"},
		{ID: "Enthusiastic", Label: "Enthusiastic"},
		{ID: "Formal", Label: "Formal"},
		{ID: "Friendly", Label: "Friendly"},
		{ID: "Humorous", Label: "Humorous"},
		{ID: "Informative", Label: "Informative"},
		{ID: "Inquisitive", Label: "Inquisitive"},
		{ID: "Motivational", Label: "Motivational"},
		{ID: "Neutral", Label: "Neutral"},
		{ID: "Persuasive", Label: "Persuasive"},
		{ID: "Respectful", Label: "Respectful"},
		{ID: "Supportive", Label: "Supportive"},
		{ID: "Urgent", Label: "Urgent"},
	}
}
