package domain

// SlotView is one render slot as seen by APIs.
// No transport or lifecycle logic here.
type SlotView struct {
	Index       int           `json:"index"`
	Occupied    bool          `json:"occupied"`
	Participant ParticipantID `json:"participant,omitempty"`
	Muted       bool          `json:"muted"`
}
