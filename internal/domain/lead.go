package domain

import "time"

// Status is the emotional state a user picked from the first menu.
type Status string

const (
	StatusAnxiety Status = "anxiety"
	StatusFatigue Status = "fatigue"
	StatusTension Status = "tension"
)

// Frequency is the self-reported frequency of the chosen state.
type Frequency string

const (
	FrequencyRare   Frequency = "rare"
	FrequencyWeekly Frequency = "weekly"
	FrequencyDaily  Frequency = "daily"
)

// Step markers record the furthest completed point of the flow. They are
// diagnostic only and never drive routing.
const (
	StepStart     = "start"
	StepTechnique = "technique"
	StepFrequency = "frequency"
	StepOffer     = "offer"
	StepBooked    = "booked"
)

// Lead is a single user's accumulated profile and progress record.
type Lead struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Status    *Status
	Frequency *Frequency
	LastStep  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeadPatch carries the fields of a single upsert. Nil fields are left
// untouched in the stored record; display metadata is refreshed on every
// write.
type LeadPatch struct {
	Username  string
	FirstName string
	LastName  string
	Status    *Status
	Frequency *Frequency
	LastStep  string
}

// ParseStatus maps a callback payload onto the closed Status enum.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusAnxiety, StatusFatigue, StatusTension:
		return Status(raw), true
	}
	return "", false
}

// ParseFrequency maps a callback payload onto the closed Frequency enum.
func ParseFrequency(raw string) (Frequency, bool) {
	switch Frequency(raw) {
	case FrequencyRare, FrequencyWeekly, FrequencyDaily:
		return Frequency(raw), true
	}
	return "", false
}

// Label returns the human-readable Russian label used in menus and operator
// summaries.
func (s Status) Label() string {
	switch s {
	case StatusAnxiety:
		return "Тревога"
	case StatusFatigue:
		return "Усталость"
	case StatusTension:
		return "Напряжение"
	}
	return string(s)
}

// Label returns the human-readable Russian label used in menus and operator
// summaries.
func (f Frequency) Label() string {
	switch f {
	case FrequencyRare:
		return "Редко"
	case FrequencyWeekly:
		return "Несколько раз в неделю"
	case FrequencyDaily:
		return "Почти каждый день"
	}
	return string(f)
}
