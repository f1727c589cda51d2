package domain

// Course is a catalogue entry managed by HODs and superusers.
type Course struct {
	ID          int64
	Name        string
	Code        string
	Description *string
}
