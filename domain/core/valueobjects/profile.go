package valueobjects

import "encoding/json"

// Profile is the intake captured once when a session starts.
// It is never modified afterwards.
type Profile struct {
	interests    string
	academics    string
	skills       string
	previousData string
}

// NewProfile builds a profile and derives its previous-data summary.
// Empty fields are allowed and kept as-is.
func NewProfile(interests, academics, skills string) Profile {
	return Profile{
		interests:    interests,
		academics:    academics,
		skills:       skills,
		previousData: interests + ", " + academics + ", " + skills,
	}
}

// Interests returns the user's free-text interests
func (p Profile) Interests() string {
	return p.interests
}

// Academics returns the user's free-text academic background
func (p Profile) Academics() string {
	return p.academics
}

// Skills returns the user's free-text skills
func (p Profile) Skills() string {
	return p.skills
}

// PreviousData returns "<interests>, <academics>, <skills>"
func (p Profile) PreviousData() string {
	return p.previousData
}

// MarshalJSON implements json.Marshaler
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Interests    string `json:"interests"`
		Academics    string `json:"academics"`
		Skills       string `json:"skills"`
		PreviousData string `json:"previousData"`
	}{p.interests, p.academics, p.skills, p.previousData})
}
