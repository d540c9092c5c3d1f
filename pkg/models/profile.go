package models

// Profile is the static descriptive content for one of the 16 type codes.
// Profiles are loaded once at startup and never mutated.
type Profile struct {
	Description string   `yaml:"description" json:"description"`
	Characters  []string `yaml:"characters" json:"characters"`
	Gifts       []string `yaml:"gifts" json:"gifts"`
	Suggestions []string `yaml:"suggestions" json:"suggestions"`
}
