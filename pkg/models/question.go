package models

// Axis identifies one of the four binary personality dimensions.
// The two letters are the axis poles in fixed order: positive option
// weights count toward the first letter, negative toward the second.
type Axis string

const (
	AxisEI Axis = "EI"
	AxisSN Axis = "SN"
	AxisTF Axis = "TF"
	AxisJP Axis = "JP"
)

// Axes lists the four axes in the order their resolved poles are
// concatenated into a type code.
var Axes = []Axis{AxisEI, AxisSN, AxisTF, AxisJP}

// First returns the pole letter favored by positive weights.
func (a Axis) First() string { return string(a[0]) }

// Second returns the pole letter favored by negative weights.
func (a Axis) Second() string { return string(a[1]) }

// Valid reports whether the axis is one of the four known dimensions.
func (a Axis) Valid() bool {
	switch a {
	case AxisEI, AxisSN, AxisTF, AxisJP:
		return true
	}
	return false
}

// Option is a single answer option for a question. The label is assigned
// from the option's position (A, B, C, ...) when content is loaded.
type Option struct {
	Label  string `yaml:"-" json:"label"`
	Text   string `yaml:"text" json:"text"`
	Weight int    `yaml:"weight" json:"weight"`
}

// Question is a personality test question. Every question belongs to
// exactly one axis; its option weights apply only to that axis.
type Question struct {
	ID      int      `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Axis    Axis     `yaml:"dimension" json:"dimension"`
	Options []Option `yaml:"options" json:"options"`
}

// OptionByLabel returns the option with the given letter label.
func (q Question) OptionByLabel(label string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Label == label {
			return opt, true
		}
	}
	return Option{}, false
}
