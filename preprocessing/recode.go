package preprocessing

import (
	"strings"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// Recoder collapses raw self-reported phenotype shades onto a fixed
// reporting scale. A label with no mapping marks the sample for removal
// rather than aborting the run.
type Recoder struct {
	target  string
	levels  []string
	mapping map[string]string
}

// HairRecoder maps self-reported hair shades onto the 4-level scale
// blond / brown / red / black.
func HairRecoder() *Recoder {
	return &Recoder{
		target: "hair_colour",
		levels: []string{"blond", "brown", "red", "black"},
		mapping: map[string]string{
			"blond":            "blond",
			"blonde":           "blond",
			"light blond":      "blond",
			"light blonde":     "blond",
			"dark blond":       "blond",
			"dark blonde":      "blond",
			"fair":             "blond",
			"brown":            "brown",
			"light brown":      "brown",
			"dark brown":       "brown",
			"chestnut":         "brown",
			"red":              "red",
			"auburn":           "red",
			"ginger":           "red",
			"strawberry blond": "red",
			"black":            "black",
			"jet black":        "black",
		},
	}
}

// EyeRecoder maps self-reported eye colours onto the 3-level scale
// blue / intermediate / brown.
func EyeRecoder() *Recoder {
	return &Recoder{
		target: "eye_colour",
		levels: []string{"blue", "intermediate", "brown"},
		mapping: map[string]string{
			"blue":         "blue",
			"grey":         "blue",
			"gray":         "blue",
			"blue-grey":    "blue",
			"blue-gray":    "blue",
			"intermediate": "intermediate",
			"green":        "intermediate",
			"hazel":        "intermediate",
			"green-blue":   "intermediate",
			"brown":        "brown",
			"dark brown":   "brown",
			"black":        "brown",
		},
	}
}

// Target returns the phenotype this recoder serves.
func (r *Recoder) Target() string {
	return r.target
}

// Levels returns the reporting scale in canonical order.
func (r *Recoder) Levels() []string {
	return append([]string(nil), r.levels...)
}

// Apply recodes labels onto the reporting scale. The returned keep mask is
// false for labels with no mapping; each such label raises a
// DataConversionWarning once.
func (r *Recoder) Apply(labels []string) (recoded []string, keep []bool) {
	recoded = make([]string, len(labels))
	keep = make([]bool, len(labels))

	warned := make(map[string]bool)
	for i, raw := range labels {
		level, ok := r.mapping[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			if !warned[raw] {
				errors.Warn(errors.NewDataConversionWarning(
					"'"+raw+"'", "dropped", "no "+r.target+" mapping onto the reporting scale"))
				warned[raw] = true
			}
			continue
		}
		recoded[i] = level
		keep[i] = true
	}
	return recoded, keep
}

// Encoder returns a LabelEncoder fixed to the recoder's level order, so class
// indices follow the reporting scale rather than alphabetical order.
func (r *Recoder) Encoder() (*LabelEncoder, error) {
	return NewLabelEncoderWithClasses(r.levels)
}
