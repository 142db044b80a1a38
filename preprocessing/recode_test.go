package preprocessing

import (
	"testing"

	scierr "github.com/phenosnp/phenosnp/pkg/errors"
)

func TestHairRecoder(t *testing.T) {
	r := HairRecoder()

	if got := r.Target(); got != "hair_colour" {
		t.Errorf("Target() = %q", got)
	}

	labels := []string{"Dark Brown", "auburn", "blonde", "jet black", "purple"}
	recoded, keep := r.Apply(labels)

	want := []struct {
		level string
		keep  bool
	}{
		{"brown", true},
		{"red", true},
		{"blond", true},
		{"black", true},
		{"", false},
	}
	for i, w := range want {
		if keep[i] != w.keep {
			t.Errorf("keep[%d] = %v, want %v", i, keep[i], w.keep)
		}
		if recoded[i] != w.level {
			t.Errorf("recoded[%d] = %q, want %q", i, recoded[i], w.level)
		}
	}
}

func TestEyeRecoder(t *testing.T) {
	r := EyeRecoder()

	labels := []string{"grey", "hazel", "BROWN", "green"}
	recoded, keep := r.Apply(labels)

	want := []string{"blue", "intermediate", "brown", "intermediate"}
	for i, w := range want {
		if !keep[i] {
			t.Errorf("keep[%d] = false, want true", i)
		}
		if recoded[i] != w {
			t.Errorf("recoded[%d] = %q, want %q", i, recoded[i], w)
		}
	}
}

func TestRecoderWarnsOnceForUnknownLabel(t *testing.T) {
	var warnings []error
	scierr.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer scierr.SetWarningHandler(func(error) {})

	r := EyeRecoder()
	_, keep := r.Apply([]string{"violet", "violet", "blue"})

	if keep[0] || keep[1] || !keep[2] {
		t.Errorf("unexpected keep mask: %v", keep)
	}
	if len(warnings) != 1 {
		t.Errorf("expected exactly one warning for a repeated unknown label, got %d", len(warnings))
	}
	var convErr *scierr.DataConversionWarning
	if len(warnings) == 1 && !scierr.As(warnings[0], &convErr) {
		t.Errorf("expected DataConversionWarning, got %T", warnings[0])
	}
}

func TestRecoderEncoderOrder(t *testing.T) {
	enc, err := HairRecoder().Encoder()
	if err != nil {
		t.Fatalf("Encoder() error = %v", err)
	}

	classes := enc.Classes()
	want := []string{"blond", "brown", "red", "black"}
	if len(classes) != len(want) {
		t.Fatalf("Classes() = %v, want %v", classes, want)
	}
	for i := range want {
		if classes[i] != want[i] {
			t.Errorf("Classes()[%d] = %q, want %q", i, classes[i], want[i])
		}
	}
}
