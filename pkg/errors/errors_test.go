package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "phenosnp: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "phenosnp: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 24, 23, 1)

	want := "phenosnp: Predict: dimension mismatch on axis 1 (features). Expected 24, got 23"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("RandomForestClassifier", "Predict")

	want := "phenosnp: RandomForestClassifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var nfErr *NotFittedError
	if !As(err, &nfErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewDataError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sample and field",
			err:  NewDataError("genotypes.tsv", "S042", "rs12913832", "unparseable call 'XZ'"),
			want: "phenosnp: genotypes.tsv: sample S042, field rs12913832: unparseable call 'XZ'",
		},
		{
			name: "sample only",
			err:  NewDataError("phenotypes.tsv", "S001", "", "duplicate sample ID"),
			want: "phenosnp: phenotypes.tsv: sample S001: duplicate sample ID",
		},
		{
			name: "source only",
			err:  NewDataError("genotypes.tsv", "", "", "missing header row"),
			want: "phenosnp: genotypes.tsv: missing header row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.want)
			}
			var dataErr *DataError
			if !As(tt.err, &dataErr) {
				t.Error("Error should be castable to *DataError")
			}
		})
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("AUC", "only one class present", 0.5)
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "AUC") {
		t.Errorf("unexpected warning message: %v", captured)
	}
}

func TestCheckMatrixAndValues(t *testing.T) {
	if err := CheckValues("encode", []float64{0, 1, 2}); err != nil {
		t.Errorf("finite values should pass: %v", err)
	}

	if err := CheckValues("encode", []float64{0, math.NaN()}); err == nil {
		t.Error("expected error for NaN value")
	}
}
