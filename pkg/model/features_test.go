package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultFeatures(t *testing.T) {
	want := map[string]float64{
		"crim": 0.00632, "zn": 18, "indus": 2.31, "chas": 0, "nox": 0.538,
		"rm": 6.575, "age": 65.2, "dis": 4.09, "rad": 1, "tax": 296,
		"ptratio": 15.3, "b": 396.9, "lstat": 4.98,
	}
	if diff := cmp.Diff(want, DefaultFeatures().Values()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureSetJSONCarriesExactlyThirteenKeys(t *testing.T) {
	payload, err := json.Marshal(FeatureSet{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 13 {
		t.Fatalf("expected 13 keys, got %d: %v", len(decoded), decoded)
	}
	for _, name := range FeatureNames() {
		if decoded[name] != float64(0) {
			t.Fatalf("key %q: got %v", name, decoded[name])
		}
	}
}

func TestFeatureSetSet(t *testing.T) {
	features := DefaultFeatures()

	if err := features.Set(FeatureRm, 7.25); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := features.Get(FeatureRm); got != 7.25 {
		t.Fatalf("rm: got %v", got)
	}

	if err := features.Set(FeatureTax, math.Inf(1)); err != nil {
		t.Fatalf("set inf: %v", err)
	}
	if features.Tax != 0 {
		t.Fatalf("infinite values should be stored as zero, got %v", features.Tax)
	}

	before := features
	err := features.Set("medv", 24)
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if features != before {
		t.Fatalf("unknown field must leave the set untouched")
	}
	if IsFeature("medv") || !IsFeature(FeatureLstat) {
		t.Fatalf("IsFeature misclassified names")
	}
}

func TestParseValue(t *testing.T) {
	cases := map[string]float64{
		"6.575":        6.575,
		" 12 ":         12,
		"-3.5":         -3.5,
		"+4":           4,
		"1e2":          100,
		"1E-2":         0.01,
		".5":           0.5,
		"5.":           5,
		"abc":          0,
		"":             0,
		"-":            0,
		".":            0,
		"12abc":        12,
		"1,5":          1,
		"1_000":        1,
		"0x10":         0,
		"1e":           1,
		"2e+x":         2,
		"7.25 rooms":   7.25,
		"NaN":          0,
		"Inf":          0,
		"Infinity":     0,
		"-1e400":       0,
		"1e400 and up": 0,
	}
	for raw, want := range cases {
		if got := ParseValue(raw); got != want {
			t.Errorf("ParseValue(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(0.00632); got != "0.00632" {
		t.Fatalf("got %q", got)
	}
	if got := FormatValue(296); got != "296" {
		t.Fatalf("got %q", got)
	}
}
