package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Feature names as they travel on the wire to the prediction service.
const (
	FeatureCrim    = "crim"
	FeatureZn      = "zn"
	FeatureIndus   = "indus"
	FeatureChas    = "chas"
	FeatureNox     = "nox"
	FeatureRm      = "rm"
	FeatureAge     = "age"
	FeatureDis     = "dis"
	FeatureRad     = "rad"
	FeatureTax     = "tax"
	FeaturePtratio = "ptratio"
	FeatureB       = "b"
	FeatureLstat   = "lstat"
)

// ErrUnknownField is returned when a feature name is not part of the
// FeatureSet.
var ErrUnknownField = errors.New("model: unknown feature field")

// featureNames keeps the canonical field order used for rendering and
// iteration.
var featureNames = []string{
	FeatureCrim,
	FeatureZn,
	FeatureIndus,
	FeatureChas,
	FeatureNox,
	FeatureRm,
	FeatureAge,
	FeatureDis,
	FeatureRad,
	FeatureTax,
	FeaturePtratio,
	FeatureB,
	FeatureLstat,
}

// FeatureNames returns a copy of the thirteen feature names in canonical order.
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

// IsFeature reports whether name identifies a FeatureSet field.
func IsFeature(name string) bool {
	var probe FeatureSet
	return probe.slot(name) != nil
}

// FeatureSet describes a property. Every field is always present and numeric;
// the JSON encoding carries exactly the thirteen keys the prediction service
// expects.
type FeatureSet struct {
	Crim    float64 `json:"crim"`
	Zn      float64 `json:"zn"`
	Indus   float64 `json:"indus"`
	Chas    float64 `json:"chas"`
	Nox     float64 `json:"nox"`
	Rm      float64 `json:"rm"`
	Age     float64 `json:"age"`
	Dis     float64 `json:"dis"`
	Rad     float64 `json:"rad"`
	Tax     float64 `json:"tax"`
	Ptratio float64 `json:"ptratio"`
	B       float64 `json:"b"`
	Lstat   float64 `json:"lstat"`
}

// DefaultFeatures returns the values a fresh form starts with.
func DefaultFeatures() FeatureSet {
	return FeatureSet{
		Crim:    0.00632,
		Zn:      18.0,
		Indus:   2.31,
		Chas:    0,
		Nox:     0.538,
		Rm:      6.575,
		Age:     65.2,
		Dis:     4.09,
		Rad:     1,
		Tax:     296,
		Ptratio: 15.3,
		B:       396.90,
		Lstat:   4.98,
	}
}

func (f *FeatureSet) slot(name string) *float64 {
	switch name {
	case FeatureCrim:
		return &f.Crim
	case FeatureZn:
		return &f.Zn
	case FeatureIndus:
		return &f.Indus
	case FeatureChas:
		return &f.Chas
	case FeatureNox:
		return &f.Nox
	case FeatureRm:
		return &f.Rm
	case FeatureAge:
		return &f.Age
	case FeatureDis:
		return &f.Dis
	case FeatureRad:
		return &f.Rad
	case FeatureTax:
		return &f.Tax
	case FeaturePtratio:
		return &f.Ptratio
	case FeatureB:
		return &f.B
	case FeatureLstat:
		return &f.Lstat
	default:
		return nil
	}
}

// Get returns the value stored under name.
func (f FeatureSet) Get(name string) (float64, bool) {
	ptr := f.slot(name)
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

// Set writes value under name. Non-finite values are stored as zero so the
// set never carries NaN or infinities.
func (f *FeatureSet) Set(name string, value float64) error {
	ptr := f.slot(name)
	if ptr == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	*ptr = finiteOrZero(value)
	return nil
}

// Values returns the set as a name keyed map, handy for templates.
func (f FeatureSet) Values() map[string]float64 {
	out := make(map[string]float64, len(featureNames))
	for _, name := range featureNames {
		value, _ := f.Get(name)
		out[name] = value
	}
	return out
}

// AnyValues mirrors Values with interface values, the shape renderers consume.
func (f FeatureSet) AnyValues() map[string]any {
	out := make(map[string]any, len(featureNames))
	for name, value := range f.Values() {
		out[name] = value
	}
	return out
}

// ParseValue coerces raw user input into a feature value. The leading decimal
// number is used and any trailing text ignored, so "12abc" reads as 12 and
// "1,5" as 1. Input without a leading number, or one that is not finite,
// becomes 0.
func ParseValue(raw string) float64 {
	prefix := numericPrefix(strings.TrimSpace(raw))
	if prefix == "" {
		return 0
	}
	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(value)
}

// numericPrefix returns the longest leading [+-]digits[.digits][e[+-]digits]
// run of s. A dot or exponent marker without digits after it is left out.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > i+1 {
			digits += j - i - 1
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// FormatValue renders a value the way an input control displays it.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func finiteOrZero(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
