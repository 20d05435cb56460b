package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type MissingPolicy string

const (
	MissingDefaultZero MissingPolicy = "default_zero"
	MissingReject      MissingPolicy = "reject"
)

// fillValue is substituted for expected features absent from the input.
const fillValue = 0

func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MissingDefaultZero:
		return MissingDefaultZero, nil
	case MissingReject:
		return MissingReject, nil
	default:
		return "", fmt.Errorf("unknown missing-field policy %q", s)
	}
}

// AlignedRecord holds exactly the expected features, in the model's order.
type AlignedRecord struct {
	Names  []string `json:"names"`
	Values []any    `json:"values"`
}

func (a AlignedRecord) Len() int {
	return len(a.Names)
}

func (a AlignedRecord) Get(name string) (any, bool) {
	for i, n := range a.Names {
		if n == name {
			return a.Values[i], true
		}
	}
	return nil, false
}

func (a AlignedRecord) Record() map[string]any {
	record := make(map[string]any, len(a.Names))
	for i, name := range a.Names {
		record[name] = a.Values[i]
	}
	return record
}

// Vector converts the aligned values to the numeric form the model takes.
func (a AlignedRecord) Vector() ([]float64, error) {
	vector := make([]float64, len(a.Values))
	for i, value := range a.Values {
		f, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, a.Names[i], err)
		}
		vector[i] = f
	}
	return vector, nil
}

// Align reshapes record to the expected feature list. Extra fields are
// dropped. Missing fields are zero-filled, or reported when the policy is
// MissingReject.
func Align(record map[string]any, expected []string, policy MissingPolicy) (AlignedRecord, error) {
	aligned := AlignedRecord{
		Names:  make([]string, len(expected)),
		Values: make([]any, len(expected)),
	}
	var missing []string
	for i, name := range expected {
		aligned.Names[i] = name
		value, ok := record[name]
		if !ok {
			missing = append(missing, name)
			value = fillValue
		}
		aligned.Values[i] = value
	}
	if len(missing) > 0 && policy == MissingReject {
		return AlignedRecord{}, fmt.Errorf("%w: %s", ErrMissingFeature, strings.Join(missing, ", "))
	}
	return aligned, nil
}

func toFloat(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to a number", v.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to a number", v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported value type %T", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", value)
	}
	return f, nil
}
