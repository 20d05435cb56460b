package claim

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Record maps field names to scalar values (string, int or float64). It is
// built fresh for each prediction and never stored.
type Record map[string]any

// FieldError reports input that no widget would have produced.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Defaults returns a record holding every field's initial widget value.
func Defaults() Record {
	record := make(Record, len(catalogue))
	for _, f := range catalogue {
		record[f.Name] = f.Default
	}
	return record
}

// FromForm coerces submitted form values the way the input widgets do:
// numbers are clamped to their bounds, choices must be listed options and
// fields left out of the submission keep their default. Text is taken
// verbatim.
func FromForm(values url.Values) (Record, error) {
	record := Defaults()
	for _, f := range catalogue {
		if _, present := values[f.Name]; !present {
			continue
		}
		raw := values.Get(f.Name)
		if f.Kind == KindText {
			record[f.Name] = raw
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		value, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		record[f.Name] = value
	}
	return record, nil
}

// FromJSON validates a decoded JSON object and converts its numbers to the
// field kinds. Absent fields stay absent; fields outside the catalogue are
// passed through untouched.
func FromJSON(doc map[string]any) (Record, error) {
	if err := ValidateJSON(doc); err != nil {
		return nil, err
	}
	record := make(Record, len(doc))
	for name, value := range doc {
		f, known := Lookup(name)
		if !known {
			record[name] = value
			continue
		}
		switch f.Kind {
		case KindInteger, KindChoice:
			n, ok := value.(float64)
			if !ok {
				return nil, &FieldError{Field: name, Message: "must be a number"}
			}
			record[name] = int(n)
		default:
			record[name] = value
		}
	}
	return record, nil
}

func coerce(f Field, raw string) (any, error) {
	switch f.Kind {
	case KindInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &FieldError{Field: f.Name, Message: "must be a whole number"}
		}
		return int(clamp(f, float64(n))), nil
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &FieldError{Field: f.Name, Message: "must be a number"}
		}
		return clamp(f, v), nil
	case KindChoice:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &FieldError{Field: f.Name, Message: "must be one of the listed options"}
		}
		if _, ok := f.ChoiceLabel(n); !ok {
			return nil, &FieldError{Field: f.Name, Message: fmt.Sprintf("%d is not one of the listed options", n)}
		}
		return n, nil
	}
	return raw, nil
}

func clamp(f Field, v float64) float64 {
	if v < f.Min {
		return f.Min
	}
	if f.HasMax() && v > f.Max {
		return f.Max
	}
	return v
}
