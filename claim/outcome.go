package claim

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InvolvedLabel is the model class meaning an attorney is involved.
const InvolvedLabel = 1

type Outcome struct {
	Label    int    `json:"label"`
	Involved bool   `json:"involved"`
	Message  string `json:"message"`
	Color    string `json:"-"`
}

// OutcomeFor maps a model label to its display text. Any label other than
// InvolvedLabel reads as "unlikely".
func OutcomeFor(label int) Outcome {
	if label == InvolvedLabel {
		return Outcome{
			Label:    label,
			Involved: true,
			Message:  "Attorney is likely to be involved.",
			Color:    "#FF6347",
		}
	}
	return Outcome{
		Label:   label,
		Message: "Attorney is unlikely to be involved.",
		Color:   "#32CD32",
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a dollar amount with thousands separators.
func FormatAmount(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Display renders a record value the way the form shows it: the label for
// choices and a dollar amount for money fields.
func Display(f Field, value any) string {
	switch v := value.(type) {
	case int:
		if f.Kind == KindChoice {
			if label, ok := f.ChoiceLabel(v); ok {
				return label
			}
		}
		return printer.Sprintf("%d", v)
	case float64:
		if f.Amount {
			return FormatAmount(v)
		}
		return printer.Sprintf("%.2f", v)
	case string:
		return v
	}
	return printer.Sprintf("%v", value)
}
