// Package claim describes the insurance-claim record collected from users
// and the coercion applied to raw form and JSON input.
package claim

type Kind string

const (
	KindText    Kind = "text"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindChoice  Kind = "choice"
)

// Choice is one option of an enumerated field: the stored value and the
// label shown to the user.
type Choice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Help    string   `json:"help"`
	Kind    Kind     `json:"kind"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
	Default any      `json:"default"`
	// Amount marks dollar-valued fields.
	Amount bool `json:"amount,omitempty"`
}

// HasMax reports whether the field has an upper bound. A Max not above Min
// means unbounded.
func (f Field) HasMax() bool {
	return f.Max > f.Min
}

func (f Field) ChoiceLabel(value int) (string, bool) {
	for _, c := range f.Choices {
		if c.Value == value {
			return c.Label, true
		}
	}
	return "", false
}

const (
	CaseNumber           = "CASENUM"
	ClaimantSex          = "CLMSEX"
	ClaimantInsured      = "CLMINSUR"
	Seatbelt             = "SEATBELT"
	ClaimantAge          = "CLMAGE"
	Loss                 = "LOSS"
	AccidentSeverity     = "Accident_Severity"
	ClaimAmountRequested = "Claim_Amount_Requested"
	ClaimApprovalStatus  = "Claim_Approval_Status"
	SettlementAmount     = "Settlement_Amount"
	PolicyType           = "Policy_Type"
	DrivingRecord        = "Driving_Record"
)

var noYes = []Choice{{0, "No"}, {1, "Yes"}}

var catalogue = []Field{
	{Name: CaseNumber, Label: "Case Number", Kind: KindText, Default: "0",
		Help: "Enter a unique identifier for the claim (e.g., ABC123)."},
	{Name: ClaimantSex, Label: "Claimant Sex", Kind: KindChoice, Default: 0,
		Choices: []Choice{{0, "Female"}, {1, "Male"}},
		Help:    "Select the gender of the claimant."},
	{Name: ClaimantInsured, Label: "Claimant Insured", Kind: KindChoice, Default: 0,
		Choices: noYes, Help: "Is the claimant insured?"},
	{Name: Seatbelt, Label: "Seatbelt Used?", Kind: KindChoice, Default: 0,
		Choices: noYes, Help: "Did the claimant use a seatbelt?"},
	{Name: ClaimantAge, Label: "Claimant Age", Kind: KindInteger, Min: 0, Max: 120, Default: 30,
		Help: "Enter the age of the claimant."},
	{Name: Loss, Label: "Loss Amount ($)", Kind: KindFloat, Min: 0, Default: 5000.0, Amount: true,
		Help: "Total loss amount in dollars."},
	{Name: AccidentSeverity, Label: "Accident Severity", Kind: KindChoice, Default: 0,
		Choices: []Choice{{0, "Low"}, {1, "Medium"}, {2, "High"}},
		Help:    "Severity of the accident."},
	{Name: ClaimAmountRequested, Label: "Claim Amount Requested ($)", Kind: KindFloat, Min: 0, Default: 10000.0, Amount: true,
		Help: "Amount requested for the claim."},
	{Name: ClaimApprovalStatus, Label: "Claim Approval Status", Kind: KindChoice, Default: 0,
		Choices: []Choice{{0, "Rejected"}, {1, "Approved"}},
		Help:    "Status of the claim approval."},
	{Name: SettlementAmount, Label: "Settlement Amount ($)", Kind: KindFloat, Min: 0, Default: 8000.0, Amount: true,
		Help: "Amount of the settlement."},
	{Name: PolicyType, Label: "Policy Type", Kind: KindChoice, Default: 0,
		Choices: []Choice{{0, "Basic"}, {1, "Standard"}, {2, "Premium"}},
		Help:    "Type of insurance policy."},
	{Name: DrivingRecord, Label: "Driving Record", Kind: KindChoice, Default: 0,
		Choices: []Choice{{0, "Clean"}, {1, "Minor Violation"}, {2, "Major Violation"}},
		Help:    "Driving record of the claimant."},
}

// Fields returns the claim fields in form order.
func Fields() []Field {
	out := make([]Field, len(catalogue))
	copy(out, catalogue)
	return out
}

func Names() []string {
	names := make([]string, len(catalogue))
	for i, f := range catalogue {
		names[i] = f.Name
	}
	return names
}

func Lookup(name string) (Field, bool) {
	for _, f := range catalogue {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
