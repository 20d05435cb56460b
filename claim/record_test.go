package claim

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsCatalogue(t *testing.T) {
	names := Names()
	require.Len(t, names, 12)
	assert.Equal(t, CaseNumber, names[0])
	assert.Equal(t, DrivingRecord, names[11])

	age, ok := Lookup(ClaimantAge)
	require.True(t, ok)
	assert.True(t, age.HasMax())
	assert.Equal(t, 120.0, age.Max)

	loss, ok := Lookup(Loss)
	require.True(t, ok)
	assert.False(t, loss.HasMax())
}

func TestFromFormDefaults(t *testing.T) {
	record, err := FromForm(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), record)
	assert.Equal(t, "0", record[CaseNumber])
	assert.Equal(t, 30, record[ClaimantAge])
	assert.Equal(t, 5000.0, record[Loss])
}

func TestFromFormCoercion(t *testing.T) {
	values := url.Values{
		CaseNumber:          {"ABC123"},
		ClaimantSex:         {"1"},
		ClaimantAge:         {"150"},
		Loss:                {"-20"},
		SettlementAmount:    {" 1234.5 "},
		DrivingRecord:       {"2"},
		ClaimApprovalStatus: {""},
	}
	record, err := FromForm(values)
	require.NoError(t, err)

	assert.Equal(t, "ABC123", record[CaseNumber])
	assert.Equal(t, 1, record[ClaimantSex])
	assert.Equal(t, 120, record[ClaimantAge], "age clamps to its upper bound")
	assert.Equal(t, 0.0, record[Loss], "amounts clamp at zero")
	assert.Equal(t, 1234.5, record[SettlementAmount])
	assert.Equal(t, 2, record[DrivingRecord])
	assert.Equal(t, 0, record[ClaimApprovalStatus], "empty input keeps the default")
}

func TestFromFormRejectsUnknownChoice(t *testing.T) {
	_, err := FromForm(url.Values{PolicyType: {"7"}})
	require.Error(t, err)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, PolicyType, fieldErr.Field)
}

func TestFromFormRejectsMalformedNumber(t *testing.T) {
	_, err := FromForm(url.Values{ClaimantAge: {"thirty"}})
	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, ClaimantAge, fieldErr.Field)

	_, err = FromForm(url.Values{Loss: {"NaN"}})
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, Loss, fieldErr.Field)
}

func TestFromJSON(t *testing.T) {
	record, err := FromJSON(map[string]any{
		CaseNumber:  "C-1",
		ClaimantAge: 42.0,
		Loss:        1500.25,
		PolicyType:  2.0,
		"Extra":     "kept",
	})
	require.NoError(t, err)
	assert.Equal(t, Record{
		CaseNumber:  "C-1",
		ClaimantAge: 42,
		Loss:        1500.25,
		PolicyType:  2,
		"Extra":     "kept",
	}, record)
}

func TestFromJSONSchemaViolations(t *testing.T) {
	_, err := FromJSON(map[string]any{
		ClaimantAge: 130.0,
		CaseNumber:  12.0,
		Seatbelt:    3.0,
		Loss:        -1.0,
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Problems, 4)
}

func TestFromJSONRejectsFractionalAge(t *testing.T) {
	_, err := FromJSON(map[string]any{ClaimantAge: 30.5})
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestOutcomeFor(t *testing.T) {
	likely := OutcomeFor(1)
	assert.True(t, likely.Involved)
	assert.Equal(t, "Attorney is likely to be involved.", likely.Message)

	unlikely := OutcomeFor(0)
	assert.False(t, unlikely.Involved)
	assert.Equal(t, "Attorney is unlikely to be involved.", unlikely.Message)
}

func TestDisplay(t *testing.T) {
	severity, _ := Lookup(AccidentSeverity)
	assert.Equal(t, "High", Display(severity, 2))

	loss, _ := Lookup(Loss)
	assert.Equal(t, "$5,000.00", Display(loss, 5000.0))

	caseNum, _ := Lookup(CaseNumber)
	assert.Equal(t, "ABC123", Display(caseNum, "ABC123"))
}
