package planka

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput_FieldDetails(t *testing.T) {
	err := validateInput("card", CardInput{Type: "epic"})
	require.Equal(t, KindValidation, KindOf(err))

	pe := err.(*Error)
	fields, ok := pe.Details.([]FieldError)
	require.True(t, ok, "expected field details, got %T", pe.Details)

	byField := make(map[string]FieldError, len(fields))
	for _, f := range fields {
		byField[f.Field] = f
	}
	assert.Equal(t, "required", byField["Name"].Rule, "expected required failure on Name")
	assert.Equal(t, "oneof", byField["Type"].Rule, "expected oneof failure on Type")
}

func TestValidateInput_LabelColorRule(t *testing.T) {
	assert.NoError(t, validateInput("label", LabelInput{Color: "berry-red"}))
	assert.Equal(t, KindValidation, KindOf(validateInput("label", LabelInput{Color: "hot-pink"})),
		"off-palette color accepted")

	// The patch rule is omitempty: an absent color passes, a bad one
	// does not.
	assert.NoError(t, validateInput("label", LabelPatch{}))
	bad := "hot-pink"
	assert.Equal(t, KindValidation, KindOf(validateInput("label", LabelPatch{Color: &bad})),
		"off-palette patch color accepted")
}

func TestLabelColors_SortedAndClosed(t *testing.T) {
	colors := LabelColors()
	require.Len(t, colors, 25)
	assert.True(t, sort.StringsAreSorted(colors), "palette listing should be sorted")
	for _, c := range colors {
		assert.True(t, IsLabelColor(c), "listed color %q not accepted", c)
	}
	assert.False(t, IsLabelColor(""))
	assert.False(t, IsLabelColor("BERRY-RED"), "palette membership must be exact")
}
