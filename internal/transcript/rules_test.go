package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Table(t *testing.T) {
	table := Rules()
	require.Len(t, table, 15)

	counts := map[string]int{}
	seen := map[Field]bool{}
	for _, rule := range table {
		require.NotNil(t, rule.Pattern, "%s has no pattern", rule.Field)
		assert.False(t, seen[rule.Field], "duplicate rule for %s", rule.Field)
		seen[rule.Field] = true
		counts[string(rule.Group)+"/"+string(rule.SubGroup)]++

		// every rule must route to a real slot in the result
		result := &ExtractionResult{}
		assert.True(t, result.set(rule.Field, "x"), "%s has no slot", rule.Field)
	}

	assert.Equal(t, 6, counts["CustomerRequirements/"])
	assert.Equal(t, 4, counts["CompanyPoliciesDiscussed/"])
	assert.Equal(t, 3, counts["CustomerObjections/"])
	assert.Equal(t, 2, counts["CustomerObjections/CustomerExperienceIssues"])
}

func TestRules_ReturnsCopy(t *testing.T) {
	table := Rules()
	table[0].Field = "Tampered"
	table[0].Group = GroupCompanyPolicies

	again := Rules()
	assert.Equal(t, FieldCarType, again[0].Field)
	assert.Equal(t, GroupCustomerRequirements, again[0].Group)
}

func TestPatternRule_Path(t *testing.T) {
	paths := make(map[Field]string)
	for _, rule := range Rules() {
		paths[rule.Field] = rule.Path()
	}

	assert.Equal(t, "CustomerObjections.CustomerExperienceIssues.LongWaitTime", paths[FieldLongWaitTime])
	assert.Equal(t, "CompanyPoliciesDiscussed.ReturnPolicy", paths[FieldReturnPolicy])
	assert.Equal(t, "CustomerRequirements.CarType", paths[FieldCarType])
	assert.NotContains(t, paths, Field("Mileage"))
}

func TestExtractionResult_SetOnce(t *testing.T) {
	result := &ExtractionResult{}
	assert.True(t, result.set(FieldColor, "red"))
	assert.False(t, result.set(FieldColor, "blue"))

	got, ok := result.Get(FieldColor)
	require.True(t, ok)
	assert.Equal(t, "red", got)

	assert.False(t, result.set("Unknown", "value"))
}
