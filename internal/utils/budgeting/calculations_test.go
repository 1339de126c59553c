package budgeting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	"github.com/sixjars/six_jars_app/internal/utils/budgeting"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeTarget(t *testing.T) {
	tests := []struct {
		name       string
		income     string
		percentage string
		want       string
	}{
		{"essential jar at 55 percent", "20000000", "55", "11000000"},
		{"small jar at 5 percent", "20000000", "5", "1000000"},
		{"full income", "1500", "100", "1500"},
		{"zero income", "0", "55", "0"},
		{"fractional percentage keeps precision", "1000", "12.5", "125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budgeting.ComputeTarget(d(tt.income), d(tt.percentage))
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestIsPercentageValid(t *testing.T) {
	tests := []struct {
		name     string
		newPct   string
		existing string
		excluded string
		want     bool
	}{
		{"create within budget", "30", "60", "0", true},
		{"create exactly to 100", "40", "60", "0", true},
		{"create exceeding budget", "50", "60", "0", false},
		{"update excluding self frees budget", "40", "60", "60", true},
		{"update to boundary after freeing", "60", "100", "60", true},
		{"update exceeding despite exclusion", "80", "100", "60", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budgeting.IsPercentageValid(d(tt.newPct), d(tt.existing), d(tt.excluded))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemainingPercentage(t *testing.T) {
	assert.True(t, budgeting.RemainingPercentage(d("60")).Equal(d("40")))
	assert.True(t, budgeting.RemainingPercentage(d("100")).Equal(d("0")))
	assert.True(t, budgeting.RemainingPercentage(d("0")).Equal(d("100")))
}

func TestClassifyJar(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    domain.JarHealth
	}{
		{"under target is good", "500", "1000", domain.JarGood},
		{"exactly at target is empty", "1000", "1000", domain.JarEmpty},
		{"over target is overspent", "1200", "1000", domain.JarOverspent},
		{"negative balance counts by magnitude", "-500", "1000", domain.JarGood},
		{"zero spend against zero target is empty", "0", "0", domain.JarEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := budgeting.ClassifyJar(d(tt.current), d(tt.target))
			assert.Equal(t, tt.want, info.Status)
			assert.True(t, info.SpentAmount.Equal(d(tt.current).Abs()))
		})
	}
}

func TestEvaluateOverspend_NoWarningBelowThreshold(t *testing.T) {
	warning := budgeting.EvaluateOverspend(d("8900000"), d("10000000"))
	assert.Nil(t, warning)
}

func TestEvaluateOverspend_ApproachingAtExactBoundary(t *testing.T) {
	// 9,900,000 / 11,000,000 = 90% exactly; inclusive boundary.
	warning := budgeting.EvaluateOverspend(d("9900000"), d("11000000"))
	require.NotNil(t, warning)
	assert.Equal(t, domain.WarningApproaching, warning.Level)
	assert.True(t, warning.OverBy.IsZero())
}

func TestEvaluateOverspend_ApproachingAtFullTarget(t *testing.T) {
	// Exactly 100% is still "approaching"; "over" requires exceeding the target.
	warning := budgeting.EvaluateOverspend(d("11000000"), d("11000000"))
	require.NotNil(t, warning)
	assert.Equal(t, domain.WarningApproaching, warning.Level)
}

func TestEvaluateOverspend_OverWithOverBy(t *testing.T) {
	// 11,900,000 / 11,000,000 ~= 108.2%; overBy = 900,000.
	warning := budgeting.EvaluateOverspend(d("11900000"), d("11000000"))
	require.NotNil(t, warning)
	assert.Equal(t, domain.WarningOver, warning.Level)
	assert.True(t, warning.OverBy.Equal(d("900000")), "overBy was %s", warning.OverBy)
}

func TestEvaluateOverspend_ZeroTargetNeverWarns(t *testing.T) {
	assert.Nil(t, budgeting.EvaluateOverspend(d("100"), d("0")))
}

func TestSumPercentages_SkipsInactiveJars(t *testing.T) {
	jars := []domain.Jar{
		{Percentage: d("55"), IsActive: true},
		{Percentage: d("10"), IsActive: true},
		{Percentage: d("20"), IsActive: false},
	}
	assert.True(t, budgeting.SumPercentages(jars).Equal(d("65")))
}
