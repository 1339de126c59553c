package budgeting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

var (
	hundred            = decimal.NewFromInt(100)
	warnThresholdPct   = decimal.NewFromInt(90)
	overThresholdPct   = decimal.NewFromInt(100)
	maxTotalPercentage = decimal.NewFromInt(100)
)

// ComputeTarget derives a jar's target amount from the user's monthly income
// and the jar's percentage. Full precision is kept; rounding happens only at
// display time.
func ComputeTarget(income, percentage decimal.Decimal) decimal.Decimal {
	return income.Mul(percentage).Div(hundred)
}

// IsPercentageValid reports whether assigning newPercentage is allowed given
// the current total of active jar percentages. excludedPercentage is the
// percentage of the jar being edited (zero on create) so the check is
// identical on both the create and update paths.
func IsPercentageValid(newPercentage, existingTotal, excludedPercentage decimal.Decimal) bool {
	return existingTotal.Sub(excludedPercentage).Add(newPercentage).LessThanOrEqual(maxTotalPercentage)
}

// RemainingPercentage returns how much of the 100% budget is still
// unallocated given the current total of active jar percentages.
func RemainingPercentage(existingTotal decimal.Decimal) decimal.Decimal {
	return maxTotalPercentage.Sub(existingTotal)
}

// ClassifyJar classifies a jar's spending position against its target.
// The spend magnitude is the absolute value of the running balance.
func ClassifyJar(currentAmount, targetAmount decimal.Decimal) domain.JarStatusInfo {
	spent := currentAmount.Abs()
	remaining := targetAmount.Sub(spent)

	var status domain.JarHealth
	var message string
	switch {
	case spent.GreaterThan(targetAmount):
		status = domain.JarOverspent
		message = fmt.Sprintf("Overspent by %s", spent.Sub(targetAmount).String())
	case spent.Equal(targetAmount):
		status = domain.JarEmpty
		message = "Budget fully used"
	default:
		status = domain.JarGood
		message = fmt.Sprintf("%s remaining", remaining.String())
	}

	return domain.JarStatusInfo{
		Status:          status,
		SpentAmount:     spent,
		RemainingAmount: remaining,
		Message:         message,
	}
}

// EvaluateOverspend returns a warning descriptor when the projected spend
// reaches 90% of the target (inclusive), escalating to "over" above 100%.
// Returns nil when no gate is triggered or the jar has no target.
func EvaluateOverspend(projectedSpend, targetAmount decimal.Decimal) *domain.OverspendWarning {
	if targetAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	percentUsed := projectedSpend.Div(targetAmount).Mul(hundred)
	if percentUsed.LessThan(warnThresholdPct) {
		return nil
	}

	warning := &domain.OverspendWarning{
		Level:          domain.WarningApproaching,
		ProjectedSpend: projectedSpend,
		TargetAmount:   targetAmount,
		PercentUsed:    percentUsed,
	}
	if percentUsed.GreaterThan(overThresholdPct) {
		warning.Level = domain.WarningOver
		warning.OverBy = projectedSpend.Sub(targetAmount)
	}
	return warning
}

// SumPercentages totals the percentage allocation of the given jars,
// counting active jars only.
func SumPercentages(jars []domain.Jar) decimal.Decimal {
	total := decimal.Zero
	for _, jar := range jars {
		if jar.IsActive {
			total = total.Add(jar.Percentage)
		}
	}
	return total
}
