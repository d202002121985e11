package service

import "github.com/homefinder/loancalc/internal/domain/model"

// Advice strings returned by the recommendation engine.
const (
	AdviceImproveCredit   = "Improve your credit score to 750 or above to qualify for better interest rates and a higher loan amount."
	AdviceReduceExpenses  = "Consider reducing monthly expenses to increase your disposable income and borrowing capacity."
	AdvicePayOffLoans     = "Consider paying off existing loans to improve your debt-to-income ratio."
	AdviceApplySoon       = "Consider applying soon, as a shorter remaining tenure reduces the amount you can borrow."
	AdviceDocumentIncome  = "Maintain consistent income documentation, such as tax returns and bank statements for the last two years."
	AdviceGoodEligibility = "You have good eligibility! You can proceed with your home loan application."
)

const (
	recommendCreditCeiling = 750
	lowDisposableShare     = 0.3
	highDebtShare          = 0.2
	applySoonAgeThreshold  = 50
)

// recommendationRule pairs a trigger with the advice it produces.
type recommendationRule struct {
	applies func(in model.EligibilityInputs, b model.EligibilityBreakdown) bool
	advice  string
}

var defaultRecommendationRules = []recommendationRule{
	{
		applies: func(_ model.EligibilityInputs, b model.EligibilityBreakdown) bool {
			return b.CreditScore < recommendCreditCeiling
		},
		advice: AdviceImproveCredit,
	},
	{
		applies: func(in model.EligibilityInputs, b model.EligibilityBreakdown) bool {
			return b.DisposableIncome < in.MonthlyIncome*lowDisposableShare
		},
		advice: AdviceReduceExpenses,
	},
	{
		applies: func(in model.EligibilityInputs, _ model.EligibilityBreakdown) bool {
			return in.ExistingMonthlyDebt > in.MonthlyIncome*highDebtShare
		},
		advice: AdvicePayOffLoans,
	},
	{
		applies: func(_ model.EligibilityInputs, b model.EligibilityBreakdown) bool {
			return b.Age > applySoonAgeThreshold
		},
		advice: AdviceApplySoon,
	},
	{
		applies: func(in model.EligibilityInputs, _ model.EligibilityBreakdown) bool {
			return in.EmploymentType.IsSelfEmployed()
		},
		advice: AdviceDocumentIncome,
	},
}

// RecommendationEngine turns a scored profile into advice. Every rule is
// evaluated in order; the fallback is used only when none fire.
type RecommendationEngine struct {
	rules    []recommendationRule
	fallback string
}

// NewRecommendationEngine returns the engine with the standard rule list.
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{
		rules:    defaultRecommendationRules,
		fallback: AdviceGoodEligibility,
	}
}

// Recommend never returns an empty slice.
func (e *RecommendationEngine) Recommend(in model.EligibilityInputs, b model.EligibilityBreakdown) []string {
	var out []string
	for _, r := range e.rules {
		if r.applies(in, b) {
			out = append(out, r.advice)
		}
	}
	if len(out) == 0 {
		out = []string{e.fallback}
	}
	return out
}
