package cli

import (
	"github.com/spf13/cobra"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/domain/service"
)

func eligibilityCmd(a *app) *cobra.Command {
	var (
		req     dto.CheckEligibilityRequest
		display displayFlags
	)

	cmd := &cobra.Command{
		Use:     "eligibility",
		Short:   "Estimate the maximum home loan a borrower qualifies for",
		Example: "  loancalc eligibility --income 120000 --expenses 40000 --employment salaried --credit-score 760 --age 34",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepo(a.dbPath)
			if err != nil {
				return err
			}
			req.OwnerID = LocalOwner
			scorer := service.NewEligibilityScorer()

			uc := usecase.NewCheckEligibilityUseCase(scorer, repo, port.NoopPublisher{}, port.NoopMetrics{}, a.logger)
			resp, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			if display.asJSON {
				return a.printJSON(resp)
			}

			summary, err := usecase.NewShareSummaryUseCase(scorer).Eligibility(cmd.Context(), dto.EligibilitySummaryRequest{
				CheckEligibilityRequest: req,
				Currency:                display.currency,
				Locale:                  display.locale,
			})
			if err != nil {
				return err
			}
			a.println(summary.Text)
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.MonthlyIncome, "income", 0, "net monthly income")
	cmd.Flags().Float64Var(&req.MonthlyExpenses, "expenses", 0, "monthly living expenses")
	cmd.Flags().Float64Var(&req.ExistingMonthlyDebt, "debt", 0, "existing monthly loan repayments")
	cmd.Flags().StringVar(&req.EmploymentType, "employment", "salaried", "salaried, self_employed or business")
	cmd.Flags().IntVar(&req.CreditScore, "credit-score", 0, "credit score (300-900); omitted uses a default")
	cmd.Flags().IntVar(&req.Age, "age", 0, "borrower age; omitted uses a default")
	display.register(cmd)
	_ = cmd.MarkFlagRequired("income")
	return cmd
}
