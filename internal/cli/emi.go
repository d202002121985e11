package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/domain/service"
	"github.com/homefinder/loancalc/pkg/money"
)

type displayFlags struct {
	currency string
	locale   string
	asJSON   bool
}

func (d *displayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.currency, "currency", money.DefaultCurrency, "ISO 4217 currency code")
	cmd.Flags().StringVar(&d.locale, "locale", money.DefaultLocale, "BCP 47 locale for number formatting")
	cmd.Flags().BoolVar(&d.asJSON, "json", false, "print the raw result as JSON")
}

func emiCmd(a *app) *cobra.Command {
	var (
		req     dto.CalculateEMIRequest
		display displayFlags
	)

	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Calculate the monthly instalment of a loan",
		Example: "  loancalc emi --principal 2500000 --rate 8.5 --years 20\n" +
			"  loancalc emi --principal 500000 --rate 9 --years 5 --yearly --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepo(a.dbPath)
			if err != nil {
				return err
			}
			req.OwnerID = LocalOwner

			uc := usecase.NewCalculateEMIUseCase(repo, port.NoopPublisher{}, port.NoopCache{}, port.NoopMetrics{}, a.logger)
			resp, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			if display.asJSON {
				return a.printJSON(resp)
			}

			summary, err := usecase.NewShareSummaryUseCase(service.NewEligibilityScorer()).EMI(cmd.Context(), dto.EMISummaryRequest{
				CalculateEMIRequest: req,
				Currency:            display.currency,
				Locale:              display.locale,
			})
			if err != nil {
				return err
			}
			a.println(summary.Text)

			f, err := money.NewFormatter(display.currency, display.locale)
			if err != nil {
				return err
			}
			if req.IncludeYearly {
				a.println("")
				writeYearly(a, f, resp.Yearly)
			}
			if req.IncludeSchedule {
				a.println("")
				writeSchedule(a, f, resp.Schedule)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.Principal, "principal", 0, "loan amount")
	cmd.Flags().Float64Var(&req.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&req.TermYears, "years", 0, "loan tenure in years (1-30)")
	cmd.Flags().BoolVar(&req.IncludeSchedule, "schedule", false, "print the month-by-month schedule")
	cmd.Flags().BoolVar(&req.IncludeYearly, "yearly", false, "print a per-year breakdown")
	display.register(cmd)
	for _, name := range []string{"principal", "rate", "years"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func writeSchedule(a *app, f *money.Formatter, rows []dto.ScheduleEntryResponse) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tPrincipal\tInterest\tBalance\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", r.Month, f.Number(r.Principal), f.Number(r.Interest), f.Number(r.Balance))
	}
	_ = tw.Flush()
}

func writeYearly(a *app, f *money.Formatter, rows []dto.YearlySummaryResponse) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Year\tPrincipal paid\tInterest paid\tClosing balance\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", r.Year, f.Number(r.PrincipalPaid), f.Number(r.InterestPaid), f.Number(r.ClosingBalance))
	}
	_ = tw.Flush()
}
