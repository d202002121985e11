package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/model"
)

func historyCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List calculations recorded in the local history database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.dbPath
			if path == "" {
				path = DefaultDBPath()
			}
			repo, err := a.openRepo(path)
			if err != nil {
				return err
			}

			resp, err := usecase.NewListCalculationsUseCase(repo).Execute(cmd.Context(), dto.ListCalculationsRequest{
				OwnerID: LocalOwner,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return a.printJSON(resp)
			}
			if resp.Count == 0 {
				a.println("No calculations recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tCREATED\tRESULT")
			for _, c := range resp.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Kind, c.CreatedAt.Local().Format(time.DateTime), describeResult(c))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultHistoryLimit, "maximum number of records")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

// describeResult renders the headline number of a stored result.
func describeResult(c dto.CalculationResponse) string {
	switch model.CalculationKind(c.Kind) {
	case model.KindEMI:
		var s model.EMISummary
		if err := json.Unmarshal(c.Result, &s); err != nil {
			return "-"
		}
		return fmt.Sprintf("EMI %.2f over %d months", s.MonthlyPayment, s.Months)
	case model.KindEligibility:
		var r model.EligibilityResult
		if err := json.Unmarshal(c.Result, &r); err != nil {
			return "-"
		}
		return fmt.Sprintf("score %d, max loan %.2f", r.EligibilityScore, r.MaxLoanAmount)
	default:
		return "-"
	}
}
