package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/infrastructure/export"
)

func exportCmd(a *app) *cobra.Command {
	var (
		in       model.LoanInputs
		out      string
		title    string
		currency string
		locale   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the amortization schedule to an Excel workbook",
		RunE: func(*cobra.Command, []string) error {
			res, err := model.ComputeEMI(in.Principal, in.AnnualRatePercent, in.TermYears)
			if err != nil {
				return err
			}

			data, err := export.NewXLSXRenderer("loancalc").Render(res, port.RenderOptions{
				Currency: currency,
				Locale:   locale,
				Title:    title,
			})
			if err != nil {
				return fmt.Errorf("render schedule: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			a.logger.Info("schedule exported", "path", out, "bytes", len(data), "months", len(res.Schedule))
			fmt.Fprintf(a.out, "Wrote %d-month schedule to %s\n", len(res.Schedule), out)
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.Principal, "principal", 0, "loan amount")
	cmd.Flags().Float64Var(&in.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&in.TermYears, "years", 0, "loan tenure in years")
	cmd.Flags().StringVarP(&out, "out", "o", "schedule.xlsx", "output file")
	cmd.Flags().StringVar(&title, "title", "", "workbook title")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().StringVar(&locale, "locale", "", "BCP 47 locale")
	for _, name := range []string{"principal", "rate", "years"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
