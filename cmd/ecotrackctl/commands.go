package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/ecotrack/internal/export"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
	"github.com/mamadbah2/ecotrack/internal/service/reporting"
)

type opener func(ctx context.Context) (*session, error)

// newRootCmd builds the command tree; open is called once per subcommand run.
func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "ecotrackctl",
		Short:         "Record and report EcoTrack waste data from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCityCmd(open),
		newIndustryCmd(open),
		newReportCmd(open),
		newExportCmd(open),
	)
	return root
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, open opener, fn func(ctx context.Context, s *session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, s)
}

func newCityCmd(open opener) *cobra.Command {
	var entry recorder.CityEntry

	cmd := &cobra.Command{
		Use:   "city",
		Short: "Add a city's collected weight for a date",
		Example: `  ecotrackctl city --date 2024-01-01 --city Springfield --weight 150`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, open, func(ctx context.Context, s *session) error {
				out, err := s.recorder.RecordCity(ctx, entry)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&entry.Date, "date", "", "collection date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&entry.City, "city", "", "city name")
	cmd.Flags().StringVar(&entry.Weight, "weight", "", "collected weight in kg")
	return cmd
}

func newIndustryCmd(open opener) *cobra.Command {
	var entry recorder.IndustryEntry

	cmd := &cobra.Command{
		Use:   "industry",
		Short: "Add recovered materials for a date",
		Example: `  ecotrackctl industry --date 2024-01-01 --weight 75 --res 4 --cap 2 --cop 1.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, open, func(ctx context.Context, s *session) error {
				out, err := s.recorder.RecordIndustry(ctx, entry)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&entry.Date, "date", "", "recovery date (YYYY-MM-DD)")
	flags.StringVar(&entry.Weight, "weight", "", "recovered weight in kg")
	flags.StringVar(&entry.Res, "res", "", "resistors recovered")
	flags.StringVar(&entry.Cap, "cap", "", "capacitors recovered")
	flags.StringVar(&entry.Iron, "iron", "", "iron parts recovered")
	flags.StringVar(&entry.Mag, "mag", "", "magnets recovered")
	flags.StringVar(&entry.Cop, "cop", "", "copper recovered in kg")
	flags.StringVar(&entry.Sil, "sil", "", "silver recovered in kg")
	return cmd
}

func newReportCmd(open opener) *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the daily sheet of a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, open, func(ctx context.Context, s *session) error {
				day := date
				if day == "" {
					day = s.reporting.Today(time.Local)
				}
				report, err := s.reporting.Daily(ctx, day)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				fmt.Fprintln(cmd.OutOrStdout(), reporting.Digest(report))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "report date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var date, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the figures of a date to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, open, func(ctx context.Context, s *session) error {
				report, err := s.reporting.Compute(ctx, date)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = fmt.Sprintf("ecotrack-%s.xlsx", report.Date)
				}
				if err := export.Save(path, report); err != nil {
					return fmt.Errorf("export %s: %w", date, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "export date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to ecotrack-<date>.xlsx")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
