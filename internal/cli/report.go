package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/haatos/simple-ci-metrics/internal/history"
	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

type reportOptions struct {
	job    string
	file   string
	format string
}

func newReportCommand() *cobra.Command {
	opts := new(reportOptions)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the metrics of a job",
		Long: "Print the metrics of a job, read from the database with --job or from a " +
			"history file with --file. Output is a table on a terminal and JSON otherwise.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := opts.format
			if format == "" {
				format = defaultFormat(os.Stdout)
			}
			if format != formatJSON && format != formatTable {
				return fmt.Errorf("unknown format %q", format)
			}

			r, err := loadReport(cmd, opts)
			if err != nil {
				return err
			}
			if format == formatTable {
				return writeReportTable(cmd.OutOrStdout(), r, time.Now())
			}
			return writeReportJSON(cmd.OutOrStdout(), r)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.job, "job", "", "name of a job in the database")
	flags.StringVar(&opts.file, "file", "", "path of a YAML history file")
	flags.StringVar(&opts.format, "format", "", "output format (json, table)")
	cmd.MarkFlagsOneRequired("job", "file")
	cmd.MarkFlagsMutuallyExclusive("job", "file")
	return cmd
}

type report struct {
	Job     string
	Metrics *metrics.JobMetrics
}

func loadReport(cmd *cobra.Command, opts *reportOptions) (*report, error) {
	if opts.file != "" {
		f, err := history.Load(opts.file)
		if err != nil {
			return nil, err
		}
		return &report{
			Job:     f.Job,
			Metrics: metrics.NewJobMetrics(f.Records(), clockwork.NewRealClock()),
		}, nil
	}

	a, err := openApp(settings.Settings)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	j, err := a.jobService.GetJobByName(cmd.Context(), opts.job)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", opts.job, err)
	}
	jr, err := a.metricsService.GetJobMetrics(cmd.Context(), j.JobID)
	if err != nil {
		return nil, err
	}
	return &report{Job: j.Name, Metrics: jr.Metrics}, nil
}

func defaultFormat(f *os.File) string {
	if term.IsTerminal(int(f.Fd())) {
		return formatTable
	}
	return formatJSON
}

type reportJSON struct {
	Job     string           `json:"job"`
	Runs    int              `json:"runs"`
	Metrics metrics.Export   `json:"metrics"`
	Columns []metrics.Column `json:"columns"`
}

func writeReportJSON(w io.Writer, r *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportJSON{
		Job:     r.Job,
		Runs:    len(r.Metrics.Records()),
		Metrics: r.Metrics.Export(),
		Columns: r.Metrics.Columns(),
	})
}

func writeReportTable(w io.Writer, r *report, now time.Time) error {
	records := r.Metrics.Records()
	summary := fmt.Sprintf("%s: %d runs", r.Job, len(records))
	if len(records) > 0 {
		summary += ", last run " + humanize.RelTime(records[0].StartTime, now, "ago", "from now")
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE\tRUN")
	for _, c := range r.Metrics.Columns() {
		run := "-"
		if c.RunID != nil {
			run = fmt.Sprintf("#%d", *c.RunID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.DisplayName, c.Text, run)
	}
	return tw.Flush()
}
