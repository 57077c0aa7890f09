package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/zikr/internal/report"
)

const milestoneMessage = "ماشاءاللہ! آپ نے مسلسل %d دن ذکر کیا۔"

type statsJSON struct {
	Totals    report.Totals `json:"totals"`
	Streak    int           `json:"streak_days"`
	Milestone bool          `json:"milestone"`
	Records   []recordJSON  `json:"records"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *StatsCommand) executeWithEnv(e *env) error {
	s := e.reporter.Summary(context.Background())

	if wantJSON(c.globals) {
		out := statsJSON{
			Totals:    s.Totals,
			Streak:    s.Streak,
			Milestone: s.Milestone,
			Records:   make([]recordJSON, len(s.Records)),
		}
		for i, r := range s.Records {
			out.Records[i] = toRecordJSON(r)
		}
		return printJSON(out)
	}

	fmt.Println("Zikr Statistics")
	fmt.Println("===============")
	fmt.Printf("Today:         %s\n", formatNumber(int64(s.Totals.Daily)))
	fmt.Printf("This week:     %s\n", formatNumber(int64(s.Totals.Weekly)))
	fmt.Printf("This month:    %s\n", formatNumber(int64(s.Totals.Monthly)))
	fmt.Printf("This year:     %s\n", formatNumber(int64(s.Totals.Yearly)))
	fmt.Printf("All time:      %s\n", formatNumber(int64(s.Totals.Lifetime)))
	fmt.Printf("Streak:        %d days\n", s.Streak)

	if s.Milestone {
		fmt.Println()
		fmt.Printf(milestoneMessage+"\n", s.Streak)
	}

	if len(s.Records) > 0 {
		fmt.Println()
		fmt.Println("Practices:")
		for _, r := range s.Records {
			fmt.Printf("  %-30s today %-8s total %s\n", r.DisplayName, formatNumber(int64(r.DailyCount)), formatNumber(int64(r.TotalCount)))
		}
	}
	return nil
}
