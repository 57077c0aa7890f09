package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for TapCommand.
func (c *TapCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *TapCommand) executeWithEnv(e *env) error {
	if c.Count <= 0 {
		return fmt.Errorf("--count must be a positive number, got %d", c.Count)
	}
	ctx := context.Background()

	p, err := e.catalog.Resolve(ctx, c.Args.Practice)
	if err != nil {
		return err
	}

	rec, err := e.records.Increment(ctx, p.Key, c.Count)
	if err != nil {
		return fmt.Errorf("count not saved: %w", err)
	}

	if wantJSON(c.globals) {
		return printJSON(toRecordJSON(rec))
	}

	fmt.Printf("%s +%d\n", rec.DisplayName, c.Count)
	fmt.Printf("  Today: %s  Sets: %d  Set progress: %d/%d  Total: %s\n",
		formatNumber(int64(rec.DailyCount)), rec.CompletedSets(),
		rec.DailyCount%rec.Goal, rec.Goal, formatNumber(int64(rec.TotalCount)))
	return nil
}

// Execute implements the go-flags Commander interface for ResetCommand.
func (c *ResetCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *ResetCommand) executeWithEnv(e *env) error {
	ctx := context.Background()

	p, err := e.catalog.Resolve(ctx, c.Args.Practice)
	if err != nil {
		return err
	}
	if err := e.records.ResetTotal(ctx, p.Key); err != nil {
		return fmt.Errorf("reset not saved: %w", err)
	}

	rec := e.records.Get(ctx, p.Key)
	if wantJSON(c.globals) {
		out := map[string]interface{}{"key": p.Key, "reset": rec != nil}
		if rec != nil {
			out["record"] = toRecordJSON(rec)
		}
		return printJSON(out)
	}

	if rec == nil {
		fmt.Printf("%s has no counts yet.\n", p.Name)
		return nil
	}
	fmt.Printf("Reset total of %s. Today's count (%s) is kept.\n", rec.DisplayName, formatNumber(int64(rec.DailyCount)))
	return nil
}

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *ShowCommand) executeWithEnv(e *env) error {
	ctx := context.Background()

	p, err := e.catalog.Resolve(ctx, c.Args.Practice)
	if err != nil {
		return err
	}
	rec := e.records.Get(ctx, p.Key)

	if wantJSON(c.globals) {
		if rec == nil {
			return printJSON(map[string]interface{}{"key": p.Key, "record": nil})
		}
		return printJSON(toRecordJSON(rec))
	}

	if rec == nil {
		fmt.Printf("%s (%s): no counts yet\n", p.Name, p.Key)
		return nil
	}
	printRecordHuman(rec)
	return nil
}

// Execute implements the go-flags Commander interface for PracticesCommand.
func (c *PracticesCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

type practiceJSON struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Goal   int    `json:"goal"`
	Custom bool   `json:"custom"`
	Today  int    `json:"today"`
	Total  int    `json:"total"`
}

func (c *PracticesCommand) executeWithEnv(e *env) error {
	ctx := context.Background()
	all := e.catalog.All(ctx)

	out := make([]practiceJSON, 0, len(all))
	for _, p := range all {
		row := practiceJSON{ID: p.ID, Key: p.Key, Name: p.Name, Goal: p.Goal, Custom: p.Custom}
		if rec := e.records.Get(ctx, p.Key); rec != nil {
			row.Today = rec.DailyCount
			row.Total = rec.TotalCount
		}
		out = append(out, row)
	}

	if wantJSON(c.globals) {
		return printJSON(out)
	}

	fmt.Printf("%-24s %-6s %8s %8s  %s\n", "ID", "GOAL", "TODAY", "TOTAL", "NAME")
	for _, row := range out {
		id := row.ID
		if row.Custom {
			id = "*" + id
		}
		fmt.Printf("%-24s %-6d %8s %8s  %s\n", id, row.Goal, formatNumber(int64(row.Today)), formatNumber(int64(row.Total)), row.Name)
	}
	return nil
}
