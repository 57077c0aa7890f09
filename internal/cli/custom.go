package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/zikr/internal/practice"
)

// Execute implements the go-flags Commander interface for CustomAddCommand.
func (c *CustomAddCommand) Execute(args []string) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("--name is required for custom add")
	}
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *CustomAddCommand) executeWithEnv(e *env) error {
	entry, err := practice.NewEntry(c.Name, c.Arabic, c.Goal)
	if err != nil {
		return err
	}
	if err := e.registry.Add(context.Background(), entry); err != nil {
		return fmt.Errorf("custom practice not saved: %w", err)
	}

	if wantJSON(c.globals) {
		return printJSON(entry)
	}
	fmt.Printf("Added %s (goal %d)\n", entry.Name, entry.Goal)
	fmt.Printf("  ID: %s\n", entry.ID)
	return nil
}

// Execute implements the go-flags Commander interface for CustomRemoveCommand.
func (c *CustomRemoveCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *CustomRemoveCommand) executeWithEnv(e *env) error {
	id := strings.TrimPrefix(strings.TrimSpace(c.Args.ID), "custom_")
	if err := e.registry.Remove(context.Background(), id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}

	if wantJSON(c.globals) {
		return printJSON(map[string]interface{}{"id": id, "removed": true})
	}
	fmt.Printf("Removed custom practice %s and its counts.\n", id)
	return nil
}
