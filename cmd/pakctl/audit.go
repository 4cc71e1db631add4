package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pakkit/pak/order"
)

var auditOrder string

func init() {
	rootCmd.AddCommand(newAuditCmd())
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <archive>",
		Short: "Report entries out of sorted order",
		Long: `The audit command compares the entry order with a full sort and prints
every position that disagrees.

Orders:
  ordinal  case-insensitive ordinal
  class    digits < underscore < letters < other, case-insensitive

Example:
  pakctl audit data.idx --order class`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(args)
		},
	}
	cmd.Flags().StringVar(&auditOrder, "order", "ordinal", "Sort order: ordinal or class")
	return cmd
}

func runAudit(args []string) error {
	o, ok := order.Parse(auditOrder)
	if !ok {
		return fmt.Errorf("unknown order %q", auditOrder)
	}
	c, closer, err := openArchive(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer closer.Close()

	violations := c.AuditSort(o)
	if jsonOut {
		if violations == nil {
			violations = []order.Violation{}
		}
		return printJSON(violations)
	}
	if len(violations) == 0 {
		printInfo("✓ %d entries sorted (%s)\n", c.Count(), o)
		return nil
	}
	for _, v := range violations {
		printInfo("%5d  %-24s expected %s\n", v.Position, v.Actual, v.Expected)
	}
	printInfo("%d of %d entries out of order (%s)\n", len(violations), c.Count(), o)
	return nil
}
