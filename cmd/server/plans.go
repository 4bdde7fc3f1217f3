package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"prooflayer/internal/plans"
)

func newPlansCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Print the plan limits table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printPlans(cmd.OutOrStdout(), output, plans.All())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func printPlans(w io.Writer, format string, all []plans.Limits) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(all)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PLAN", "WORKSPACES", "FORMS/WS", "WIDGETS/WS", "SUBMISSIONS/MO", "WIDGET TYPES", "BRANDING", "MONTHLY", "ANNUAL")
	for _, l := range all {
		branding := "shown"
		if l.RemoveBranding {
			branding = "removable"
		}
		t.Row(
			l.DisplayName,
			limit(l.MaxWorkspaces),
			limit(l.MaxFormsPerWorkspace),
			limit(l.MaxWidgetsPerWorkspace),
			limit(l.MonthlySubmissions),
			strings.Join(l.WidgetTypes, ","),
			branding,
			cents(l.PriceMonthlyCents),
			cents(l.PriceAnnualCents),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func limit(n int) string {
	if n == plans.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(n)
}

func cents(c int64) string {
	if c == 0 {
		return "free"
	}
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}
