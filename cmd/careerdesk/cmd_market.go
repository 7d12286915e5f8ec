package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	marketRole   string
	marketRegion string
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Show labor-market data for a role",
	Long: `Show aggregated labor-market data: open roles, median salary, and
in-demand skills for a role in a region.

Example:
  careerdesk market --role "backend engineer" --region "berlin"`,
	RunE: runMarket,
}

func init() {
	marketCmd.Flags().StringVar(&marketRole, "role", "", "Target role (required)")
	marketCmd.Flags().StringVar(&marketRegion, "region", "", "Region, empty for global")
	marketCmd.MarkFlagRequired("role")
}

func runMarket(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := env.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	snap, err := env.client.MarketData(ctx, marketRole, marketRegion)
	if err != nil {
		return err
	}

	region := snap.Region
	if region == "" {
		region = "global"
	}
	fmt.Printf("%s (%s)\n", snap.Role, region)
	fmt.Printf("Open roles:    %d\n", snap.OpenRoles)
	fmt.Printf("Median salary: %d\n", snap.MedianSalary)
	fmt.Printf("Demand index:  %.2f\n", snap.DemandIndex)
	if len(snap.TopSkills) > 0 {
		fmt.Printf("Top skills:    %s\n", strings.Join(snap.TopSkills, ", "))
	}
	return nil
}
