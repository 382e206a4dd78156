package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/usecase"
	"github.com/cartwise/backend/pkg/logging"
)

var (
	flagItems    string
	flagProducts string
	flagDeals    string
	flagRetailer string
	flagJSON     bool

	flagNameBrand   bool
	flagOrganic     bool
	flagBulk        bool
	flagCostSavings bool
)

var rootCmd = &cobra.Command{
	Use:   "cartcli",
	Short: "Match a shopping list against a retailer catalog",
	Long: "Offline cart builder: reads a shopping list, product catalog, and deal\n" +
		"feed from JSON files and prints the matched cart with estimated savings.",
	Example: `  cartcli --items list.json --products catalog.json --retailer walmart
  cartcli --items list.json --products catalog.json --deals deals.json --retailer kroger --cost-savings
  cartcli --items list.json --products catalog.json --retailer target --organic --json`,
	RunE: runCart,
}

func init() {
	rootCmd.SilenceUsage = true

	f := rootCmd.Flags()
	f.StringVar(&flagItems, "items", "", "Path to shopping list JSON file (required)")
	f.StringVar(&flagProducts, "products", "", "Path to product catalog JSON file (required)")
	f.StringVar(&flagDeals, "deals", "", "Path to deals JSON file")
	f.StringVarP(&flagRetailer, "retailer", "r", "", "Retailer ID, e.g. walmart (required)")
	f.BoolVar(&flagJSON, "json", false, "Output the full cart payload as JSON")

	f.BoolVar(&flagNameBrand, "name-brand", false, "Prefer name-brand products")
	f.BoolVar(&flagOrganic, "organic", false, "Prefer organic products")
	f.BoolVar(&flagBulk, "bulk", false, "Prefer bulk pack sizes")
	f.BoolVar(&flagCostSavings, "cost-savings", false, "Prioritize cost savings")

	cobra.CheckErr(rootCmd.MarkFlagRequired("items"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("products"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("retailer"))
}

func runCart(cmd *cobra.Command, _ []string) error {
	var items []domain.ShoppingListItem
	if err := readJSONFile(flagItems, &items); err != nil {
		return fmt.Errorf("reading shopping list: %w", err)
	}

	var products []domain.RetailerProduct
	if err := readJSONFile(flagProducts, &products); err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	var deals []domain.Deal
	if flagDeals != "" {
		if err := readJSONFile(flagDeals, &deals); err != nil {
			return fmt.Errorf("reading deals: %w", err)
		}
	}

	prefs := preferencesFromFlags()

	engine := usecase.NewMatchEngine(usecase.DefaultTables(), usecase.EngineConfig{})
	cartService := usecase.NewCartService(engine, usecase.CartConfig{})

	payload, err := cartService.BuildCart(cmd.Context(), items, flagRetailer, products, deals, prefs)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	printCart(cmd, payload)
	return nil
}

// preferencesFromFlags returns nil when no preference flag was set so the
// engine treats the run as preference-free
func preferencesFromFlags() *domain.UserPreferences {
	if !flagNameBrand && !flagOrganic && !flagBulk && !flagCostSavings {
		return nil
	}
	return &domain.UserPreferences{
		PreferNameBrand:       flagNameBrand,
		PreferOrganic:         flagOrganic,
		BuyInBulk:             flagBulk,
		PrioritizeCostSavings: flagCostSavings,
	}
}

func printCart(cmd *cobra.Command, payload *domain.CartPayload) {
	out := cmd.OutOrStdout()

	for _, line := range payload.Items {
		fmt.Fprintf(out, "%-30s -> %-35s $%.2f", line.Item.ProductName, line.Product.Name,
			float64(line.EstimatedPrice)/100)
		if line.Savings > 0 {
			fmt.Fprintf(out, "  (save $%.2f)", float64(line.Savings)/100)
		}
		fmt.Fprintf(out, "  [%s %.0f%%]\n", line.MatchType, line.MatchConfidence*100)
	}

	for _, unmatched := range payload.UnmatchedItems {
		fmt.Fprintf(out, "%-30s -> no match (%s)\n", unmatched.Item.ProductName, unmatched.Reason)
	}

	fmt.Fprintf(out, "\nEstimated total: $%.2f\n", float64(payload.TotalEstimatedValue)/100)
	if payload.DealsSaved > 0 {
		fmt.Fprintf(out, "Saved with deals: $%.2f\n", float64(payload.DealsSaved)/100)
	}
	fmt.Fprintf(out, "Matched %d of %d items\n",
		len(payload.Items), len(payload.Items)+len(payload.UnmatchedItems))
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func main() {
	logging.Setup()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
