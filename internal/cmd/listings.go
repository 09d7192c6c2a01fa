package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/listings"
	"github.com/Paladinnu/paladinspalace/internal/core/store"
	"github.com/Paladinnu/paladinspalace/internal/observability"
	"github.com/Paladinnu/paladinspalace/internal/output"
)

var listingsFlags struct {
	query    string
	category string
	seller   string
	sort     string
	limit    int
	cursor   string
	priceMin int64
	priceMax int64
}

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Search listings from the command line",
	Long: `Search the marketplace the same way the HTTP API does: coarse SQL
retrieval, strict attribute filtering, and cursor pagination. Pass the
printed cursor back via --cursor to fetch the next page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		f := core.ListingFilter{
			Limit:    listingsFlags.limit,
			Query:    listingsFlags.query,
			SellerID: listingsFlags.seller,
			Sort:     core.ParseSort(listingsFlags.sort),
		}
		if c := core.Category(listingsFlags.category); core.ValidCategory(c) {
			f.Category = &c
		}
		if listingsFlags.cursor != "" {
			f.Cursor = &listingsFlags.cursor
		}
		if listingsFlags.priceMin > 0 {
			f.PriceMin = &listingsFlags.priceMin
		}
		if listingsFlags.priceMax > 0 {
			f.PriceMax = &listingsFlags.priceMax
		}

		svc := listings.NewService(st, observability.CLILogger)
		page, err := svc.Search(cmd.Context(), f)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), output.FormatListings(page))
		return nil
	},
}

func init() {
	listingsCmd.Flags().StringVarP(&listingsFlags.query, "query", "q", "", "free text query")
	listingsCmd.Flags().StringVar(&listingsFlags.category, "category", "", "category slug (arme, droguri, masini, bani, iteme, servicii)")
	listingsCmd.Flags().StringVar(&listingsFlags.seller, "seller", "", "seller ID")
	listingsCmd.Flags().StringVar(&listingsFlags.sort, "sort", "new", "sort order (new, old, cheap, expensive, alpha)")
	listingsCmd.Flags().IntVar(&listingsFlags.limit, "limit", 0, "page size (max 50)")
	listingsCmd.Flags().StringVar(&listingsFlags.cursor, "cursor", "", "pagination cursor from a previous page")
	listingsCmd.Flags().Int64Var(&listingsFlags.priceMin, "price-min", 0, "minimum price")
	listingsCmd.Flags().Int64Var(&listingsFlags.priceMax, "price-max", 0, "maximum price")

	rootCmd.AddCommand(listingsCmd)
}
