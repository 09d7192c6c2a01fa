package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/listings"
	"github.com/Paladinnu/paladinspalace/internal/core/store"
	"github.com/Paladinnu/paladinspalace/internal/observability"
)

func price(v int64) *int64 { return &v }

func cat(c core.Category) *core.Category { return &c }

// seedListings covers every category so local search, filters, and sorting
// have something to chew on.
var seedListings = []listings.CreateInput{
	{
		SellerID: "seed-armurier", Title: "Cuțit de vânătoare", Description: "Lamă nouă, teacă inclusă",
		Price: price(1200), Category: cat(core.CategoryWeapons),
		Attributes: map[string]any{"tip": "knife", "stare": "noua"},
	},
	{
		SellerID: "seed-armurier", Title: "Pistol MK2 modificat", Description: "Încărcător extins",
		Price: price(8500), Category: cat(core.CategoryWeapons), IsGold: true,
		Attributes: map[string]any{"tip": "pistol_mk2", "stare": "folosita"},
	},
	{
		SellerID: "seed-armurier", Title: "Assault Rifle de colecție",
		Price:      price(25000),
		Category:   cat(core.CategoryWeapons),
		Attributes: map[string]any{"tip": "assault_rifle", "stare": "noua"},
	},
	{
		SellerID: "seed-farmacist", Title: "Marijuana premium", Description: "Cultivată local",
		Price: price(300), Category: cat(core.CategoryDrugs),
		Attributes: map[string]any{"tip": "marijuana", "cantitate": 50, "unitate": "grame"},
	},
	{
		SellerID: "seed-dealer", Title: "Sultan RS tunat", Description: "Motor forjat, full tuning",
		Price: price(145000), Category: cat(core.CategoryVehicles), IsGold: true,
		Attributes: map[string]any{"brand": "Sultan", "vtype": "sport"},
	},
	{
		SellerID: "seed-dealer", Title: "Faggio pentru livrări",
		Category:   cat(core.CategoryVehicles),
		Attributes: map[string]any{"brand": "Faggio", "vtype": "moto"},
	},
	{
		SellerID: "seed-bancher", Title: "Cumpăr bani murdari", Description: "Plata pe loc",
		Category: cat(core.CategoryExchange),
		Attributes: map[string]any{
			"actiune": "cumpara", "procent": 15, "suma": 500000,
		},
	},
	{
		SellerID: "seed-negustor", Title: "Cămașă de gală", Description: "Mărimea L, purtată o dată",
		Price: price(250), Category: cat(core.CategoryItems),
	},
	{
		SellerID: "seed-mester", Title: "Reparații auto la domiciliu",
		Price: price(2000), Category: cat(core.CategoryServices),
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo listings for local development",
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
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		svc := listings.NewService(st, observability.CLILogger)
		for _, in := range seedListings {
			if _, err := svc.Create(cmd.Context(), in); err != nil {
				return fmt.Errorf("seed %q: %w", in.Title, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d listings\n", len(seedListings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
