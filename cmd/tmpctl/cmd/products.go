package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/varcodes/trackmyprices/internal/api/client"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Query tracked products",
		Long: "Query and inspect products tracked by TrackMyPrices, including\n" +
			"their price history and statistics.",
	}

	productsRoot.AddCommand(
		productsListCmd(),
		productsGetCmd(),
		productsSimilarCmd(),
	)

	return productsRoot
}

func productsListCmd() *cobra.Command {
	var f apiclient.ProductFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked products with optional filters",
		Example: `  # List all products
  tmpctl products list

  # In-stock products under 50, cheapest first
  tmpctl products list --in-stock --max-price 50 --order-by price

  # Search titles
  tmpctl products list --search "desk lamp" --limit 10`,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := newClient().ListProducts(context.Background(), f)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Products) == 0 {
				fmt.Println("No products found.")
				return nil
			}

			fmt.Printf("Showing %d of %d products\n\n", len(resp.Products), resp.Total)
			return printProductsTable(os.Stdout, resp.Products)
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "case-insensitive title search")
	cmd.Flags().BoolVar(&f.InStockOnly, "in-stock", false, "only products currently in stock")
	cmd.Flags().Float64Var(&f.MaxPrice, "max-price", 0, "maximum current price")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "maximum results")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "results to skip")
	cmd.Flags().StringVar(&f.OrderBy, "order-by", "", "sort by (price, discount, updated_at, created_at)")

	return cmd
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product with its price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := newClient().GetProduct(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(os.Stdout, p)
		},
	}
}

func productsSimilarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similar <id>",
		Short: "Show other tracked products worth a look",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			products, err := newClient().SimilarProducts(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(products)
			}

			if len(products) == 0 {
				fmt.Println("No other products tracked.")
				return nil
			}
			return printProductsTable(os.Stdout, products)
		},
	}
}

func trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <url>",
		Short: "Start tracking a product URL",
		Long: "Scrape a product page and store it. Tracking a URL that is\n" +
			"already tracked refreshes it and appends to its price history.",
		Example: `  tmpctl track "https://www.amazon.com/dp/B0EXAMPLE"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, created, err := newClient().TrackProduct(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(p)
			}

			if created {
				fmt.Printf("Now tracking %s\n\n", p.ID)
			} else {
				fmt.Printf("Already tracked, refreshed %s\n\n", p.ID)
			}
			return printProductDetail(os.Stdout, p)
		},
	}
}

func subscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "subscribe <id> <email>",
		Short:   "Subscribe an email address to price alerts for a product",
		Example: `  tmpctl subscribe 6650f0c2a1b2c3d4e5f60718 ann@example.com`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := newClient().Subscribe(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(res)
			}

			switch {
			case !res.Added:
				fmt.Printf("%s is already subscribed.\n", args[1])
			case res.WelcomeSent:
				fmt.Printf("Subscribed %s, welcome email sent.\n", args[1])
			default:
				fmt.Printf("Subscribed %s, welcome email failed: %s\n", args[1], res.WelcomeError)
			}
			return nil
		},
	}
}
