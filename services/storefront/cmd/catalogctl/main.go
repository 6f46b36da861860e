package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tonstore/pkg/config"
	pkgdb "github.com/Skotchmaster/tonstore/pkg/db"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/loader"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/search"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/service"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
)

func main() {
	config.LoadDotEnv("services/storefront/.env", ".env")
	cfg := config.Load()

	var dsn string
	rootCmd := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Manage the storefront catalog database",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dsn, "db", cfg.DatabaseURL, "database DSN or sqlite file")

	open := func(ctx context.Context) (*gorm.DB, error) {
		gdb, err := pkgdb.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dsn, err)
		}
		if err := repo.Migrate(gdb); err != nil {
			_ = pkgdb.Close(gdb)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return gdb, nil
	}

	rootCmd.AddCommand(migrateCmd(open))
	rootCmd.AddCommand(seedCmd(open))
	rootCmd.AddCommand(listCmd(open))
	rootCmd.AddCommand(indexCmd(open, cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type opener func(ctx context.Context) (*gorm.DB, error)

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog and order tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer pkgdb.Close(gdb)
			fmt.Fprintln(cmd.OutOrStdout(), "Database setup complete.")
			return nil
		},
	}
}

func seedCmd(open opener) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert products from a YAML seed file",
		Example: `  catalogctl seed --file catalog.yaml
  catalogctl seed --file catalog.yaml --db postgres://localhost/tonstore`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := loader.Parse(f)
			if err != nil {
				return err
			}

			gdb, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer pkgdb.Close(gdb)

			n, err := loader.Apply(cmd.Context(), &repo.GormRepo{DB: gdb}, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products from %s\n", n, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func listCmd(open opener) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print model and category of every product",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer pkgdb.Close(gdb)

			products, err := (&repo.GormRepo{DB: gdb}).ListProducts(cmd.Context(), transport.ProductFilter{Category: category})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRODUCT_ID\tMODEL\tCATEGORY\tPRICE")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ProductID, p.Model, p.Category, service.FormatPrice(p.Price))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	return cmd
}

func indexCmd(open opener, cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Push the catalog into the Elasticsearch index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ESURL == "" {
				return fmt.Errorf("ES_URL is not set")
			}

			gdb, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer pkgdb.Close(gdb)

			docs, err := loader.Documents(cmd.Context(), &repo.GormRepo{DB: gdb})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			es, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
			if err != nil {
				return err
			}
			if err := search.NewIndex(es, cfg.ESIndex).IndexProducts(ctx, docs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products into %s\n", len(docs), cfg.ESIndex)
			return nil
		},
	}
}
