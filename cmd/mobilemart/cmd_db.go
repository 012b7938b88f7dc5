package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobilemart/server/config"
	"github.com/mobilemart/server/database/seeders"
	"github.com/mobilemart/server/pkg/store"
)

// bootStore loads config and connects to the document store.
func bootStore(ctx context.Context) (*store.Mongo, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return store.ConnectMongo(ctx, config.MongoURI(), config.MongoDatabase(), config.StoreTimeout())
}

// mobilemart db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the unique indexes the application relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		st, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		fmt.Println("Creating indexes…")
		if err := st.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Println("done")
		return nil
	},
}

// mobilemart db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all registered seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		st, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		fmt.Println("Seeding…")
		return seeders.RunAll(ctx, st)
	},
}
