package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artifex-data/heimr/internal/db"
	"github.com/artifex-data/heimr/internal/records"
	"github.com/artifex-data/heimr/internal/search"
)

func newSearchIndexCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search-index",
		Short: "Rebuild the local address search index from the record store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			gdb, err := db.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			entries, err := records.NewStore(gdb).SearchIndexRows(cmd.Context())
			if err != nil {
				return err
			}

			ix, err := search.Open(cfg.SearchIndexPath)
			if err != nil {
				return err
			}
			defer ix.Close()

			if err := ix.Build(cmd.Context(), entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d addresses into %s\n", len(entries), cfg.SearchIndexPath)
			return nil
		},
	}
}

func newSearchCmd(cfgPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Query the local address search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}

			ix, err := search.Open(cfg.SearchIndexPath)
			if err != nil {
				return err
			}
			defer ix.Close()

			ids, err := ix.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}

			gdb, err := db.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			var rows []records.Address
			if err := gdb.WithContext(cmd.Context()).Where("address_id IN ?", ids).Find(&rows).Error; err != nil {
				return err
			}
			byID := make(map[int64]records.Address, len(rows))
			for _, r := range rows {
				byID[r.AddressID] = r
			}
			for _, id := range ids {
				if r, ok := byID[id]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s, %s\n", r.AddressID, r.StLookupStr, r.City)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max results")
	return cmd
}
