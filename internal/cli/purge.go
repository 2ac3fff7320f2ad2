package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/artifex-data/heimr/internal/db"
)

func newPurgePropertyCmd(cfgPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge-property <property-id>",
		Short: "Delete a property and every row that references it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			propertyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid property id %q", args[0])
			}
			if !force {
				return errors.New("refusing to purge without --force")
			}

			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := db.PurgeProperty(cmd.Context(), sqlDB, propertyID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged property %d\n", propertyID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "actually delete the rows")
	return cmd
}
