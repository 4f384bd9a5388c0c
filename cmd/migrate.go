/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wefund/interface/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates the ledger and instruction tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultDependencyInject()

		if err := repository.Migrate(cmd.Context(), dbHandler); err != nil {
			return err
		}
		fmt.Println("✅ schema is up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
