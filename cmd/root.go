/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wefund/domain/config"
)

var (
	cfgFile string
	caller  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wefund",
	Short: "Threshold funding ledger",
	Long: `Keeps funding pots and projects in a Postgres ledger. A pot forwards everything it has
collected to its target once the threshold is reached; projects log their backers and forward
every contribution to the project wallet. The 'start' command relays those transfers on chain.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wefund.yaml)")
	rootCmd.PersistentFlags().StringVar(&caller, "caller", "", "address on whose behalf the operation is sent")
	rootCmd.SilenceUsage = true
}

func initConfig() {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		config.AddConfigPath(home)
	}
	config.ReadConfig(cfgFile)
}
