/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wefund/domain"
	"wefund/infrastructure/memstore"
	"wefund/usecase"
)

const (
	demoOwner     = "0:0000000000000000000000000000000000000000000000000000000000000001"
	demoToken     = "0:0000000000000000000000000000000000000000000000000000000000000002"
	demoRecipient = "0:0000000000000000000000000000000000000000000000000000000000000003"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Runs a pot with threshold 100 through deposits of 60, 50 and 10 in memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := usecase.NewDefaultDispatcher(memstore.New())
		return runDemo(cmd.Context(), d)
	},
}

func runDemo(ctx context.Context, d *usecase.Dispatcher) error {
	owner := domain.MessageInfo{Sender: demoOwner}
	token := domain.MessageInfo{Sender: demoToken}

	fmt.Println("------------- INSTANTIATE -----------------")
	if err := instantiate(ctx, d, owner, domain.Instantiate{TokenAddr: demoToken}); err != nil {
		return err
	}

	fmt.Println("------------- CREATE POT -----------------")
	res, err := d.Execute(ctx, owner, domain.CreatePot{TargetAddr: demoRecipient, Threshold: domain.NewUint128(100)})
	if err != nil {
		return err
	}
	printResponse(res)
	potID := res.Data.(domain.Uint128)

	for _, amount := range []uint64{60, 50, 10} {
		fmt.Printf("------------- DEPOSIT %v -----------------\n", amount)
		if err := execute(ctx, d, token, domain.Deposit{PotID: potID, Amount: domain.NewUint128(amount)}); err != nil {
			return err
		}
	}

	fmt.Println("------------- RESULT -----------------")
	return query(ctx, d, domain.GetPot{ID: potID})
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
