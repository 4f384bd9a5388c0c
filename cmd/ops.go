/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wefund/domain"
	"wefund/domain/util"
	"wefund/usecase"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes the ledger with its owner and token",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		msg := domain.Instantiate{TokenAddr: token}
		if cmd.Flags().Changed("admin") {
			admin, _ := cmd.Flags().GetString("admin")
			msg.Admin = &admin
		}

		defaultDependencyInject()
		return instantiate(cmd.Context(), dispatcher, domain.MessageInfo{Sender: caller}, msg)
	},
}

var createPotCmd = &cobra.Command{
	Use:   "create-pot",
	Short: "Creates a pot which forwards its tokens to the target once the threshold is reached",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		threshold, err := amountFlag(cmd, "threshold")
		if err != nil {
			return err
		}

		defaultDependencyInject()
		return execute(cmd.Context(), dispatcher, domain.MessageInfo{Sender: caller}, domain.CreatePot{TargetAddr: target, Threshold: threshold})
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Records a token transfer notification for a pot; the caller is the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		potID, err := amountFlag(cmd, "pot")
		if err != nil {
			return err
		}
		amount, err := amountFlag(cmd, "amount")
		if err != nil {
			return err
		}

		defaultDependencyInject()
		return execute(cmd.Context(), dispatcher, domain.MessageInfo{Sender: caller}, domain.Deposit{PotID: potID, Amount: amount})
	},
}

var addProjectCmd = &cobra.Command{
	Use:   "add-project",
	Short: "Registers a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := amountFlag(cmd, "id")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		msg := domain.AddProject{ProjectID: id}
		msg.ProjectWallet, _ = flags.GetString("wallet")
		msg.Name, _ = flags.GetString("name")
		msg.CreatorWallet, _ = flags.GetString("creator")
		msg.Website, _ = flags.GetString("website")
		msg.About, _ = flags.GetString("about")
		msg.Email, _ = flags.GetString("email")
		msg.Ecosystem, _ = flags.GetString("ecosystem")
		msg.Category, _ = flags.GetString("category")

		defaultDependencyInject()
		return execute(cmd.Context(), dispatcher, domain.MessageInfo{Sender: caller}, msg)
	},
}

var backProjectCmd = &cobra.Command{
	Use:   "back-project",
	Short: "Backs a project with the attached native funds",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := amountFlag(cmd, "id")
		if err != nil {
			return err
		}
		funds, err := amountFlag(cmd, "funds")
		if err != nil {
			return err
		}
		backer, _ := cmd.Flags().GetString("backer")

		defaultDependencyInject()
		return execute(cmd.Context(), dispatcher, domain.MessageInfo{Sender: caller, Funds: funds}, domain.BackProject{ProjectID: id, Backer: backer})
	},
}

var potCmd = &cobra.Command{
	Use:   "pot <id>",
	Short: "Shows a pot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := domain.ParseUint128(args[0])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		return query(cmd.Context(), dispatcher, domain.GetPot{ID: id})
	},
}

var projectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Shows a project and its backers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := domain.ParseUint128(args[0])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		return query(cmd.Context(), dispatcher, domain.GetProject{ID: id})
	},
}

// instantiate refuses to run twice against the same ledger.
func instantiate(ctx context.Context, d *usecase.Dispatcher, info domain.MessageInfo, msg domain.Instantiate) error {
	_, err := d.Config(ctx)
	if err == nil {
		return domain.ErrorAlreadyInitialized
	}
	if !errors.Is(err, domain.ErrorNotInitialized) {
		return err
	}
	return execute(ctx, d, info, msg)
}

func execute(ctx context.Context, d *usecase.Dispatcher, info domain.MessageInfo, op domain.Operation) error {
	res, err := d.Execute(ctx, info, op)
	if err != nil {
		return err
	}
	printResponse(res)
	return nil
}

func query(ctx context.Context, d *usecase.Dispatcher, q domain.Query) error {
	result, err := d.Query(ctx, q)
	if err != nil {
		return err
	}

	switch v := result.(type) {
	case domain.Pot:
		printPot(v)
	case domain.ProjectState:
		printProject(v)
	}
	return nil
}

func amountFlag(cmd *cobra.Command, name string) (domain.Uint128, error) {
	value, _ := cmd.Flags().GetString(name)
	amount, err := domain.ParseUint128(value)
	if err != nil {
		return domain.Uint128{}, fmt.Errorf("--%v: %w", name, err)
	}
	return amount, nil
}

func printResponse(res *domain.Response) {
	for _, attr := range res.Attributes {
		fmt.Printf("%-18v %v\n", attr.Key, attr.Value)
	}
	for i, instruction := range res.Instructions {
		fmt.Printf("#%03d %v\n", i+1, instruction)
	}
}

func printPot(pot domain.Pot) {
	fmt.Printf("pot #%v -> %v\n", pot.ID, pot.TargetAddr)
	fmt.Printf("  %v\n", util.ProgressString(pot))
}

func printProject(project domain.ProjectState) {
	fmt.Printf("project #%v %q (%v)\n", project.ProjectID, project.Name, project.ProjectWallet)
	fmt.Printf("  collected: %v\n", util.GramToTonString(project.Collected))
	for i, backer := range project.Backers {
		fmt.Printf("  #%03d %v %v\n", i+1, backer.Backer, util.GramString(backer.Amount))
	}
}

func init() {
	initCmd.Flags().String("token", "", "address of the accepted token")
	initCmd.Flags().String("admin", "", "owner address; defaults to the caller")
	initCmd.MarkFlagRequired("token")

	createPotCmd.Flags().String("target", "", "address receiving the pot's tokens")
	createPotCmd.Flags().String("threshold", "0", "amount which releases the pot")
	createPotCmd.MarkFlagRequired("target")

	depositCmd.Flags().String("pot", "", "pot id")
	depositCmd.Flags().String("amount", "", "deposited amount")
	depositCmd.MarkFlagRequired("pot")
	depositCmd.MarkFlagRequired("amount")

	addProjectCmd.Flags().String("id", "", "project id")
	addProjectCmd.Flags().String("wallet", "", "project wallet")
	addProjectCmd.Flags().String("name", "", "project name")
	addProjectCmd.Flags().String("creator", "", "creator wallet")
	addProjectCmd.Flags().String("website", "", "website")
	addProjectCmd.Flags().String("about", "", "description")
	addProjectCmd.Flags().String("email", "", "contact email")
	addProjectCmd.Flags().String("ecosystem", "", "ecosystem")
	addProjectCmd.Flags().String("category", "", "category")
	addProjectCmd.MarkFlagRequired("id")

	backProjectCmd.Flags().String("id", "", "project id")
	backProjectCmd.Flags().String("backer", "", "backer wallet")
	backProjectCmd.Flags().String("funds", "0", "attached native amount in nano-ton")
	backProjectCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(initCmd, createPotCmd, depositCmd, addProjectCmd, backProjectCmd, potCmd, projectCmd)
}
