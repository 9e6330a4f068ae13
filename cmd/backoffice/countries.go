package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var localOnly bool

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Inspect and mirror reference countries",
}

var countriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reference countries, or the local mirror with --local",
	Args:  cobra.NoArgs,
	RunE:  runCountriesList,
}

var countriesSyncCmd = &cobra.Command{
	Use:   "sync CODE...",
	Short: "Mirror the given ISO alpha-2 codes into the database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCountriesSync,
}

func init() {
	countriesListCmd.Flags().BoolVar(&localOnly, "local", false, "list mirrored countries only")
	countriesCmd.AddCommand(countriesListCmd, countriesSyncCmd)
	rootCmd.AddCommand(countriesCmd)
}

func runCountriesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	list := a.CountryUC.List
	if localOnly {
		list = a.CountryUC.ListLocal
	}
	res, err := list(ctx)
	if err != nil {
		return err
	}
	if !res.IsSuccess {
		return errors.New(res.Message)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tALPHA3\tNAME")
	for _, c := range res.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Code, c.CodeAlpha3, c.Name)
	}
	return tw.Flush()
}

func runCountriesSync(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.Migrate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := a.CountryUC.Sync(ctx, args)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if !res.IsSuccess {
		return errors.New(res.Message)
	}
	cmd.Println(res.Message)
	return nil
}
