package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tidy/internal/organizer"
)

type categoryListing struct {
	Category   string   `json:"category"`
	Extensions []string `json:"extensions"`
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the active category map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := ctx.categoryMap()
			if err != nil {
				return err
			}

			listings := make([]categoryListing, 0, len(categories.Categories())+1)
			for _, name := range categories.Categories() {
				listings = append(listings, categoryListing{Category: name, Extensions: categories.Extensions(name)})
			}
			listings = append(listings, categoryListing{Category: organizer.CategoryOthers})

			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), listings)
			}

			rows := make([][]string, 0, len(listings))
			for _, listing := range listings {
				exts := strings.Join(listing.Extensions, ", ")
				if listing.Category == organizer.CategoryOthers && exts == "" {
					exts = "(everything else)"
				}
				rows = append(rows, []string{listing.Category, exts})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Extensions"}, rows, nil))
			return nil
		},
	}
}
