package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/phonebook/internal/csvload"
	"github.com/JonMunkholm/phonebook/internal/logging"
	"github.com/JonMunkholm/phonebook/internal/store"
)

func newImportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored contact list with a CSV file",
		Long: `Load a CSV contact list and store it in the database, replacing
the previous list in a single transaction. Requires DATABASE_URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.csvFile, "csv-file", "", "CSV file with the contact list")
	_ = cmd.MarkFlagRequired("csv-file")
	return cmd
}

func runImport(ctx context.Context, opts *options) error {
	ctx, _ = logging.WithRunID(ctx)

	// Load first so a bad file never touches the stored list.
	contacts, err := csvload.LoadFile(ctx, opts.csvFile)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, opts.cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := st.Replace(ctx, contacts)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("import finished", "input", opts.csvFile, "rows", n)
	fmt.Printf("Imported %d contacts from %s\n", n, opts.csvFile)
	return nil
}
