// Command phonebook turns a CSV contact list into a LaTeX phone book.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/phonebook/internal/config"
	"github.com/JonMunkholm/phonebook/internal/csvload"
	"github.com/JonMunkholm/phonebook/internal/logging"
	"github.com/JonMunkholm/phonebook/internal/phonebook"
	"github.com/JonMunkholm/phonebook/internal/store"
)

// options holds the flags shared by all commands.
type options struct {
	csvFile    string
	configFile string
	outDir     string
	fromDB     bool

	cfg *config.Config
}

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		msg := phonebook.MapError(err)
		slog.Error("phonebook failed", "error", err, "code", msg.Code)
		fmt.Fprintf(os.Stderr, "phonebook: %v\n%s (%s). %s\n", err, msg.Message, msg.Code, msg.Action)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "phonebook",
		Short: "Generate a LaTeX phone book from a CSV contact list",
		Long: `Generate a LaTeX phone book from a CSV contact list.

The CSV needs the columns name, phone, cellular, sort and frontpage.
The document is written next to the input as generated_phone_book.tex,
or into --out-dir when given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFile(opts.configFile)
			if err != nil {
				return err
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML file overriding the document labels")
	root.Flags().StringVar(&opts.csvFile, "csv-file", "", "CSV file with the contact list")
	root.Flags().StringVar(&opts.outDir, "out-dir", "", "directory for the generated document (default: next to the CSV)")
	root.Flags().BoolVar(&opts.fromDB, "from-db", false, "read the contact list from the database instead of a CSV")
	root.MarkFlagsOneRequired("csv-file", "from-db")
	root.MarkFlagsMutuallyExclusive("csv-file", "from-db")

	root.AddCommand(newImportCmd(opts), newServeCmd(opts))
	return root
}

// runGenerate writes one phone book document and reports where it went.
func runGenerate(ctx context.Context, opts *options) error {
	ctx, runID := logging.WithRunID(ctx)
	log := logging.WithFields(ctx, "input", opts.csvFile, "from_db", opts.fromDB)
	log.Info("generation started", "run_id", runID)

	books := phonebook.NewService(opts.cfg.Phonebook)

	var (
		path string
		err  error
	)
	switch {
	case opts.fromDB:
		if opts.outDir == "" {
			return fmt.Errorf("--from-db needs --out-dir")
		}
		path, err = generateFromDB(ctx, opts, books)
	case opts.outDir != "":
		path, err = generateInto(ctx, opts, books)
	default:
		path, err = books.GenerateFile(ctx, opts.csvFile)
	}
	if err != nil {
		return err
	}

	log.Info("generation finished", "output", path)
	return nil
}

func generateInto(ctx context.Context, opts *options, books *phonebook.Service) (string, error) {
	contacts, err := csvload.LoadFile(ctx, opts.csvFile)
	if err != nil {
		return "", err
	}
	return books.WriteBook(ctx, opts.outDir, contacts)
}

func generateFromDB(ctx context.Context, opts *options, books *phonebook.Service) (string, error) {
	st, err := store.Open(ctx, opts.cfg.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()

	contacts, err := st.List(ctx)
	if err != nil {
		return "", err
	}
	return books.WriteBook(ctx, opts.outDir, contacts)
}
