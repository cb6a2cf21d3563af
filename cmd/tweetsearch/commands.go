package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tweetsearch/internal/models"
	"tweetsearch/internal/service"
)

// --- migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		database, err := openDatabase(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		database.Close()
		return nil
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print searched phrases, most recent first",
	Long: `Print searched phrases, most recent first.

Examples:
  tweetsearch history
  tweetsearch history --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		database, err := openDatabase(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		records, err := service.NewHistoryService(database).RecentSearches(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}
		return printHistory(cmd.OutOrStdout(), records)
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum number of phrases to print (0 prints all)")
}

func printHistory(w io.Writer, records []models.SearchRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PHRASE\tCOUNT\tLAST SEARCHED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.String(), r.Count, r.LastSearchedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
