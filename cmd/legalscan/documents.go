package main

import (
	"fmt"
	"strings"

	"github.com/legalscan/legalscan/internal/config"
	"github.com/legalscan/legalscan/internal/database"
	"github.com/spf13/cobra"
)

// NewDocumentsCmd creates the documents command for cache administration.
func NewDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Inspect and manage the cached document store",
		Long: `Documents searches and manages the local legal-document cache.

Examples:
  # Search cached documents by URL or title substring
  legalscan documents --search privacy

  # Page through results
  legalscan documents --search example.com --page 2 --limit 10

  # Mark a cached document stale so the next crawl re-fetches it
  legalscan documents --invalidate https://example.com/privacy

  # Delete a cached document and its analysis
  legalscan documents --delete https://example.com/privacy`,
		RunE: runDocumentsCmd,
	}

	cmd.Flags().StringP("search", "s", "", "Search query matched against site, document URL, and title")
	cmd.Flags().Int("page", 1, "Result page (1-based)")
	cmd.Flags().Int("limit", 20, "Results per page")
	cmd.Flags().String("invalidate", "", "Mark the cached document at this URL stale")
	cmd.Flags().String("delete", "", "Delete the cached document at this URL with its analysis")
	cmd.Flags().String("db-dir", "", "Directory for the SQLite cache database (default: XDG data directory)")

	return cmd
}

// runDocumentsCmd executes the documents command.
func runDocumentsCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	if target, err := cmd.Flags().GetString("invalidate"); err != nil {
		return err
	} else if target != "" {
		if err := db.MarkDocumentStale(ctx, target); err != nil {
			return fmt.Errorf("failed to invalidate document: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked stale: %s\n", target)
		return nil
	}

	if target, err := cmd.Flags().GetString("delete"); err != nil {
		return err
	} else if target != "" {
		deleted, err := db.DeleteDocument(ctx, target)
		if err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		if !deleted {
			return fmt.Errorf("no cached document for %s", target)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", target)
		return nil
	}

	query, err := cmd.Flags().GetString("search")
	if err != nil {
		return err
	}
	page, err := cmd.Flags().GetInt("page")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	docs, total, err := db.SearchDocuments(ctx, query, page, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d cached documents", total)
	if query != "" {
		fmt.Fprintf(out, " matching %q", query)
	}
	fmt.Fprintf(out, " (page %d)\n\n", page)

	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.DocumentType.DisplayName()
		}
		fmt.Fprintf(out, "%s\n", title)
		fmt.Fprintf(out, "  url:     %s\n", doc.DocumentURL)
		fmt.Fprintf(out, "  type:    %s  version: %d  status: %s  words: %d\n",
			doc.DocumentType, doc.Version, doc.Status, doc.WordCount)
		fmt.Fprintf(out, "  fetched: %s\n\n", doc.LastFetched.Format("2006-01-02 15:04:05 MST"))
	}

	return nil
}

// openDatabase opens the cache database from the --db-dir flag or the
// XDG default.
func openDatabase(cmd *cobra.Command) (*database.DB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dbDir) == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
