package main

import (
	"fmt"

	"github.com/legalscan/legalscan/internal/report"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions command for session history.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and manage past crawl sessions",
		Long: `Sessions lists past crawl sessions and their outcomes, and can
re-render the report for a finished session from the stored copies.

Examples:
  # List recent sessions for a user
  legalscan sessions --user cli

  # Re-render the Markdown report for a session
  legalscan sessions --show 4d5e7f18-2b9a-4c3d-8e1f-6a7b8c9d0e1f

  # Delete a session and its stored document copies
  legalscan sessions --delete 4d5e7f18-2b9a-4c3d-8e1f-6a7b8c9d0e1f`,
		RunE: runSessionsCmd,
	}

	cmd.Flags().StringP("user", "u", "cli", "List sessions owned by this user ID")
	cmd.Flags().Int("limit", 20, "Maximum number of sessions to list")
	cmd.Flags().String("show", "", "Render the report for the session with this ID")
	cmd.Flags().String("delete", "", "Delete the session with this ID")
	cmd.Flags().String("db-dir", "", "Directory for the SQLite cache database (default: XDG data directory)")

	return cmd
}

// runSessionsCmd executes the sessions command.
func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	if sessionID, err := cmd.Flags().GetString("show"); err != nil {
		return err
	} else if sessionID != "" {
		sess, err := db.GetSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if sess == nil {
			return fmt.Errorf("no session with ID %s", sessionID)
		}

		sessionReport, err := report.Build(ctx, db, sess)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		writer := report.NewMarkdownWriter(cmd.OutOrStdout())
		_, err = writer.Write(sessionReport)
		return err
	}

	if sessionID, err := cmd.Flags().GetString("delete"); err != nil {
		return err
	} else if sessionID != "" {
		deleted, err := db.DeleteSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if !deleted {
			return fmt.Errorf("no session with ID %s", sessionID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session: %s\n", sessionID)
		return nil
	}

	userID, err := cmd.Flags().GetString("user")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	sessions, err := db.ListSessions(ctx, userID, limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintf(out, "No sessions for user %s\n", userID)
		return nil
	}

	for _, sess := range sessions {
		fmt.Fprintf(out, "%s  %-10s  %s\n", sess.ID, sess.Status, sess.URL)
		fmt.Fprintf(out, "  requested: %s  documents: %d  analyzed: %d\n",
			sess.CreatedAt.Format("2006-01-02 15:04:05 MST"), sess.DocumentCount, sess.AnalyzedCount)
		if sess.ErrorMessage != "" {
			fmt.Fprintf(out, "  error: %s\n", sess.ErrorMessage)
		}
		fmt.Fprintln(out)
	}

	return nil
}
