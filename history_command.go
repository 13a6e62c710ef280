package main

import (
	"context"
	"fmt"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/models"
	"github.com/nijaru/ytsum/storage"
	"github.com/spf13/cobra"
)

type requestFinder interface {
	Find(ctx context.Context, id string) (*models.Request, error)
}

type archiveReader interface {
	GetSummary(ctx context.Context, id string) (*storage.Archived, error)
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var chatID int64
	var limit int
	var show string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled summarization requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := ctx.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()

			if show != "" {
				var archive archiveReader
				client, err := ctx.openArchive(cmd.Context())
				if err != nil {
					return err
				}
				if client != nil {
					archive = client
				}
				text, err := describeRequest(cmd.Context(), repo, archive, show)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			}

			var requests []*models.Request
			if chatID != 0 {
				requests, err = repo.ListByChat(cmd.Context(), chatID, limit)
			} else {
				requests, err = repo.ListRecent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if len(requests) == 0 {
				fmt.Fprintln(out, "No requests recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(requests))
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "Only show requests from this chat")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of requests to show")
	cmd.Flags().StringVar(&show, "show", "", "Print one request with its summary, looking in the archive when the journal has no row")
	return cmd
}

// describeRequest reads a request from the journal, falling back to the
// archive when one is configured.
func describeRequest(ctx context.Context, journal requestFinder, archive archiveReader, id string) (string, error) {
	req, err := journal.Find(ctx, id)
	if err == nil {
		return renderRequest(req), nil
	}
	if !errors.IsNotFound(err) || archive == nil {
		return "", err
	}

	archived, err := archive.GetSummary(ctx, id)
	if err != nil {
		return "", err
	}
	return renderArchived(archived), nil
}
