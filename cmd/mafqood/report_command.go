package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mafqood/internal/backend"
	"mafqood/internal/match"
	"mafqood/internal/session"
	"mafqood/internal/upload"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a lost or found item",
	}
	cmd.AddCommand(newReportSideCommand(ctx, "lost", "Report a lost item"))
	cmd.AddCommand(newReportSideCommand(ctx, "found", "Report a found item"))
	return cmd
}

func newReportSideCommand(ctx *commandContext, side, short string) *cobra.Command {
	var imageURI string
	var nameHint string
	var fields upload.Fields

	cmd := &cobra.Command{
		Use:   side,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *session.Store) error {
				client, err := ctx.newClient(store)
				if err != nil {
					return err
				}

				report := backend.Report{
					ImageURI:     imageURI,
					FileNameHint: nameHint,
					Fields:       fields,
					UserID:       currentUserID(cmd.Context(), store),
				}

				var group match.Group
				if side == "lost" {
					group, err = client.ReportLost(cmd.Context(), report)
				} else {
					group, err = client.ReportFound(cmd.Context(), report)
				}
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), groupJSON(group))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Reported %s item %s (%s)\n", side, group.Item.ID, group.Item.Title)
				surfaced := displayableMatches(group.Matches)
				if len(surfaced) == 0 {
					fmt.Fprintln(out, "No matches yet; you will be notified when one appears.")
					return nil
				}
				fmt.Fprintf(out, "Possible matches (%d):\n", len(surfaced))
				fmt.Fprintln(out, renderMatches(surfaced))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&imageURI, "image", "", "Image path or URL")
	cmd.Flags().StringVar(&nameHint, "filename", "", "Filename hint for the upload")
	cmd.Flags().StringVar(&fields.Title, "title", "", "Item title")
	cmd.Flags().StringVar(&fields.Location, "location", "", "Where the item was "+side)
	cmd.Flags().StringVar(&fields.LocationDetail, "location-detail", "", "Specific place details (optional)")
	cmd.Flags().StringVar(&fields.DateTime, "when", "", "When the item was "+side)
	cmd.Flags().StringVar(&fields.Description, "description", "", "Detailed description (optional)")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("when")
	return cmd
}

// displayableMatches applies the inclusion threshold; assembly keeps
// everything, surfaces filter.
func displayableMatches(matches []match.Match) []match.Match {
	surfaced := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if m.Displayable() {
			surfaced = append(surfaced, m)
		}
	}
	return surfaced
}
