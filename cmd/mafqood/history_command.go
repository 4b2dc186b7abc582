package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mafqood/internal/backend"
	"mafqood/internal/match"
	"mafqood/internal/session"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var showAll bool
	var highOnly bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your reported items and their suggested matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *session.Store) error {
				client, err := ctx.newClient(store)
				if err != nil {
					return err
				}

				history, err := client.History(cmd.Context(), currentUserID(cmd.Context(), store))
				if err != nil {
					// The read path degrades to an empty result set so the
					// listing stays usable; transport errors still surface
					// for problems the user can act on.
					if errors.Is(err, backend.ErrServer) {
						ctx.ensureLogger().Warn("history fetch failed", "error", err)
						history = match.History{}
					} else {
						return err
					}
				}

				filter := func(matches []match.Match) []match.Match {
					switch {
					case highOnly:
						return highMatches(matches)
					case showAll:
						return matches
					default:
						return displayableMatches(matches)
					}
				}

				if ctx.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), historyJSON(history, filter))
				}

				out := cmd.OutOrStdout()
				printSide := func(label string, groups []match.Group) {
					fmt.Fprintf(out, "%s (%d)\n", label, len(groups))
					for _, group := range groups {
						fmt.Fprintf(out, "  %s  %s  [%s, %s]\n", group.Item.ID, group.Item.Title, group.Item.Category, group.Item.Status)
						surfaced := filter(group.Matches)
						if len(surfaced) == 0 {
							continue
						}
						fmt.Fprintln(out, indent(renderMatches(surfaced), "  "))
					}
				}
				printSide("Lost items", history.Lost)
				printSide("Found items", history.Found)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Include matches below the inclusion threshold")
	cmd.Flags().BoolVar(&highOnly, "high-only", false, "Only show high matches")
	return cmd
}

func highMatches(matches []match.Match) []match.Match {
	high := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if m.IsHigh() {
			high = append(high, m)
		}
	}
	return high
}

func newItemCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "item <id>",
		Short: "Show a single item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *session.Store) error {
				client, err := ctx.newClient(store)
				if err != nil {
					return err
				}
				item, err := client.Item(cmd.Context(), args[0], currentUserID(cmd.Context(), store))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), itemJSON(item))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", item.ID)
				fmt.Fprintf(out, "Type:      %s\n", item.Type)
				fmt.Fprintf(out, "Status:    %s\n", item.Status)
				fmt.Fprintf(out, "Title:     %s\n", item.Title)
				fmt.Fprintf(out, "Category:  %s\n", item.Category)
				fmt.Fprintf(out, "Location:  %s\n", joinNonEmpty(item.Location, item.LocationDetail))
				fmt.Fprintf(out, "When:      %s\n", item.DateTime)
				if item.Description != "" {
					fmt.Fprintf(out, "Details:   %s\n", item.Description)
				}
				fmt.Fprintf(out, "Image:     %s\n", item.ImageURL)
				return nil
			})
		},
	}
}

func joinNonEmpty(primary, secondary string) string {
	if secondary == "" {
		return primary
	}
	if primary == "" {
		return secondary
	}
	return primary + " - " + secondary
}
