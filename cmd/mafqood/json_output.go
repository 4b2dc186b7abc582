package main

import (
	"encoding/json"
	"fmt"
	"io"

	"mafqood/internal/items"
	"mafqood/internal/match"
)

// View models for --json output. Wire-stable, lowercase keys.

type itemView struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category"`
	ImageURL       string `json:"image_url"`
	Location       string `json:"location"`
	LocationDetail string `json:"location_detail,omitempty"`
	DateTime       string `json:"date_time"`
	ContactMethod  string `json:"contact_method"`
	UserID         string `json:"user_id,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type matchView struct {
	ID         string   `json:"id"`
	Item       itemView `json:"item"`
	Similarity int      `json:"similarity"`
	Confidence string   `json:"confidence"`
	High       bool     `json:"high"`
}

type groupView struct {
	Item    itemView    `json:"item"`
	Matches []matchView `json:"matches"`
}

type historyView struct {
	Lost  []groupView `json:"lost_items"`
	Found []groupView `json:"found_items"`
}

func itemJSON(item items.Item) itemView {
	return itemView{
		ID:             item.ID,
		Type:           string(item.Type),
		Status:         string(item.Status),
		Title:          item.Title,
		Description:    item.Description,
		Category:       string(item.Category),
		ImageURL:       item.ImageURL,
		Location:       item.Location,
		LocationDetail: item.LocationDetail,
		DateTime:       item.DateTime,
		ContactMethod:  string(item.ContactMethod),
		UserID:         item.UserID,
		CreatedAt:      item.CreatedAt,
	}
}

func matchJSON(m match.Match) matchView {
	return matchView{
		ID:         m.ID,
		Item:       itemJSON(m.Item),
		Similarity: m.Similarity,
		Confidence: string(m.Confidence),
		High:       m.IsHigh(),
	}
}

func groupJSON(group match.Group) groupView {
	view := groupView{Item: itemJSON(group.Item), Matches: make([]matchView, 0, len(group.Matches))}
	for _, m := range group.Matches {
		view.Matches = append(view.Matches, matchJSON(m))
	}
	return view
}

func historyJSON(history match.History, filter func([]match.Match) []match.Match) historyView {
	convert := func(groups []match.Group) []groupView {
		views := make([]groupView, 0, len(groups))
		for _, group := range groups {
			filtered := group
			if filter != nil {
				filtered.Matches = filter(group.Matches)
			}
			views = append(views, groupJSON(filtered))
		}
		return views
	}
	return historyView{Lost: convert(history.Lost), Found: convert(history.Found)}
}

func printJSON(w io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
