package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"mafqood/internal/items"
	"mafqood/internal/match"
	"mafqood/internal/upload"
)

// Report describes one lost/found submission. UserID is the owning-user
// fallback applied when the backend's echo of the item omits it; it is
// threaded explicitly rather than read from ambient session state.
type Report struct {
	Type         items.Type
	ImageURI     string
	FileNameHint string
	Fields       upload.Fields
	UserID       string
}

// submissionPayload is the backend's response to a report: the stored
// item plus AI-suggested matches from the opposite side.
type submissionPayload struct {
	Item    items.ItemRecord    `json:"item"`
	Matches []match.MatchRecord `json:"matches"`
}

func (c *Client) normalizeOpts(userID string) items.Options {
	return items.Options{BaseURL: c.baseURL, FallbackUserID: userID}
}

// ReportLost submits a lost item report with its image.
func (c *Client) ReportLost(ctx context.Context, report Report) (match.Group, error) {
	report.Type = items.TypeLost
	return c.submit(ctx, report)
}

// ReportFound submits a found item report with its image.
func (c *Client) ReportFound(ctx context.Context, report Report) (match.Group, error) {
	report.Type = items.TypeFound
	return c.submit(ctx, report)
}

func (c *Client) submit(ctx context.Context, report Report) (match.Group, error) {
	var path string
	switch report.Type {
	case items.TypeLost:
		path = c.prefix + "/lost"
	case items.TypeFound:
		path = c.prefix + "/found"
	default:
		return match.Group{}, fmt.Errorf("unknown report type %q", report.Type)
	}

	source := upload.ResolveSource(report.ImageURI, report.FileNameHint, c.http)
	payload := upload.New(source, report.Fields, c.naming)

	var resp submissionPayload
	if err := c.doMultipart(ctx, path, payload, &resp); err != nil {
		return match.Group{}, err
	}

	group, err := match.AssembleGroup(resp.Item, resp.Matches, c.normalizeOpts(report.UserID), c.logger)
	if err != nil {
		return match.Group{}, fmt.Errorf("normalize submission response: %w", err)
	}
	return group, nil
}

// History fetches the user's report history as assembled match groups.
// userID is the owning-user fallback for records that omit it.
func (c *Client) History(ctx context.Context, userID string) (match.History, error) {
	var payload match.HistoryPayload
	if err := c.do(ctx, http.MethodGet, c.prefix+"/history", nil, &payload); err != nil {
		return match.History{}, err
	}
	return match.AssembleHistory(payload, c.normalizeOpts(userID), c.logger), nil
}

// Item fetches a single item by identifier.
func (c *Client) Item(ctx context.Context, id, userID string) (items.Item, error) {
	var rec items.ItemRecord
	if err := c.do(ctx, http.MethodGet, c.prefix+"/items/"+url.PathEscape(id), nil, &rec); err != nil {
		return items.Item{}, err
	}
	item, err := items.Normalize(rec, c.normalizeOpts(userID))
	if err != nil {
		return items.Item{}, fmt.Errorf("normalize item %s: %w", id, err)
	}
	return item, nil
}
