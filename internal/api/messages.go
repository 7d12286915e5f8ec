package api

import (
	"context"
	"net/http"
	"net/url"
)

// MessageFilter narrows ListMessages. Zero value lists everything.
type MessageFilter struct {
	Status      string // draft|ready|sent|responded, empty for all
	RecruiterID string
	Search      string // server-side search, optional
}

func (f MessageFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.RecruiterID != "" {
		q.Set("recruiter_id", f.RecruiterID)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	if len(q) == 0 {
		return nil
	}
	return q
}

// ListMessages returns outreach messages in server order.
func (c *Client) ListMessages(ctx context.Context, filter MessageFilter) ([]Message, error) {
	return listJSON[Message](ctx, c, "/messages", "messages", filter.query())
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, id string) (Message, error) {
	return getJSON[Message](ctx, c, "/messages/"+url.PathEscape(id), "message")
}

// CreateMessage creates a draft outreach message. The draft is
// validated client-side before any network traffic.
func (c *Client) CreateMessage(ctx context.Context, draft MessageDraft) (Message, error) {
	if err := c.validatePayload(draft); err != nil {
		return Message{}, err
	}
	return postJSON[Message](ctx, c, "/messages", "message", draft)
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return deleteJSON(ctx, c, "/messages/"+url.PathEscape(id))
}

// MarkMessageSent flips a message to sent and returns the authoritative
// record for reconciliation.
func (c *Client) MarkMessageSent(ctx context.Context, id string) (Message, error) {
	return postJSON[Message](ctx, c, "/messages/"+url.PathEscape(id)+"/sent", "message", nil)
}

// GetMessageStats fetches the per-status counts for the tab header.
func (c *Client) GetMessageStats(ctx context.Context) (MessageStats, error) {
	return getJSON[MessageStats](ctx, c, "/messages/stats", "stats")
}

// ScoreMessage asks the backend to score a message's quality.
func (c *Client) ScoreMessage(ctx context.Context, id string) (MessageScore, error) {
	var out MessageScore
	body, err := c.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(id)+"/score", nil, nil)
	if err != nil {
		return out, err
	}
	err = decode(body, "score", &out)
	return out, err
}
