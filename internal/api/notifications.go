package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListNotifications returns the user's notifications, newest first
// (server order).
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	return listJSON[Notification](ctx, c, "/notifications", "notifications", nil)
}

// MarkNotificationRead flags a notification as read and returns the
// authoritative record.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (Notification, error) {
	return postJSON[Notification](ctx, c, "/notifications/"+url.PathEscape(id)+"/read", "notification", nil)
}

// UnreadCount fetches the unread-notification counter. This is the
// polling endpoint; callers treat failures as silent no-ops.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	body, err := c.do(ctx, http.MethodGet, "/notifications/unread_count", nil, nil)
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := decode(body, "unread", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
