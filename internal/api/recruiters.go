package api

import (
	"context"
	"net/url"
)

// ListRecruiters returns tracked recruiters in server order.
func (c *Client) ListRecruiters(ctx context.Context) ([]Recruiter, error) {
	return listJSON[Recruiter](ctx, c, "/recruiters", "recruiters", nil)
}

// GetRecruiter fetches a single recruiter by id.
func (c *Client) GetRecruiter(ctx context.Context, id string) (Recruiter, error) {
	return getJSON[Recruiter](ctx, c, "/recruiters/"+url.PathEscape(id), "recruiter")
}

// CreateRecruiter adds a recruiter relationship.
func (c *Client) CreateRecruiter(ctx context.Context, draft RecruiterDraft) (Recruiter, error) {
	if err := c.validatePayload(draft); err != nil {
		return Recruiter{}, err
	}
	return postJSON[Recruiter](ctx, c, "/recruiters", "recruiter", draft)
}

// UpdateRecruiter updates a recruiter's editable fields.
func (c *Client) UpdateRecruiter(ctx context.Context, id string, draft RecruiterDraft) (Recruiter, error) {
	if err := c.validatePayload(draft); err != nil {
		return Recruiter{}, err
	}
	return putJSON[Recruiter](ctx, c, "/recruiters/"+url.PathEscape(id), "recruiter", draft)
}

// DeleteRecruiter removes a recruiter.
func (c *Client) DeleteRecruiter(ctx context.Context, id string) error {
	return deleteJSON(ctx, c, "/recruiters/"+url.PathEscape(id))
}
