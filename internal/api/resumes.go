package api

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// ListResumes returns the user's résumés in server order.
func (c *Client) ListResumes(ctx context.Context) ([]Resume, error) {
	return listJSON[Resume](ctx, c, "/resumes", "resumes", nil)
}

// GetResume fetches a single résumé by id.
func (c *Client) GetResume(ctx context.Context, id string) (Resume, error) {
	return getJSON[Resume](ctx, c, "/resumes/"+url.PathEscape(id), "resume")
}

// UpdateResume updates a résumé's editable fields.
func (c *Client) UpdateResume(ctx context.Context, id string, upd ResumeUpdate) (Resume, error) {
	if err := c.validatePayload(upd); err != nil {
		return Resume{}, err
	}
	return putJSON[Resume](ctx, c, "/resumes/"+url.PathEscape(id), "resume", upd)
}

// DeleteResume removes a résumé.
func (c *Client) DeleteResume(ctx context.Context, id string) error {
	return deleteJSON(ctx, c, "/resumes/"+url.PathEscape(id))
}

// ResumeSuggestions fetches the AI improvement suggestions for a résumé.
func (c *Client) ResumeSuggestions(ctx context.Context, resumeID string) ([]Suggestion, error) {
	return listJSON[Suggestion](ctx, c, "/resumes/"+url.PathEscape(resumeID)+"/suggestions", "suggestions", nil)
}

// ResumeDetail is a résumé joined with its suggestions.
type ResumeDetail struct {
	Resume      Resume
	Suggestions []Suggestion
}

// GetResumeDetail fetches a résumé and its suggestions concurrently.
// If either fetch fails the combined call fails; the detail view has
// no partial-render mode.
func (c *Client) GetResumeDetail(ctx context.Context, id string) (ResumeDetail, error) {
	var detail ResumeDetail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.GetResume(gctx, id)
		if err != nil {
			return err
		}
		detail.Resume = r
		return nil
	})
	g.Go(func() error {
		s, err := c.ResumeSuggestions(gctx, id)
		if err != nil {
			return err
		}
		detail.Suggestions = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return ResumeDetail{}, err
	}
	return detail, nil
}

// ResumeStats is the aggregate the dashboard header shows after a
// delete invalidates the previous numbers.
type ResumeStats struct {
	Count        int `json:"count"`
	AvgATSScore  int `json:"avg_ats_score"`
	BestATSScore int `json:"best_ats_score"`
}

// GetResumeStats fetches résumé aggregates.
func (c *Client) GetResumeStats(ctx context.Context) (ResumeStats, error) {
	return getJSON[ResumeStats](ctx, c, "/resumes/stats", "stats")
}
