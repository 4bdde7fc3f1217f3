package handler

import (
	"strings"
	"time"

	"prooflayer/internal/submission/models"
	"prooflayer/internal/submission/service"
)

// IntakeRequest is the body of a public submission. The kind comes from the
// endpoint path.
type IntakeRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	AuthorTitle string `json:"author_title"`
	Rating      int    `json:"rating"`
	Text        string `json:"text"`
	MediaURL    string `json:"media_url"`
}

func (r *IntakeRequest) Normalize() {
	r.AuthorName = strings.TrimSpace(r.AuthorName)
	r.AuthorEmail = strings.TrimSpace(r.AuthorEmail)
	r.AuthorTitle = strings.TrimSpace(r.AuthorTitle)
	r.Text = strings.TrimSpace(r.Text)
	r.MediaURL = strings.TrimSpace(r.MediaURL)
}

func (r *IntakeRequest) toDraft(kind models.Kind) models.Draft {
	return models.Draft{
		Kind:        kind,
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
		AuthorTitle: r.AuthorTitle,
		Rating:      r.Rating,
		Text:        r.Text,
		MediaURL:    r.MediaURL,
	}
}

type IntakeResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	ThankYou string `json:"thank_you_message"`
}

func toIntakeResponse(r *service.Receipt) IntakeResponse {
	return IntakeResponse{
		ID:       r.Submission.ID.String(),
		Kind:     string(r.Submission.Kind),
		Status:   string(r.Submission.Status),
		ThankYou: r.ThankYou,
	}
}

type SubmissionResponse struct {
	ID          string     `json:"id"`
	FormID      string     `json:"form_id"`
	WorkspaceID string     `json:"workspace_id"`
	Kind        string     `json:"kind"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email,omitempty"`
	AuthorTitle string     `json:"author_title,omitempty"`
	Rating      int        `json:"rating"`
	Text        string     `json:"text,omitempty"`
	MediaURL    string     `json:"media_url,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
}

func toResponse(s *models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          s.ID.String(),
		FormID:      s.FormID.String(),
		WorkspaceID: s.WorkspaceID.String(),
		Kind:        string(s.Kind),
		AuthorName:  s.AuthorName,
		AuthorEmail: s.AuthorEmail,
		AuthorTitle: s.AuthorTitle,
		Rating:      s.Rating,
		Text:        s.Text,
		MediaURL:    s.MediaURL,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		ModeratedAt: s.ModeratedAt,
	}
}

type ListSubmissionsResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}
