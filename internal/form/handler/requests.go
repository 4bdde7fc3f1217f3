package handler

import (
	"strings"
	"time"

	"prooflayer/internal/form/models"
	"prooflayer/internal/form/service"
	submission "prooflayer/internal/submission/models"
	dErrors "prooflayer/pkg/domain-errors"
)

type CreateFormRequest struct {
	Name            string   `json:"name"`
	Headline        string   `json:"headline"`
	Prompt          string   `json:"prompt"`
	CollectRating   *bool    `json:"collect_rating"`
	CollectEmail    bool     `json:"collect_email"`
	AllowedKinds    []string `json:"allowed_kinds"`
	ThankYouMessage string   `json:"thank_you_message"`
}

func (r *CreateFormRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateFormRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (r *CreateFormRequest) toSettings() models.Settings {
	collectRating := true
	if r.CollectRating != nil {
		collectRating = *r.CollectRating
	}
	return models.Settings{
		Name:            r.Name,
		Headline:        r.Headline,
		Prompt:          r.Prompt,
		CollectRating:   collectRating,
		CollectEmail:    r.CollectEmail,
		AllowedKinds:    r.AllowedKinds,
		ThankYouMessage: r.ThankYouMessage,
	}
}

type UpdateFormRequest struct {
	Name            *string  `json:"name"`
	Headline        *string  `json:"headline"`
	Prompt          *string  `json:"prompt"`
	CollectRating   *bool    `json:"collect_rating"`
	CollectEmail    *bool    `json:"collect_email"`
	AllowedKinds    []string `json:"allowed_kinds"`
	ThankYouMessage *string  `json:"thank_you_message"`
	Status          *string  `json:"status"`
}

func (r *UpdateFormRequest) Validate() error {
	if r.Status != nil {
		if _, err := models.ParseStatus(*r.Status); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateFormRequest) toUpdate() models.Update {
	u := models.Update{
		Name:            r.Name,
		Headline:        r.Headline,
		Prompt:          r.Prompt,
		CollectRating:   r.CollectRating,
		CollectEmail:    r.CollectEmail,
		AllowedKinds:    r.AllowedKinds,
		ThankYouMessage: r.ThankYouMessage,
	}
	if r.Status != nil {
		status, _ := models.ParseStatus(*r.Status)
		u.Status = &status
	}
	return u
}

type FormResponse struct {
	ID              string    `json:"id"`
	WorkspaceID     string    `json:"workspace_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Headline        string    `json:"headline"`
	Prompt          string    `json:"prompt"`
	CollectRating   bool      `json:"collect_rating"`
	CollectEmail    bool      `json:"collect_email"`
	AllowedKinds    []string  `json:"allowed_kinds"`
	ThankYouMessage string    `json:"thank_you_message"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListFormsResponse struct {
	Forms []FormResponse `json:"forms"`
}

func toResponse(f *models.Form) FormResponse {
	return FormResponse{
		ID:              f.ID.String(),
		WorkspaceID:     f.WorkspaceID.String(),
		Name:            f.Name,
		Slug:            f.Slug,
		Headline:        f.Headline,
		Prompt:          f.Prompt,
		CollectRating:   f.CollectRating,
		CollectEmail:    f.CollectEmail,
		AllowedKinds:    f.AllowedKinds,
		ThankYouMessage: f.ThankYouMessage,
		Status:          string(f.Status),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// PublicFormResponse is what the collection page renders. Endpoints maps
// each accepted kind to its intake path.
type PublicFormResponse struct {
	Slug            string            `json:"slug"`
	Headline        string            `json:"headline"`
	Prompt          string            `json:"prompt"`
	CollectRating   bool              `json:"collect_rating"`
	CollectEmail    bool              `json:"collect_email"`
	AllowedKinds    []string          `json:"allowed_kinds"`
	ThankYouMessage string            `json:"thank_you_message"`
	WorkspaceName   string            `json:"workspace_name"`
	BrandColor      string            `json:"brand_color,omitempty"`
	LogoURL         string            `json:"logo_url,omitempty"`
	Endpoints       map[string]string `json:"endpoints"`
}

func toPublicResponse(p *service.PublicForm) PublicFormResponse {
	f := p.Form
	endpoints := make(map[string]string, len(f.AllowedKinds))
	for _, k := range f.AllowedKinds {
		endpoints[k] = submission.EndpointFor(f.Slug, submission.Kind(k))
	}
	return PublicFormResponse{
		Slug:            f.Slug,
		Headline:        f.Headline,
		Prompt:          f.Prompt,
		CollectRating:   f.CollectRating,
		CollectEmail:    f.CollectEmail,
		AllowedKinds:    f.AllowedKinds,
		ThankYouMessage: f.ThankYouMessage,
		WorkspaceName:   p.Workspace.Name,
		BrandColor:      p.Workspace.BrandColor,
		LogoURL:         p.Workspace.LogoURL,
		Endpoints:       endpoints,
	}
}
