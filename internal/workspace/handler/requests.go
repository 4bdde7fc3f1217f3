package handler

import (
	"strings"
	"time"

	"prooflayer/internal/workspace/models"
	dErrors "prooflayer/pkg/domain-errors"
)

type CreateWorkspaceRequest struct {
	Name       string `json:"name"`
	BrandColor string `json:"brand_color"`
	LogoURL    string `json:"logo_url"`
}

func (r *CreateWorkspaceRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.BrandColor = strings.TrimSpace(r.BrandColor)
	r.LogoURL = strings.TrimSpace(r.LogoURL)
}

func (r *CreateWorkspaceRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

type UpdateWorkspaceRequest struct {
	Name       *string `json:"name"`
	BrandColor *string `json:"brand_color"`
	LogoURL    *string `json:"logo_url"`
}

func (r *UpdateWorkspaceRequest) Normalize() {
	for _, f := range []*string{r.Name, r.BrandColor, r.LogoURL} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateWorkspaceRequest) Validate() error {
	if r.Name == nil && r.BrandColor == nil && r.LogoURL == nil {
		return dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	return nil
}

func (r *UpdateWorkspaceRequest) toUpdate() models.Update {
	return models.Update{Name: r.Name, BrandColor: r.BrandColor, LogoURL: r.LogoURL}
}

type WorkspaceResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	BrandColor string    `json:"brand_color,omitempty"`
	LogoURL    string    `json:"logo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListWorkspacesResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
}

func toResponse(w *models.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:         w.ID.String(),
		Name:       w.Name,
		Slug:       w.Slug,
		BrandColor: w.BrandColor,
		LogoURL:    w.LogoURL,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}
