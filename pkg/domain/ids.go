package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "prooflayer/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so that a WorkspaceID can never be
// passed where a FormID is expected. Construct them from external input with
// the Parse* functions; those reject empty, malformed and nil UUIDs.
type (
	UserID       uuid.UUID
	WorkspaceID  uuid.UUID
	FormID       uuid.UUID
	SubmissionID uuid.UUID
	WidgetID     uuid.UUID
)

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user_id", s)
	return UserID(u), err
}

func ParseWorkspaceID(s string) (WorkspaceID, error) {
	u, err := parseUUID("workspace_id", s)
	return WorkspaceID(u), err
}

func ParseFormID(s string) (FormID, error) {
	u, err := parseUUID("form_id", s)
	return FormID(u), err
}

func ParseSubmissionID(s string) (SubmissionID, error) {
	u, err := parseUUID("submission_id", s)
	return SubmissionID(u), err
}

func ParseWidgetID(s string) (WidgetID, error) {
	u, err := parseUUID("widget_id", s)
	return WidgetID(u), err
}

func NewUserID() UserID             { return UserID(uuid.New()) }
func NewWorkspaceID() WorkspaceID   { return WorkspaceID(uuid.New()) }
func NewFormID() FormID             { return FormID(uuid.New()) }
func NewSubmissionID() SubmissionID { return SubmissionID(uuid.New()) }
func NewWidgetID() WidgetID         { return WidgetID(uuid.New()) }

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id WorkspaceID) String() string  { return uuid.UUID(id).String() }
func (id FormID) String() string       { return uuid.UUID(id).String() }
func (id SubmissionID) String() string { return uuid.UUID(id).String() }
func (id WidgetID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id WorkspaceID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id FormID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SubmissionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id WidgetID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps JSON and SQL representations as canonical UUID strings.

func (id UserID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id WorkspaceID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id FormID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id SubmissionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id WidgetID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *WorkspaceID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *FormID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SubmissionID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *WidgetID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
