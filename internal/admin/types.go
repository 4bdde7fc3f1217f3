package admin

import (
	"time"

	id "prooflayer/pkg/domain"
)

// User is the operator view of an account.
type User struct {
	ID        id.UserID
	Email     string
	Name      string
	CreatedAt time.Time
}
