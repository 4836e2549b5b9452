package audit

import (
	"time"
)

// Category represents the type of audit event in the backend feed.
type Category string

const (
	CategoryAuth     Category = "auth"
	CategoryMember   Category = "member"
	CategoryFine     Category = "fine"
	CategoryFineType Category = "fine_type"
	CategoryUser     Category = "user"
)

// Action represents the recorded action.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
)

// Entry is one record of the backend audit feed. The client only reads these;
// JSON tags match the wire format.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	ActorID     string    `json:"actor_id"`
	Actor       string    `json:"actor"`
	ActorRole   string    `json:"actor_role"`
	ResourceID  string    `json:"resource_id"`
	Description string    `json:"description"`
}

// Filter narrows an audit feed request. Empty fields are not sent.
type Filter struct {
	Category Category
	Action   Action
	ActorID  string
	From     string // inclusive date, YYYY-MM-DD
	To       string // inclusive date, YYYY-MM-DD
}
