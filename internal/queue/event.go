// Package queue publishes and consumes resource mutation events over AMQP.
package queue

import "time"

// Actions recorded in ResourceEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ResourceEvent is emitted after a successful create, update or delete on
// any resource. It carries enough for downstream consumers to audit or
// notify without querying the primary database.
type ResourceEvent struct {
	Resource string    `json:"resource"` // "item" | "resume" | "portfolio"
	Action   string    `json:"action"`   // "created" | "updated" | "deleted"
	ID       string    `json:"id"`
	Actor    string    `json:"actor,omitempty"` // user id, empty for anonymous endpoints
	At       time.Time `json:"at"`
}
