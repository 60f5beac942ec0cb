package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherWithoutURL(t *testing.T) {
	assert.Nil(t, NewPublisher("", "resource.events"))
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher
	// Must not panic; handlers call this unconditionally.
	p.Publish(context.Background(), ResourceEvent{Resource: "item", Action: ActionCreated, ID: "x"})
}

func TestResourceEventJSON(t *testing.T) {
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	body, err := json.Marshal(ResourceEvent{
		Resource: "resume",
		Action:   ActionDeleted,
		ID:       "abc",
		Actor:    "user-1",
		At:       at,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"resource":"resume","action":"deleted","id":"abc","actor":"user-1","at":"2026-08-26T12:00:00Z"}`, string(body))

	// Anonymous events omit the actor entirely.
	body, err = json.Marshal(ResourceEvent{Resource: "item", Action: ActionCreated, ID: "abc", At: at})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "actor")
}
