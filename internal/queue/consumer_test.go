package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEventUserRegistered(t *testing.T) {
	body, err := json.Marshal(UserRegisteredEvent{
		EventID: "deadbeef", Kind: KindUserRegistered,
		UserID: 7, Name: "Jane", Email: "jane@example.com",
		At: "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)

	line, err := formatEvent(body)
	require.NoError(t, err)
	require.Equal(t, `2026-01-02T15:04:05Z user.registered user=7 name="Jane"`, line)
}

func TestFormatEventPostCreated(t *testing.T) {
	body, err := json.Marshal(PostCreatedEvent{
		EventID: "deadbeef", Kind: KindPostCreated,
		PostID: 3, UserID: 7, Name: "Jane",
		At: "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)

	line, err := formatEvent(body)
	require.NoError(t, err)
	require.Equal(t, `2026-01-02T15:04:05Z post.created post=3 user=7 name="Jane"`, line)
}

func TestFormatEventRejectsBadInput(t *testing.T) {
	_, err := formatEvent([]byte(`not json`))
	require.Error(t, err)

	_, err = formatEvent([]byte(`{"kind":"something.else"}`))
	require.Error(t, err)
}
