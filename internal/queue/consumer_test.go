package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestHandleMessageWritesLogLine(t *testing.T) {
	chdir(t, t.TempDir())

	ev := AuthEvent{
		Type:    TypeRoleChanged,
		UserID:  7,
		Email:   "a@x.com",
		Role:    "MODERATOR",
		ActorID: 1,
		At:      "2026-01-02T03:04:05Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join("logs", "auth.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "user.role_changed")
	assert.Contains(t, line, "user_id=7")
	assert.Contains(t, line, `email="a@x.com"`)
	assert.Contains(t, line, "role=MODERATOR")
	assert.Contains(t, line, "actor_id=1")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Error(t, handleMessage([]byte("not-json")))
}
