package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.WithComponent("Feed").Info("Post created", "post_id", "42")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Post created", rec["message"])
	assert.Equal(t, "Feed", rec["component"])
	assert.Equal(t, "42", rec["post_id"])
}

func TestProductionDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.Debug("tick")
	assert.Zero(t, buf.Len())
}

func TestDevelopmentConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "development", Output: &buf})

	log.Debug("Story entered", "story_id", "7")
	assert.Contains(t, buf.String(), "Story entered")
	assert.Contains(t, buf.String(), "story_id")
}
