package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bovpuzzle/internal/puzzle"
)

func TestLoadSettings_EmptyPathIsDefault(t *testing.T) {
	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, puzzle.DefaultSettings(), settings)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseSettings_Overlay(t *testing.T) {
	raw := []byte(`
countdown_seconds: 3
tips_seconds: 8
levels:
  - id: 0
    name: relaxed
    time: 10
    tips: 5
    icon: fa fa-coffee
pieces:
  - [1]
  - [2, 3]
  - []
`)
	settings, err := ParseSettings(raw)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, settings.CountDown)
	assert.Equal(t, 8*time.Second, settings.TipsTime)
	assert.Equal(t, 1500*time.Millisecond, settings.CountDownWrongPieces, "unset values keep defaults")
	require.Len(t, settings.Levels, 1)
	assert.Equal(t, puzzle.Level{ID: 0, Name: "relaxed", Minutes: 10, Tips: 5, Icon: "fa fa-coffee"}, settings.Levels[0])
	assert.Equal(t, []puzzle.Piece{{1}, {2, 3}}, settings.Pieces)
	assert.Equal(t, puzzle.DefaultSettings().Audio, settings.Audio)
}

func TestParseSettings_RepairsLevelsAndPieces(t *testing.T) {
	raw := []byte(`
levels:
  - id: 0
    name: free
    time: 0
  - id: 1
    name: broken
    time: -2
  - id: 7
    name: endless
pieces:
  - [4]
  - [4, 9]
  - [5]
`)
	settings, err := ParseSettings(raw)
	require.NoError(t, err)

	require.Len(t, settings.Levels, 3)
	assert.Equal(t, 7, settings.Levels[0].Minutes)
	assert.Equal(t, 5, settings.Levels[1].Minutes)
	assert.Equal(t, 3, settings.Levels[2].Minutes)
	assert.Equal(t, []puzzle.Piece{{4}, {5}}, settings.Pieces)
}

func TestParseSettings_Invalid(t *testing.T) {
	_, err := ParseSettings([]byte("levels: {not: [a list"))
	assert.Error(t, err)
}

func TestMarshalSettings_ReadsBack(t *testing.T) {
	want := puzzle.DefaultSettings()
	raw, err := MarshalSettings(want)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
