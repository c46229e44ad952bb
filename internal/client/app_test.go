package client

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ftp-keeper/internal/config"
	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := config.Defaults()
	cfg.Vault.Path = filepath.Join(t.TempDir(), "test.vault")
	cfg.Vault.KDF.MemoryKiB = 19 * 1024
	cfg.Vault.KDF.Threads = 1
	cfg.Storage.HistoryDSN = ""

	app, err := NewApp(cfg, logger.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app.stdout = out
	return app, out
}

// script feeds the app's prompts from a fixed sequence of lines.
func script(app *App, lines ...string) {
	app.stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	app.reader = nil
}

func TestApp_InitAddListRemove(t *testing.T) {
	app, out := newTestApp(t)
	master := "Tr0ub4dor&3"

	script(app, master, master)
	require.NoError(t, app.Run([]string{"init"}))
	assert.Contains(t, out.String(), "Vault created")
	_, err := os.Stat(app.cfg.Vault.Path)
	require.NoError(t, err)

	// unlock password, empty key file prompt, connection password
	script(app, master, "", "hunter2-but-longer")
	out.Reset()
	require.NoError(t, app.Run([]string{"add", "home-nas", "sftp://alice@nas.local:22/home/alice"}))
	assert.Contains(t, out.String(), `Profile "home-nas" added`)

	script(app, master)
	out.Reset()
	require.NoError(t, app.Run([]string{"list"}))
	assert.Contains(t, out.String(), "home-nas")
	assert.Contains(t, out.String(), "nas.local:22")
	assert.Contains(t, out.String(), "alice")
	assert.NotContains(t, out.String(), "hunter2-but-longer", "list must never print secrets")

	script(app, master)
	out.Reset()
	require.NoError(t, app.Run([]string{"rm", "home-nas"}))
	assert.Contains(t, out.String(), "removed")

	script(app, master)
	out.Reset()
	require.NoError(t, app.Run([]string{"list"}))
	assert.Contains(t, out.String(), "No profiles")
}

func TestApp_WrongMasterPassword(t *testing.T) {
	app, _ := newTestApp(t)
	master := "Tr0ub4dor&3"

	script(app, master, master)
	require.NoError(t, app.Run([]string{"init"}))

	script(app, "not-the-password")
	err := app.Run([]string{"list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong master password")
}

func TestApp_InitRefusesMismatchedPasswords(t *testing.T) {
	app, _ := newTestApp(t)

	script(app, "first-password", "second-password")
	err := app.Run([]string{"init"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")

	_, statErr := os.Stat(app.cfg.Vault.Path)
	assert.True(t, os.IsNotExist(statErr), "no vault may be created on a failed init")
}

func TestApp_UnknownCommand(t *testing.T) {
	app, out := newTestApp(t)

	err := app.Run([]string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.Contains(t, out.String(), "Usage:")
}

func TestApp_NoArgsPrintsUsage(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.Run(nil))
	assert.Contains(t, out.String(), "Usage:")
}

func TestApp_HistoryDisabled(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.Run([]string{"history"}))
	assert.Contains(t, out.String(), "History is disabled")
}
