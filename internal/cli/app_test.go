package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/recall/internal/application/usecase"
	"github.com/bnema/recall/internal/domain/entity"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewApp_NativeSourcePersistsVisits(t *testing.T) {
	root := isolateXDG(t)
	dbPath := filepath.Join(root, "recall.db")
	logDir := filepath.Join(root, "logs")
	cfgPath := writeConfig(t, root, `
[source]
kind = "sqlite"
dialect = "recall"
path = "`+dbPath+`"

[logging]
level = "debug"
enable_file_log = true
log_dir = "`+logDir+`"
`)

	app, err := NewApp(Options{ConfigFile: cfgPath})
	require.NoError(t, err)
	require.NotNil(t, app.Native)

	_, err = app.History.RecordVisit(app.Ctx(), entity.NewVisit("https://go.dev", "Go"))
	require.NoError(t, err)
	require.NoError(t, app.Close())

	assert.FileExists(t, filepath.Join(logDir, "recall.log"))

	reopened, err := NewApp(Options{ConfigFile: cfgPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	out, err := reopened.History.Search(reopened.Ctx(), usecase.SearchInput{Query: "go"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.Equal(t, "https://go.dev", out.Results[0].URL)
}

func TestNewApp_JSONSource(t *testing.T) {
	root := isolateXDG(t)
	historyPath := filepath.Join(root, "history.json")
	require.NoError(t, os.WriteFile(historyPath, []byte(`[
		{"url": "https://github.com", "title": "GitHub", "visit_count": 5},
		{"url": "https://example.com", "title": "Example"}
	]`), 0o600))
	cfgPath := writeConfig(t, root, `
[source]
kind = "json"
path = "`+historyPath+`"
`)

	app, err := NewApp(Options{ConfigFile: cfgPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.Native)
	assert.Equal(t, 2, app.History.Stats().Entries)
	assert.Equal(t, "https://github.com", app.History.Resolve(app.Ctx(), "gith"))
}

func TestNewApp_MissingBrowserDatabaseStartsEmpty(t *testing.T) {
	root := isolateXDG(t)
	cfgPath := writeConfig(t, root, `
[source]
kind = "sqlite"
dialect = "chromium"
path = "`+filepath.Join(root, "missing", "History")+`"
`)

	app, err := NewApp(Options{ConfigFile: cfgPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.Native)
	assert.Zero(t, app.History.Stats().Entries)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	root := isolateXDG(t)
	cfgPath := writeConfig(t, root, `
[source]
dialect = "safari"
`)

	_, err := NewApp(Options{ConfigFile: cfgPath})
	require.Error(t, err)
}

func TestApp_ApplyLiveSettings(t *testing.T) {
	root := isolateXDG(t)
	cfgPath := writeConfig(t, root, `
[source]
kind = "json"
path = "`+filepath.Join(root, "none.json")+`"
`)

	app, err := NewApp(Options{ConfigFile: cfgPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	live := usecase.NewLiveSearch(app.Ctx(), app.History, 0, func(usecase.LiveResult) {})
	defer live.Stop()

	cfg := app.ConfigManager.Get()
	cfg.Search.DebounceMs = 80
	cfg.Search.NarrowingCacheSize = 4
	app.ApplyLiveSettings(cfg, live)

	assert.Equal(t, 80, app.Config.Search.DebounceMs)
	assert.Equal(t, int64(80), live.Delay().Milliseconds())
	assert.Equal(t, 4, app.History.Stats().NarrowingSize)
}
