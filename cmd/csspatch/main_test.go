package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/cssompatch"
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errw bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errw)
	root.SetArgs(append([]string{"--color", "never"}, args...))
	err := root.Execute()
	return out.String(), errw.String(), err
}

const fix = `{"path": ["a"], "action": "update", "update": [{"name": "color", "value": "blue"}]}`

func TestApply(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"site.css": `a {color: red;} b {margin: 0;}`,
		"fix.json": fix,
	})
	outFile := filepath.Join(dir, "out.css")
	stdout, _, err := execute(t, "apply", filepath.Join(dir, "site.css"), filepath.Join(dir, "fix.json"),
		"--ops", "--verify", "-o", outFile)
	require.NoError(t, err)
	patched, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "a {color: blue;}\nb {margin: 0;}\n", string(patched))
	var ops []oplog.Op
	require.NoError(t, json.Unmarshal([]byte(stdout), &ops))
	want := []oplog.Op{{Action: oplog.Update, Index: 0, Value: "a {color: blue;}"}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	//
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ops.json"), []byte(stdout), 0o644))
	stdout, _, err = execute(t, "replay", filepath.Join(dir, "site.css"), filepath.Join(dir, "ops.json"))
	require.NoError(t, err)
	assert.Equal(t, "a {color: blue;}\nb {margin: 0;}\n", stdout)
}

func TestApplyDiffAndWarnings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"site.css": `a {color: red;}`,
		"fix.yaml": "- path: [a, b]\n  action: update\n  update: [{name: color, value: green}]\n" +
			"- path: [a]\n  action: update\n  update: [{name: color, value: blue}]\n",
	})
	stdout, stderr, err := execute(t, "apply", filepath.Join(dir, "site.css"), filepath.Join(dir, "fix.yaml"), "--diff")
	require.NoError(t, err)
	assert.Contains(t, stdout, "red")
	assert.Contains(t, stdout, "blue")
	assert.Equal(t, 1, strings.Count(stderr, "warning:"))
}

func TestApplyErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"site.css": `a {}`,
		"bad.json": `{"path": ["a"], "action": "replace"}`,
	})
	_, _, err := execute(t, "apply", filepath.Join(dir, "site.css"), filepath.Join(dir, "bad.json"))
	assert.Error(t, err)
	_, _, err = execute(t, "apply", filepath.Join(dir, "site.css"))
	assert.Error(t, err)
	_, _, err = execute(t, "--trace", "loud", "apply", filepath.Join(dir, "site.css"), filepath.Join(dir, "bad.json"))
	assert.Error(t, err)
}

func TestSheets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"index.html": `<html><head><style>@import "x.css"; p {}</style>` +
			`<link rel="stylesheet" href="main.css"></head><body></body></html>`,
		"x.css":    `q {}`,
		"main.css": `@import "y.css"; r {} s {}`,
		"y.css":    `t {}`,
	})
	stdout, _, err := execute(t, "sheets", filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	base := fileURL(abs)
	assert.Contains(t, stdout, "<style #0>\t2 rules")
	assert.Contains(t, stdout, base+"/main.css\t3 rules")
	assert.Contains(t, stdout, base+"/x.css\t1 rules")
	assert.Contains(t, stdout, base+"/y.css\t1 rules")
}

func TestWatcherHandle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"site.css": `a {color: red;}`,
		"1.json":   fix,
		"2.json":   `[{"path": [["a", 1], ["b", 1]], "action": "update", "update": [{"name": "x", "value": "1"}]}]`,
		"3.json":   `{"path": ["c"], "action": "add", "update": [{"name": "x", "value": "1"}]}`,
	})
	a := &app{config: cssompatch.DefaultConfig(), colors: newPalette(false)}
	var out, errw bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errw)
	css := filepath.Join(dir, "site.css")
	w, err := a.newWatcher(cmd, css, "")
	require.NoError(t, err)
	for _, name := range []string{"1.json", "2.json", "3.json"} {
		require.NoError(t, w.handle(filepath.Join(dir, name)), name)
	}
	patched, err := os.ReadFile(css)
	require.NoError(t, err)
	assert.Equal(t, "a {color: blue;}\nc {x: 1;}\n", string(patched))
	assert.Equal(t, 1, strings.Count(errw.String(), "warning:"))
	assert.Error(t, w.handle(filepath.Join(dir, "missing.json")))
}

func TestWatchLoopAppliesEachWriteOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{"site.css": `a {}`})
	patches := filepath.Join(dir, "patches")
	require.NoError(t, os.Mkdir(patches, 0o755))
	a := &app{config: cssompatch.DefaultConfig(), colors: newPalette(false)}
	var out, errw bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errw)
	css := filepath.Join(dir, "site.css")
	w, err := a.newWatcher(cmd, css, "")
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond
	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()
	require.NoError(t, fsw.Add(patches))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.loop(ctx, fsw)
		close(done)
	}()
	//
	add := `{"path": ["e"], "action": "add", "update": [{"name": "d", "value": "1"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(patches, "add.json"), []byte(add), 0o644))
	want := "a {}\ne {d: 1;}\n"
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(css)
		require.NoError(t, err)
		if string(data) == want || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(5 * w.debounce)
	cancel()
	<-done
	patched, err := os.ReadFile(css)
	require.NoError(t, err)
	assert.Equal(t, want, string(patched))
	assert.Equal(t, 1, strings.Count(out.String(), `"action": "insert"`))
}

func TestWatcherReloadsChangedSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"site.css": `a {color: red;}`,
		"1.json":   fix,
		"2.json":   `{"path": ["c"], "action": "add", "update": [{"name": "x", "value": "1"}]}`,
	})
	a := &app{config: cssompatch.DefaultConfig(), colors: newPalette(false)}
	var out, errw bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errw)
	css := filepath.Join(dir, "site.css")
	w, err := a.newWatcher(cmd, css, "")
	require.NoError(t, err)
	require.NoError(t, w.handle(filepath.Join(dir, "1.json")))
	assert.NotContains(t, errw.String(), "reloaded")
	//
	require.NoError(t, os.WriteFile(css, []byte(`a {color: red;} z {}`), 0o644))
	require.NoError(t, w.handle(filepath.Join(dir, "2.json")))
	patched, err := os.ReadFile(css)
	require.NoError(t, err)
	assert.Equal(t, "a {color: red;}\nz {}\nc {x: 1;}\n", string(patched))
	assert.Contains(t, errw.String(), "reloaded")
}

func TestHelpers(t *testing.T) {
	assert.True(t, isPatchFile("p/fix.json"))
	assert.True(t, isPatchFile("fix.YML"))
	assert.False(t, isPatchFile(".fix.json"))
	assert.False(t, isPatchFile("fix.css"))
	//
	on, err := colorEnabled("always", nil)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = colorEnabled("auto", &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, on)
	_, err = colorEnabled("sometimes", nil)
	assert.Error(t, err)
}
