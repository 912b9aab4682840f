package cssompatch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/npillmayer/cssompatch/patch"
	"github.com/npillmayer/cssompatch/sheets"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, text string) []patch.Patch {
	t.Helper()
	patches, err := patch.Decode(strings.NewReader(text))
	require.NoError(t, err)
	return patches
}

func TestPatchScenarios(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	cases := []struct {
		css, patches, result string
	}{
		{`a {b: c;} d {b: f;}`,
			`{"path": [["a", 1]], "action": "update", "update": [{"name": "b", "value": "2"}]}`,
			"a {b: 2;}\nd {b: f;}"},
		{`a {b: 1; c: 2; d: 3}`,
			`{"path": [["a", 1]], "action": "update",
			  "all": [{"name": "b", "value": "10"}, {"name": "c", "value": "20"}, {"name": "d", "value": "5"}]}`,
			"a {b: 10; c: 20; d: 5;}"},
		{`a{b:1;} c{d:1;}`,
			`{"path": [["e", 1]], "action": "add", "update": [{"name": "d", "value": "1"}]}`,
			"a {b: 1;}\nc {d: 1;}\ne {d: 1;}"},
		{`a{b:1;}`,
			`{"path": [["a", 1]], "action": "remove"}`,
			""},
		{`a{b:1;}`,
			`{"path": [["@media print", 1], ["c", 1]], "action": "update", "update": [{"name": "d", "value": "2"}]}`,
			"a {b: 1;}\n@media print {c {d: 2;}}"},
	}
	patcher := New(DefaultConfig(), nil)
	for i, c := range cases {
		sheet, err := douceuradapter.Parse(c.css)
		require.NoError(t, err)
		mirror, err := douceuradapter.Parse(c.css)
		require.NoError(t, err)
		ops, err := patcher.Patch(sheet, decode(t, c.patches)...)
		require.NoError(t, err, "case #%d", i)
		assert.Equal(t, c.result, sheet.CSSText(), "case #%d", i)
		list, err := mirror.CSSRules()
		require.NoError(t, err)
		require.NoError(t, oplog.Replay(list, ops))
		assert.Equal(t, sheet.CSSText(), mirror.CSSText(), "mirror of case #%d", i)
		assert.Empty(t, patcher.Warnings())
	}
}

func TestPatchURL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	main, err := douceuradapter.Parse(`a {}`, douceuradapter.WithHref("http://example.com/main.css"))
	require.NoError(t, err)
	patcher := New(Config{}, sheets.Static{main})
	ops, err := patcher.PatchURL("http://example.com/main.css",
		decode(t, `[{"path": ["a"], "action": "update", "update": [{"name": "color", "value": "red"}]}]`)...)
	require.NoError(t, err)
	want := []oplog.Op{{Action: oplog.Update, Index: 0, Value: "a {color: red;}"}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	_, err = patcher.PatchURL("http://example.com/other.css")
	assert.True(t, errors.Is(err, ErrTargetUnresolved))
	_, err = New(Config{}, nil).PatchURL("http://example.com/main.css")
	assert.True(t, errors.Is(err, ErrTargetUnresolved))
}

func TestPatchUnresolved(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	patcher := New(DefaultConfig(), nil)
	_, err := patcher.Patch(nil)
	assert.True(t, errors.Is(err, ErrTargetUnresolved))
	foreign, err := douceuradapter.Parse(`a {}`, douceuradapter.Foreign())
	require.NoError(t, err)
	_, err = patcher.Patch(foreign, patch.Patch{Action: patch.Update})
	assert.True(t, errors.Is(err, ErrTargetUnresolved))
	assert.Contains(t, err.Error(), cssom.ErrCrossOriginAccessDenied.Error())
}

func TestPatchWarnings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	sheet, err := douceuradapter.Parse(`a {}`)
	require.NoError(t, err)
	patcher := New(DefaultConfig(), nil)
	_, err = patcher.Patch(sheet, decode(t, `[
		{"path": [["a", 1], ["b", 1]], "action": "update", "update": [{"name": "c", "value": "1"}]},
		{"path": [["a", 1]], "action": "update", "update": [{"name": "c", "value": "2"}]}
	]`)...)
	require.NoError(t, err)
	assert.Len(t, patcher.Warnings(), 1)
	assert.Equal(t, "a {c: 2;}", sheet.CSSText())
}

func TestConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.patch")
	defer teardown()
	//
	c := DefaultConfig()
	assert.Equal(t, index.HideImports, c.AtRules)
	assert.Equal(t, "error", c.Trace)
	//
	dir := t.TempDir()
	file := filepath.Join(dir, "csspatch.yaml")
	require.NoError(t, os.WriteFile(file, []byte("at_rules: addressable\n"), 0o644))
	c, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, index.AddressImports, c.AtRules)
	assert.Equal(t, "error", c.Trace)
	assert.NoError(t, c.SetupTracing())
	//
	require.NoError(t, os.WriteFile(file, []byte("trace: loud\n"), 0o644))
	_, err = LoadConfig(file)
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(file, []byte("at_rules: [1]\n"), 0o644))
	_, err = LoadConfig(file)
	assert.Error(t, err)
	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	//
	level, err := ParseTraceLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, tracing.LevelDebug, level)
}
