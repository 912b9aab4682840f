package oplog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.oplog")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	var log Log
	log.Insert(0, "a {}")
	log.Update(0, "a {b: c;}")
	log.Delete(1)
	want := []Op{
		{Action: Insert, Index: 0, Value: "a {}"},
		{Action: Update, Index: 0, Value: "a {b: c;}"},
		{Action: Delete, Index: 1},
	}
	if diff := cmp.Diff(want, log.Ops()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	data, err := json.Marshal(log.Ops())
	require.NoError(t, err)
	assert.Equal(t, `[{"action":"insert","index":0,"value":"a {}"},`+
		`{"action":"update","index":0,"value":"a {b: c;}"},{"action":"delete","index":1}]`, string(data))
	log.Reset()
	assert.Equal(t, 0, log.Len())
}

func TestReplay(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.oplog")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	mirror, err := douceuradapter.Parse(`a {b: 1;} c {d: 1;}`)
	require.NoError(t, err)
	list, err := mirror.CSSRules()
	require.NoError(t, err)
	ops := []Op{
		{Action: Update, Index: 0, Value: "a {b: 2;}"},
		{Action: Insert, Index: 2, Value: "@media print {e {}}"},
		{Action: Delete, Index: 1},
	}
	require.NoError(t, Replay(list, ops))
	assert.Equal(t, "a {b: 2;}\n@media print {e {}}", mirror.CSSText())
}

func TestReplayFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.oplog")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	mirror, err := douceuradapter.Parse(`a {}`)
	require.NoError(t, err)
	list, err := mirror.CSSRules()
	require.NoError(t, err)
	err = Replay(list, []Op{
		{Action: Insert, Index: 1, Value: "b {}"},
		{Action: Delete, Index: 5},
		{Action: Insert, Index: 0, Value: "c {}"},
	})
	assert.True(t, errors.Is(err, ErrReplay))
	assert.Contains(t, err.Error(), "#1")
	assert.Equal(t, "a {}\nb {}", mirror.CSSText(), "replay stops at the failing op")
	assert.True(t, errors.Is(Replay(list, []Op{{Action: "move"}}), ErrReplay))
}
