package indexdbg

import (
	"bytes"
	"testing"

	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/cssompatch/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGraphViz(t *testing.T) {
	sheet, err := douceuradapter.Parse(`a {color: red !important} @media print {b {}}`)
	require.NoError(t, err)
	root := index.Build(sheet, index.HideImports)
	var buf bytes.Buffer
	require.NoError(t, ToGraphViz(root, &buf, true))
	dot := buf.String()
	assert.Contains(t, dot, "digraph g {")
	assert.Contains(t, dot, `"stylesheet #0 [-1]"`)
	assert.Contains(t, dot, `"@media print #1 [1]"`)
	assert.Contains(t, dot, "node00001 -> node00002")
	assert.Contains(t, dot, "<td>red !important</td>")
	assert.Contains(t, dot, "no declarations")
}
