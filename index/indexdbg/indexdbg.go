/*
Package indexdbg implements helpers to debug a rule index.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package indexdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/cssompatch/style"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname     string
	Declarations bool
	NodeTmpl     *template.Template
	EdgeTmpl     *template.Template
	DeclTmpl     *template.Template
	DeclEdgeTmpl *template.Template
}

// ToGraphViz outputs a diagram for a rule index. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the index and a Writer. If withDecls is set, the declarations of
// every rule will be included as a table.
func ToGraphViz(root *index.RuleNode, w io.Writer, withDecls bool) error {
	tmpl, err := template.New("index").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica", Declarations: withDecls}
	gparams.NodeTmpl = template.Must(template.New("rulenode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(ruleNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("ruleedge").Parse(ruleEdgeTmpl))
	gparams.DeclTmpl = template.Must(template.New("decls").Parse(declTmpl))
	gparams.DeclEdgeTmpl = template.Must(template.New("decledge").Parse(declEdgeTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*index.RuleNode]string, 256)
	if err = nodes(root, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given an index root and a testing.T, it will
// create a Graphiviz image of the index under `root` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(root *index.RuleNode, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "index.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing index digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(root, tmpfile, true); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing index image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N    *index.RuleNode
	Name string
}

func nodes(n *index.RuleNode, w io.Writer, dict map[*index.RuleNode]string, gparams *graphParamsType) error {
	if err := ruleNode(n, w, dict, gparams); err != nil {
		return err
	}
	for _, ch := range n.Children() {
		if err := nodes(ch, w, dict, gparams); err != nil {
			return err
		}
		e := edge{node{n, dict[n]}, node{ch, dict[ch]}}
		if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
			return err
		}
	}
	return nil
}

type decls struct {
	Name       string
	Properties []style.KeyValue
}

func ruleNode(n *index.RuleNode, w io.Writer, dict map[*index.RuleNode]string, gparams *graphParamsType) error {
	name := dict[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(dict)+1)
		dict[n] = name
	}
	if err := gparams.NodeTmpl.Execute(w, &node{n, name}); err != nil {
		return err
	}
	if !gparams.Declarations || n.IsRoot() || n.Rule().Style() == nil {
		return nil
	}
	d := decls{Name: name}
	st := n.Rule().Style()
	for i := 0; i < st.Length(); i++ {
		key := st.Item(i)
		d.Properties = append(d.Properties, style.KeyValue{
			Key:      key,
			Value:    style.Property(st.PropertyValue(key)),
			Priority: st.PropertyPriority(key),
		})
	}
	if err := gparams.DeclTmpl.Execute(w, d); err != nil {
		return err
	}
	return gparams.DeclEdgeTmpl.Execute(w, d)
}

type edge struct {
	N1, N2 node
}

func shortText(n *index.RuleNode) string {
	s := n.Name()
	if n.IsRoot() {
		s = "stylesheet"
	}
	if len(s) > 24 {
		s = s[:24] + "..."
	}
	s = strings.Replace(s, "\n", `\n`, -1)
	s = strings.Replace(s, "\t", `\t`, -1)
	return fmt.Sprintf("%q", fmt.Sprintf("%s #%d [%d]", s, n.Occurrence(), n.SiblingIndex()))
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const ruleNodeTmpl = `{{ if .N.IsRoot }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ shortstring .N }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const declTmpl = `{{ .Name }}_decl [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}{{ if .Priority }} !{{ .Priority }}{{ end }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no declarations</td></tr>
      {{ end }}
    </table>> ] ;
`

const ruleEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const declEdgeTmpl = `{{ .Name }} -> {{ .Name }}_decl [dir=none weight=1 style="dashed"] ;
`
