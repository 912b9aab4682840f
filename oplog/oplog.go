/*
Package oplog records and replays the structural changes of a patch run.

Every change is reported at the granularity of top-level rules: inserting or
deleting a top-level rule, or updating one (replacing it by its new
serialized text). Replaying the ops of a run, in order, against an
independent copy of the original stylesheet brings the copy into the same
state.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package oplog

import (
	"errors"
	"fmt"

	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssom.oplog'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.oplog")
}

// Action is the kind of an op.
type Action string

// Op actions.
const (
	Insert Action = "insert"
	Delete Action = "delete"
	Update Action = "update"
)

// Op is a change of a top-level rule slot.
type Op struct {
	Action Action `json:"action" yaml:"action"`
	Index  int    `json:"index" yaml:"index"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (op Op) String() string {
	if op.Value == "" {
		return fmt.Sprintf("%s@%d", op.Action, op.Index)
	}
	return fmt.Sprintf("%s@%d %q", op.Action, op.Index, op.Value)
}

// Log records ops in emission order. The zero value is ready to use.
type Log struct {
	ops []Op
}

// Insert records the insertion of a top-level rule.
func (l *Log) Insert(at int, text string) {
	l.add(Op{Action: Insert, Index: at, Value: text})
}

// Delete records the deletion of a top-level rule.
func (l *Log) Delete(at int) {
	l.add(Op{Action: Delete, Index: at})
}

// Update records the new text of a top-level rule.
func (l *Log) Update(at int, text string) {
	l.add(Op{Action: Update, Index: at, Value: text})
}

func (l *Log) add(op Op) {
	tracer().Debugf("op %v", op)
	l.ops = append(l.ops, op)
}

// Ops returns the recorded ops.
func (l *Log) Ops() []Op {
	return l.ops
}

// Len returns the number of recorded ops.
func (l *Log) Len() int {
	return len(l.ops)
}

// Reset discards all recorded ops.
func (l *Log) Reset() {
	l.ops = nil
}

// ErrReplay is returned if an op cannot be applied to a mirror.
var ErrReplay = errors.New("cannot replay op")

// Replay applies ops in order to the top-level rule list of a mirror
// stylesheet. An update is a delete followed by an insert at the same index.
// Replay stops at the first op which fails.
func Replay(list cssom.RuleList, ops []Op) error {
	for i, op := range ops {
		if err := replay(list, op); err != nil {
			return fmt.Errorf("%w #%d (%v): %v", ErrReplay, i, op, err)
		}
	}
	tracer().Infof("replayed %d ops", len(ops))
	return nil
}

func replay(list cssom.RuleList, op Op) error {
	switch op.Action {
	case Insert:
		_, err := list.InsertRule(op.Value, op.Index).Get()
		return err
	case Delete:
		return list.DeleteRule(op.Index)
	case Update:
		if err := list.DeleteRule(op.Index); err != nil {
			return err
		}
		_, err := list.InsertRule(op.Value, op.Index).Get()
		return err
	}
	return fmt.Errorf("unknown action %q", op.Action)
}
