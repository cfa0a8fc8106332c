// Package tracing collects controller activity into trace databases.
package tracing

import (
	"github.com/pocketriscv/memsim/datarecording"
	"github.com/pocketriscv/memsim/mem/sdram"
	"github.com/pocketriscv/memsim/sim"
)

const (
	commandTable     = "sdram_commands"
	stateChangeTable = "sdram_state_changes"
)

// A CommandRecord is one row of the command trace table.
type CommandRecord struct {
	Cycle  uint64
	Kind   string
	Bank   uint64
	Row    uint64
	Column uint64
}

// A StateChangeRecord is one row of the state transition trace table.
type StateChangeRecord struct {
	Cycle uint64
	From  string
	To    string
}

// A CommandTracer is a hook that records SDRAM commands and controller
// state transitions into a DataRecorder.
type CommandTracer struct {
	recorder datarecording.DataRecorder
}

// NewCommandTracer creates a CommandTracer writing into the given recorder.
func NewCommandTracer(recorder datarecording.DataRecorder) *CommandTracer {
	recorder.CreateTable(commandTable, CommandRecord{})
	recorder.CreateTable(stateChangeTable, StateChangeRecord{})

	return &CommandTracer{recorder: recorder}
}

// Func records commands and state changes. Other hook positions are ignored.
func (t *CommandTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sdram.HookPosCommandIssue:
		info := ctx.Item.(sdram.CommandInfo)
		t.recorder.InsertData(commandTable, CommandRecord{
			Cycle:  info.Cycle,
			Kind:   info.Kind,
			Bank:   info.Bank,
			Row:    info.Row,
			Column: info.Column,
		})
	case sdram.HookPosStateChange:
		change := ctx.Item.(sdram.StateChange)
		t.recorder.InsertData(stateChangeTable, StateChangeRecord{
			Cycle: change.Cycle,
			From:  change.From.String(),
			To:    change.To.String(),
		})
	}
}

// Trace attaches a CommandTracer to the controller.
func Trace(c *sdram.Comp, recorder datarecording.DataRecorder) *CommandTracer {
	tracer := NewCommandTracer(recorder)
	c.AcceptHook(tracer)

	return tracer
}
