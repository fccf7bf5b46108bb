package vm

import (
	"nilan/code"
	"nilan/object"
)

// Frame is one call-stack entry: the function being executed, its own
// instruction pointer, and the stack index where its locals begin.
//
// ip starts at -1 and is pre-incremented on every dispatch, so the first
// instruction executed is the one at offset 0.
type Frame struct {
	fn          *object.CompiledFunction
	ip          int
	basePointer int
}

// NewFrame creates a frame for fn whose locals live at
// stack[basePointer:basePointer+fn.NumLocals].
func NewFrame(fn *object.CompiledFunction, basePointer int) *Frame {
	return &Frame{fn: fn, ip: -1, basePointer: basePointer}
}

// Instructions returns the instruction stream this frame executes.
func (f *Frame) Instructions() code.Instructions {
	return f.fn.Instructions
}
