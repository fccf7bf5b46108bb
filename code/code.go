// code.go defines the bytecode instruction set: the opcode enum, each
// opcode's operand widths, and the encode/decode/disassembly helpers the
// compiler and VM share.

package code

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Instructions is a flattened byte stream of one or more instructions,
// each an opcode byte followed by its big-endian operand bytes. Offsets
// into this slice are what jump targets refer to.
type Instructions []byte

// Opcode identifies one bytecode instruction. Values are fixed by the
// wire format and must never be renumbered.
type Opcode byte

const (
	OpConstant      Opcode = 0x01
	OpPop           Opcode = 0x02
	OpAdd           Opcode = 0x03
	OpSub           Opcode = 0x04
	OpMul           Opcode = 0x05
	OpDiv           Opcode = 0x06
	OpTrue          Opcode = 0x07
	OpFalse         Opcode = 0x08
	OpEqual         Opcode = 0x09
	OpNotEqual      Opcode = 0x0A
	OpGreater       Opcode = 0x0B
	OpMinus         Opcode = 0x0C
	OpBang          Opcode = 0x0D
	OpJumpNotTruthy Opcode = 0x0E
	OpJump          Opcode = 0x0F
	OpNull          Opcode = 0x10
	OpGetGlobal     Opcode = 0x11
	OpSetGlobal     Opcode = 0x12
	OpArray         Opcode = 0x13
	OpHash          Opcode = 0x14
	OpIndex         Opcode = 0x15
	OpCall          Opcode = 0x16
	OpReturnValue   Opcode = 0x17
	OpReturn        Opcode = 0x18
	OpGetLocal      Opcode = 0x19
	// OpSetLocal is 0x20, not sequential with its neighbors; this is part
	// of the wire contract and must not be renumbered to close the gap.
	OpSetLocal Opcode = 0x20
)

// Definition documents one opcode's mnemonic and the byte width of each
// of its operands, in order.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpConstant:      {"OpConstant", []int{2}},
	OpPop:           {"OpPop", []int{}},
	OpAdd:           {"OpAdd", []int{}},
	OpSub:           {"OpSub", []int{}},
	OpMul:           {"OpMul", []int{}},
	OpDiv:           {"OpDiv", []int{}},
	OpTrue:          {"OpTrue", []int{}},
	OpFalse:         {"OpFalse", []int{}},
	OpEqual:         {"OpEqual", []int{}},
	OpNotEqual:      {"OpNotEqual", []int{}},
	OpGreater:       {"OpGreater", []int{}},
	OpMinus:         {"OpMinus", []int{}},
	OpBang:          {"OpBang", []int{}},
	OpJumpNotTruthy: {"OpJumpNotTruthy", []int{2}},
	OpJump:          {"OpJump", []int{2}},
	OpNull:          {"OpNull", []int{}},
	OpGetGlobal:     {"OpGetGlobal", []int{2}},
	OpSetGlobal:     {"OpSetGlobal", []int{2}},
	OpArray:         {"OpArray", []int{2}},
	OpHash:          {"OpHash", []int{2}},
	OpIndex:         {"OpIndex", []int{}},
	OpCall:          {"OpCall", []int{2}},
	OpReturnValue:   {"OpReturnValue", []int{}},
	OpReturn:        {"OpReturn", []int{}},
	OpGetLocal:      {"OpGetLocal", []int{2}},
	OpSetLocal:      {"OpSetLocal", []int{2}},
}

// Lookup returns the Definition for op, or an error if op is unknown.
func Lookup(op Opcode) (*Definition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Make encodes a single instruction: op followed by its operands, each
// packed big-endian into the width Lookup(op) specifies. An unknown
// opcode yields an empty instruction; operands not supplied are left as
// zero bytes.
func Make(op Opcode, operands ...int) Instructions {
	def, ok := definitions[op]
	if !ok {
		return Instructions{}
	}

	instructionLen := 1
	for _, w := range def.OperandWidths {
		instructionLen += w
	}

	instruction := make(Instructions, instructionLen)
	instruction[0] = byte(op)

	offset := 1
	for i, o := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(o))
		case 1:
			instruction[offset] = byte(o)
		}
		offset += width
	}

	return instruction
}

// ReadUint16 decodes a big-endian u16 operand from ins starting at offset 0.
func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// ReadUint8 decodes a single-byte operand.
func ReadUint8(ins Instructions) uint8 {
	return uint8(ins[0])
}

// ReadOperands decodes every operand of def from the start of ins,
// returning the decoded values and the number of bytes consumed.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, width := range def.OperandWidths {
		switch width {
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		}
		offset += width
	}

	return operands, offset
}

// String renders ins as a human-readable disassembly listing, one
// instruction per line prefixed by its byte offset — used by the "build"
// CLI path and by tests asserting compiler output.
func (ins Instructions) String() string {
	var out bytes.Buffer

	i := 0
	for i < len(ins) {
		def, err := Lookup(Opcode(ins[i]))
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			i++
			continue
		}

		operands, read := ReadOperands(def, ins[i+1:])
		fmt.Fprintf(&out, "%04d %s\n", i, ins.fmtInstruction(def, operands))
		i += 1 + read
	}

	return out.String()
}

func (ins Instructions) fmtInstruction(def *Definition, operands []int) string {
	operandCount := len(def.OperandWidths)

	switch operandCount {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	}

	return fmt.Sprintf("ERROR: unhandled operandCount for %s", def.Name)
}
