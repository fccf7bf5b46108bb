// Package bytecode implements the ".mb" file format: a self-describing
// binary serialization of a compiled program (instructions + constant
// pool) so "nilan build IN OUT" can write compiled output that "nilan
// runc OUT" later loads and runs without re-parsing or re-compiling.
//
// Layout: magic number, format version, then a length-prefixed
// constants section and a length-prefixed instructions section. Each
// constant is tagged by a kind byte; only the kinds that can appear in
// a constant pool are serializable (Integer, String, Boolean, Builtin
// by name, and CompiledFunction, which recurses into its own
// instructions sub-section). All integers are big-endian.
package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"

	"nilan/code"
	"nilan/object"
)

// MagicNumber identifies a Nilan bytecode file: the ASCII bytes "NLBC".
const MagicNumber uint32 = 0x4E4C4243

// FormatVersion is the current .mb format version.
const FormatVersion uint32 = 1

const (
	constTypeInteger          byte = 0x01
	constTypeString           byte = 0x02
	constTypeBoolean          byte = 0x03
	constTypeBuiltin          byte = 0x04
	constTypeCompiledFunction byte = 0x05
)

// File is the on-disk representation of one compiled program: its
// top-level instruction stream and the constant pool it indexes into.
type File struct {
	Instructions code.Instructions
	Constants    []object.Value
}

// Write serializes f to w in the .mb format.
func Write(f File, w io.Writer) error {
	if err := writeHeader(w); err != nil {
		return fmt.Errorf("bytecode: writing header: %w", err)
	}
	if err := writeConstants(w, f.Constants); err != nil {
		return fmt.Errorf("bytecode: writing constants: %w", err)
	}
	if err := writeInstructions(w, f.Instructions); err != nil {
		return fmt.Errorf("bytecode: writing instructions: %w", err)
	}
	return nil
}

// Read deserializes a .mb file from r.
func Read(r io.Reader) (File, error) {
	if err := readHeader(r); err != nil {
		return File{}, fmt.Errorf("bytecode: reading header: %w", err)
	}
	constants, err := readConstants(r)
	if err != nil {
		return File{}, fmt.Errorf("bytecode: reading constants: %w", err)
	}
	instructions, err := readInstructions(r)
	if err != nil {
		return File{}, fmt.Errorf("bytecode: reading instructions: %w", err)
	}
	return File{Instructions: instructions, Constants: constants}, nil
}

func writeHeader(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, MagicNumber); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, FormatVersion)
}

func readHeader(r io.Reader) error {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return err
	}
	if magic != MagicNumber {
		return fmt.Errorf("not a nilan bytecode file: bad magic number 0x%08X", magic)
	}

	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return err
	}
	if version != FormatVersion {
		return fmt.Errorf("unsupported bytecode version %d (expected %d)", version, FormatVersion)
	}
	return nil
}

func writeInstructions(w io.Writer, ins code.Instructions) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(ins))); err != nil {
		return err
	}
	_, err := w.Write(ins)
	return err
}

func readInstructions(r io.Reader) (code.Instructions, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return code.Instructions(buf), nil
}

func writeConstants(w io.Writer, constants []object.Value) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(constants))); err != nil {
		return err
	}
	for i, c := range constants {
		if err := writeConstant(w, c); err != nil {
			return fmt.Errorf("constant %d: %w", i, err)
		}
	}
	return nil
}

func writeConstant(w io.Writer, val object.Value) error {
	switch v := val.(type) {
	case *object.Integer:
		if err := writeByte(w, constTypeInteger); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, v.Value)

	case *object.String:
		if err := writeByte(w, constTypeString); err != nil {
			return err
		}
		return writeString(w, v.Value)

	case *object.Boolean:
		if err := writeByte(w, constTypeBoolean); err != nil {
			return err
		}
		var b byte
		if v.Value {
			b = 1
		}
		return writeByte(w, b)

	case *object.Builtin:
		name := builtinName(v)
		if name == "" {
			return fmt.Errorf("builtin constant has no registered name")
		}
		if err := writeByte(w, constTypeBuiltin); err != nil {
			return err
		}
		return writeString(w, name)

	case *object.CompiledFunction:
		if err := writeByte(w, constTypeCompiledFunction); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(v.NumLocals)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(v.NumParameters)); err != nil {
			return err
		}
		return writeInstructions(w, v.Instructions)

	default:
		return fmt.Errorf("unsupported constant type %T", val)
	}
}

func readConstants(r io.Reader) ([]object.Value, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	constants := make([]object.Value, count)
	for i := uint32(0); i < count; i++ {
		c, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		constants[i] = c
	}
	return constants, nil
}

func readConstant(r io.Reader) (object.Value, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}

	switch tag {
	case constTypeInteger:
		var v int64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return &object.Integer{Value: v}, nil

	case constTypeString:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: s}, nil

	case constTypeBoolean:
		b, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if b != 0 {
			return object.TRUE, nil
		}
		return object.FALSE, nil

	case constTypeBuiltin:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		builtin := object.GetBuiltinByName(name)
		if builtin == nil {
			return nil, fmt.Errorf("unknown builtin %q in bytecode file", name)
		}
		return builtin, nil

	case constTypeCompiledFunction:
		var numLocals, numParams uint32
		if err := binary.Read(r, binary.BigEndian, &numLocals); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &numParams); err != nil {
			return nil, err
		}
		ins, err := readInstructions(r)
		if err != nil {
			return nil, err
		}
		return &object.CompiledFunction{
			Instructions:  ins,
			NumLocals:     int(numLocals),
			NumParameters: int(numParams),
		}, nil

	default:
		return nil, fmt.Errorf("unknown constant tag 0x%02X", tag)
	}
}

func builtinName(b *object.Builtin) string {
	for _, entry := range object.Builtins {
		if entry.Builtin == b {
			return entry.Name
		}
	}
	return ""
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func readByte(r io.Reader) (byte, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
