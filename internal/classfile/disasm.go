package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Disassembler prints a human-readable rendering of one method's code
// array, for golden-file testing and troubleshooting generated classes.
// Output is offset-prefixed, one instruction per line, written directly
// to an io.Writer rather than built up as a giant string; it walks the
// JVM's variable-width instruction encoding, decoding each opcode's
// operand width from the opcode itself.
type Disassembler struct {
	writer io.Writer
	code   []byte
}

// NewDisassembler wraps a finished method body for printing.
func NewDisassembler(code []byte, writer io.Writer) *Disassembler {
	return &Disassembler{writer: writer, code: code}
}

// Disassemble prints every instruction in the code array.
func (d *Disassembler) Disassemble() {
	offset := 0
	for offset < len(d.code) {
		offset = d.disassembleInstruction(offset)
	}
}

var opNames = map[Op]string{
	OpNop: "nop", OpAconstNull: "aconst_null",
	OpIconstM1: "iconst_m1", OpIconst0: "iconst_0", OpIconst1: "iconst_1",
	OpIconst2: "iconst_2", OpIconst3: "iconst_3", OpIconst4: "iconst_4", OpIconst5: "iconst_5",
	OpLconst0: "lconst_0", OpLconst1: "lconst_1",
	OpDconst0: "dconst_0", OpDconst1: "dconst_1",
	OpBipush: "bipush", OpSipush: "sipush",
	OpLdc: "ldc", OpLdcW: "ldc_w", OpLdc2W: "ldc2_w",
	OpIload: "iload", OpLload: "lload", OpDload: "dload", OpAload: "aload",
	OpIload0: "iload_0", OpIload1: "iload_1", OpIload2: "iload_2", OpIload3: "iload_3",
	OpLload0: "lload_0", OpLload1: "lload_1", OpLload2: "lload_2", OpLload3: "lload_3",
	OpDload0: "dload_0", OpDload1: "dload_1", OpDload2: "dload_2", OpDload3: "dload_3",
	OpAload0: "aload_0", OpAload1: "aload_1", OpAload2: "aload_2", OpAload3: "aload_3",
	OpIaload: "iaload", OpAaload: "aaload",
	OpIstore: "istore", OpLstore: "lstore", OpDstore: "dstore", OpAstore: "astore",
	OpIstore0: "istore_0", OpIstore1: "istore_1", OpIstore2: "istore_2", OpIstore3: "istore_3",
	OpLstore0: "lstore_0", OpLstore1: "lstore_1", OpLstore2: "lstore_2", OpLstore3: "lstore_3",
	OpDstore0: "dstore_0", OpDstore1: "dstore_1", OpDstore2: "dstore_2", OpDstore3: "dstore_3",
	OpAstore0: "astore_0", OpAstore1: "astore_1", OpAstore2: "astore_2", OpAstore3: "astore_3",
	OpIastore: "iastore", OpAastore: "aastore",
	OpPop: "pop", OpPop2: "pop2", OpDup: "dup", OpDupX1: "dup_x1", OpDupX2: "dup_x2", OpSwap: "swap",
	OpIadd: "iadd", OpIsub: "isub", OpImul: "imul", OpIdiv: "idiv", OpIrem: "irem", OpIneg: "ineg",
	OpLadd: "ladd", OpLsub: "lsub", OpLmul: "lmul", OpLdiv: "ldiv", OpLrem: "lrem", OpLneg: "lneg",
	OpDadd: "dadd", OpDsub: "dsub", OpDmul: "dmul", OpDdiv: "ddiv", OpDrem: "drem", OpDneg: "dneg",
	OpIand: "iand", OpIor: "ior", OpIxor: "ixor", OpIshl: "ishl", OpIshr: "ishr",
	OpI2l: "i2l", OpI2d: "i2d", OpL2d: "l2d", OpD2i: "d2i", OpD2l: "d2l",
	OpI2b: "i2b", OpI2c: "i2c", OpI2s: "i2s",
	OpLcmp: "lcmp", OpDcmpl: "dcmpl", OpDcmpg: "dcmpg",
	OpIfeq: "ifeq", OpIfne: "ifne", OpIflt: "iflt", OpIfge: "ifge", OpIfgt: "ifgt", OpIfle: "ifle",
	OpIfIcmpeq: "if_icmpeq", OpIfIcmpne: "if_icmpne", OpIfIcmplt: "if_icmplt",
	OpIfIcmpge: "if_icmpge", OpIfIcmpgt: "if_icmpgt", OpIfIcmple: "if_icmple",
	OpIfAcmpeq: "if_acmpeq", OpIfAcmpne: "if_acmpne",
	OpGoto: "goto", OpIfnull: "ifnull", OpIfnonnull: "ifnonnull",
	OpIreturn: "ireturn", OpLreturn: "lreturn", OpDreturn: "dreturn", OpAreturn: "areturn", OpReturn: "return",
	OpGetstatic: "getstatic", OpPutstatic: "putstatic", OpGetfield: "getfield", OpPutfield: "putfield",
	OpInvokevirtual: "invokevirtual", OpInvokespecial: "invokespecial", OpInvokestatic: "invokestatic",
	OpInvokeinterface: "invokeinterface", OpInvokedynamic: "invokedynamic",
	OpNew: "new", OpNewarray: "newarray", OpAnewarray: "anewarray",
	OpArraylength: "arraylength", OpAthrow: "athrow", OpCheckcast: "checkcast", OpInstanceof: "instanceof",
}

// zeroOperandOps disassemble with no trailing operand bytes.
var zeroOperandOps = map[Op]bool{
	OpNop: true, OpAconstNull: true,
	OpIconstM1: true, OpIconst0: true, OpIconst1: true, OpIconst2: true, OpIconst3: true, OpIconst4: true, OpIconst5: true,
	OpLconst0: true, OpLconst1: true, OpDconst0: true, OpDconst1: true,
	OpIload0: true, OpIload1: true, OpIload2: true, OpIload3: true,
	OpLload0: true, OpLload1: true, OpLload2: true, OpLload3: true,
	OpDload0: true, OpDload1: true, OpDload2: true, OpDload3: true,
	OpAload0: true, OpAload1: true, OpAload2: true, OpAload3: true,
	OpIaload: true, OpAaload: true,
	OpIstore0: true, OpIstore1: true, OpIstore2: true, OpIstore3: true,
	OpLstore0: true, OpLstore1: true, OpLstore2: true, OpLstore3: true,
	OpDstore0: true, OpDstore1: true, OpDstore2: true, OpDstore3: true,
	OpAstore0: true, OpAstore1: true, OpAstore2: true, OpAstore3: true,
	OpIastore: true, OpAastore: true,
	OpPop: true, OpPop2: true, OpDup: true, OpDupX1: true, OpDupX2: true, OpSwap: true,
	OpIadd: true, OpIsub: true, OpImul: true, OpIdiv: true, OpIrem: true, OpIneg: true,
	OpLadd: true, OpLsub: true, OpLmul: true, OpLdiv: true, OpLrem: true, OpLneg: true,
	OpDadd: true, OpDsub: true, OpDmul: true, OpDdiv: true, OpDrem: true, OpDneg: true,
	OpIand: true, OpIor: true, OpIxor: true, OpIshl: true, OpIshr: true,
	OpI2l: true, OpI2d: true, OpL2d: true, OpD2i: true, OpD2l: true, OpI2b: true, OpI2c: true, OpI2s: true,
	OpLcmp: true, OpDcmpl: true, OpDcmpg: true,
	OpIreturn: true, OpLreturn: true, OpDreturn: true, OpAreturn: true, OpReturn: true,
	OpArraylength: true, OpAthrow: true,
}

// oneByteOperandOps take a single trailing byte (BIPUSH, LDC, NEWARRAY,
// the indexed *load/*store forms, and RET).
var oneByteOperandOps = map[Op]bool{
	OpBipush: true, OpLdc: true, OpNewarray: true,
	OpIload: true, OpLload: true, OpDload: true, OpAload: true,
	OpIstore: true, OpLstore: true, OpDstore: true, OpAstore: true,
}

// twoByteOperandOps take a trailing big-endian uint16 (most pool refs and
// all branch offsets).
var twoByteOperandOps = map[Op]bool{
	OpSipush: true, OpLdcW: true, OpLdc2W: true,
	OpIfeq: true, OpIfne: true, OpIflt: true, OpIfge: true, OpIfgt: true, OpIfle: true,
	OpIfIcmpeq: true, OpIfIcmpne: true, OpIfIcmplt: true, OpIfIcmpge: true, OpIfIcmpgt: true, OpIfIcmple: true,
	OpIfAcmpeq: true, OpIfAcmpne: true, OpGoto: true, OpIfnull: true, OpIfnonnull: true,
	OpGetstatic: true, OpPutstatic: true, OpGetfield: true, OpPutfield: true,
	OpInvokevirtual: true, OpInvokespecial: true, OpInvokestatic: true,
	OpNew: true, OpAnewarray: true, OpCheckcast: true, OpInstanceof: true,
}

func (d *Disassembler) disassembleInstruction(offset int) int {
	op := Op(d.code[offset])
	name, known := opNames[op]
	if !known {
		fmt.Fprintf(d.writer, "%04d unknown(0x%02x)\n", offset, byte(op))
		return offset + 1
	}

	switch {
	case zeroOperandOps[op]:
		fmt.Fprintf(d.writer, "%04d %s\n", offset, name)
		return offset + 1

	case oneByteOperandOps[op]:
		arg := d.code[offset+1]
		fmt.Fprintf(d.writer, "%04d %-16s %d\n", offset, name, arg)
		return offset + 2

	case twoByteOperandOps[op]:
		arg := binary.BigEndian.Uint16(d.code[offset+1 : offset+3])
		if isBranchOp(op) {
			target := offset + int(int16(arg))
			fmt.Fprintf(d.writer, "%04d %-16s -> %04d\n", offset, name, target)
		} else {
			fmt.Fprintf(d.writer, "%04d %-16s #%d\n", offset, name, arg)
		}
		return offset + 3

	case op == OpInvokeinterface:
		methodIdx := binary.BigEndian.Uint16(d.code[offset+1 : offset+3])
		count := d.code[offset+3]
		fmt.Fprintf(d.writer, "%04d %-16s #%d, %d\n", offset, name, methodIdx, count)
		return offset + 5

	case op == OpInvokedynamic:
		idx := binary.BigEndian.Uint16(d.code[offset+1 : offset+3])
		fmt.Fprintf(d.writer, "%04d %-16s #%d\n", offset, name, idx)
		return offset + 5 // two reserved zero bytes follow

	default:
		fmt.Fprintf(d.writer, "%04d %s (unhandled operand form)\n", offset, name)
		return offset + 1
	}
}

func isBranchOp(op Op) bool {
	switch op {
	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpGoto, OpIfnull, OpIfnonnull:
		return true
	default:
		return false
	}
}
