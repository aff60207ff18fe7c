package line

// Opcode flags. The top 3 bits of every header byte select one of these
// eight operations; the low 5 bits carry the operand n. Modeled as a
// closed set of constants dispatched through an exhaustive switch, not
// through virtual dispatch (§9 "Opcode dispatch").
type opcode uint8

const (
	opTransparentRun      opcode = 0b000
	opSolidRun            opcode = 0b001
	opLiteralRun          opcode = 0b010
	opTranslucentRun      opcode = 0b011
	opSingleTranslucent   opcode = 0b100
	opShadowRun           opcode = 0b101
	opPlayerPixel         opcode = 0b110
	opPlayerPixelVariants opcode = 0b111
)

// splitHeaderByte separates an opcode header byte into its 3-bit flag and
// 5-bit operand.
func splitHeaderByte(h byte) (flag opcode, n uint8) {
	return opcode(h >> 5), h & 0x1F
}

// joinHeaderByte packs a flag and operand back into a single header byte.
// n is masked to 5 bits.
func joinHeaderByte(flag opcode, n uint8) byte {
	return byte(flag)<<5 | (n & 0x1F)
}
