package sdram

// The data bus of the modeled part is 16 bits wide, so every 32-bit word
// moves as two column transfers. Both directions must use the same half
// order or a word written and read back would come back permuted. These two
// helpers are the single definition of that order: high half on the first
// transfer, low half on the second.

// splitWord returns the two bus halves of a word in transfer order.
func splitWord(v uint32) (first, second uint16) {
	return uint16(v >> 16), uint16(v)
}

// joinWord reassembles a word from its two bus halves in transfer order.
func joinWord(first, second uint16) uint32 {
	return uint32(first)<<16 | uint32(second)
}
