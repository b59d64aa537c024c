package pix

// Sample accessors for a single scanline. n is the sample index within the
// line; samples are packed most significant first inside each word.

// GetDataBit returns the n-th 1-bit sample.
func GetDataBit(line []uint32, n int) uint32 {
	return (line[n>>5] >> (31 - uint(n&31))) & 1
}

// SetDataBit sets the n-th 1-bit sample to the low bit of val.
func SetDataBit(line []uint32, n int, val uint32) {
	shift := 31 - uint(n&31)
	w := &line[n>>5]
	*w = (*w &^ (1 << shift)) | ((val & 1) << shift)
}

// GetDataByte returns the n-th 8-bit sample.
func GetDataByte(line []uint32, n int) uint8 {
	return uint8(line[n>>2] >> (24 - 8*uint(n&3)))
}

// SetDataByte sets the n-th 8-bit sample.
func SetDataByte(line []uint32, n int, val uint8) {
	shift := 24 - 8*uint(n&3)
	w := &line[n>>2]
	*w = (*w &^ (0xff << shift)) | uint32(val)<<shift
}

// GetDataTwoBytes returns the n-th 16-bit sample.
func GetDataTwoBytes(line []uint32, n int) uint16 {
	return uint16(line[n>>1] >> (16 - 16*uint(n&1)))
}

// SetDataTwoBytes sets the n-th 16-bit sample.
func SetDataTwoBytes(line []uint32, n int, val uint16) {
	shift := 16 - 16*uint(n&1)
	w := &line[n>>1]
	*w = (*w &^ (0xffff << shift)) | uint32(val)<<shift
}

// GetDataFourBytes returns the n-th 32-bit sample.
func GetDataFourBytes(line []uint32, n int) uint32 {
	return line[n]
}

// SetDataFourBytes sets the n-th 32-bit sample.
func SetDataFourBytes(line []uint32, n int, val uint32) {
	line[n] = val
}

// ComposeRGBA packs four channels into a 32 bpp sample.
func ComposeRGBA(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// ExtractRGBA unpacks a 32 bpp sample.
func ExtractRGBA(v uint32) (r, g, b, a uint8) {
	return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)
}
