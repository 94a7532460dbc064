package timeclock

import (
	"bytes"
	"encoding/binary"
)

const iconSize = 16

// clockIcon builds a 16x16 32-bit ICO: a filled circle with a clock hand
func clockIcon() []byte {
	var pixels bytes.Buffer
	// Bitmap rows are stored bottom-up, BGRA
	for y := iconSize - 1; y >= 0; y-- {
		for x := 0; x < iconSize; x++ {
			dx, dy := x*2-iconSize+1, y*2-iconSize+1
			inside := dx*dx+dy*dy <= (iconSize-1)*(iconSize-1)
			hand := (x == iconSize/2 && y >= 3 && y <= iconSize/2) || (y == iconSize/2 && x >= iconSize/2 && x <= iconSize-5)
			switch {
			case hand:
				pixels.Write([]byte{0xff, 0xff, 0xff, 0xff})
			case inside:
				pixels.Write([]byte{0xd4, 0x8a, 0x2e, 0xff})
			default:
				pixels.Write([]byte{0, 0, 0, 0})
			}
		}
	}
	// AND mask, 1 bit per pixel, rows padded to 4 bytes; alpha channel is used instead
	mask := make([]byte, iconSize*4)

	const headerSize = 6 + 16
	const infoSize = 40
	imageSize := infoSize + pixels.Len() + len(mask)

	var buf bytes.Buffer
	le := binary.LittleEndian
	// ICONDIR
	_ = binary.Write(&buf, le, uint16(0))
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(1))
	// ICONDIRENTRY
	buf.WriteByte(iconSize)
	buf.WriteByte(iconSize)
	buf.WriteByte(0)
	buf.WriteByte(0)
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(32))
	_ = binary.Write(&buf, le, uint32(imageSize))
	_ = binary.Write(&buf, le, uint32(headerSize))
	// BITMAPINFOHEADER, height doubled for XOR + AND
	_ = binary.Write(&buf, le, uint32(infoSize))
	_ = binary.Write(&buf, le, int32(iconSize))
	_ = binary.Write(&buf, le, int32(iconSize*2))
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(32))
	_ = binary.Write(&buf, le, uint32(0))
	_ = binary.Write(&buf, le, uint32(pixels.Len()+len(mask)))
	_ = binary.Write(&buf, le, int32(0))
	_ = binary.Write(&buf, le, int32(0))
	_ = binary.Write(&buf, le, uint32(0))
	_ = binary.Write(&buf, le, uint32(0))

	buf.Write(pixels.Bytes())
	buf.Write(mask)
	return buf.Bytes()
}
