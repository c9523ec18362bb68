package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	iconTypeICO   = 1
	headerSize    = 6
	dirEntrySize  = 16
	entryPlanes   = 1
	entryBitCount = 32
)

// iconDir is the ICONDIR header at the start of every .ico file.
type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// iconDirEntry is one ICONDIRENTRY record. Width and Height use 0 for 256.
type iconDirEntry struct {
	Width       uint8
	Height      uint8
	ColorCount  uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

// Entry describes one embedded bitmap as recorded in the container directory.
type Entry struct {
	Width      int
	Height     int
	ColorCount int
	Planes     int
	BitCount   int
	Size       uint32
	Offset     uint32
}

// Encode writes images as an ICO container with one PNG payload per image,
// in the given order.
func Encode(w io.Writer, images []image.Image) error {
	if len(images) == 0 {
		return errors.New("encode icon: no images")
	}
	if len(images) > 0xFFFF {
		return fmt.Errorf("encode icon: %d images exceed directory capacity", len(images))
	}

	payloads := make([][]byte, len(images))
	entries := make([]iconDirEntry, len(images))
	offset := uint32(headerSize + dirEntrySize*len(images))
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 || b.Dx() > MaxDimension || b.Dy() > MaxDimension {
			return fmt.Errorf("encode icon: image %d is %dx%d, want 1..%d", i, b.Dx(), b.Dy(), MaxDimension)
		}
		var buf bytes.Buffer
		if err := enc.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode icon: png payload %d: %w", i, err)
		}
		payloads[i] = buf.Bytes()
		entries[i] = iconDirEntry{
			Width:       dimensionByte(b.Dx()),
			Height:      dimensionByte(b.Dy()),
			Planes:      entryPlanes,
			BitCount:    entryBitCount,
			BytesInRes:  uint32(len(payloads[i])),
			ImageOffset: offset,
		}
		offset += uint32(len(payloads[i]))
	}

	header := iconDir{Type: iconTypeICO, Count: uint16(len(images))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("encode icon: header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, entries); err != nil {
		return fmt.Errorf("encode icon: directory: %w", err)
	}
	for i, p := range payloads {
		if _, err := w.Write(p); err != nil {
			return fmt.Errorf("encode icon: payload %d: %w", i, err)
		}
	}
	return nil
}

// ReadDirectory parses the header and directory of an ICO file held in data.
// It verifies that every payload lies inside data but does not decode it.
func ReadDirectory(data []byte) ([]Entry, error) {
	r := bytes.NewReader(data)
	var header iconDir
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read icon header: %w", err)
	}
	if header.Reserved != 0 || header.Type != iconTypeICO {
		return nil, fmt.Errorf("read icon header: not an icon (reserved=%d type=%d)", header.Reserved, header.Type)
	}
	if header.Count == 0 {
		return nil, errors.New("read icon header: no entries")
	}

	raw := make([]iconDirEntry, header.Count)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("read icon directory: %w", err)
	}

	dirEnd := uint64(headerSize + dirEntrySize*int(header.Count))
	entries := make([]Entry, len(raw))
	for i, e := range raw {
		end := uint64(e.ImageOffset) + uint64(e.BytesInRes)
		if e.BytesInRes == 0 || uint64(e.ImageOffset) < dirEnd || end > uint64(len(data)) {
			return nil, fmt.Errorf("read icon directory: entry %d payload [%d,%d) outside file of %d bytes",
				i, e.ImageOffset, end, len(data))
		}
		entries[i] = Entry{
			Width:      dimensionValue(e.Width),
			Height:     dimensionValue(e.Height),
			ColorCount: int(e.ColorCount),
			Planes:     int(e.Planes),
			BitCount:   int(e.BitCount),
			Size:       e.BytesInRes,
			Offset:     e.ImageOffset,
		}
	}
	return entries, nil
}

// DecodeEntries decodes every PNG payload in an ICO file, in directory order.
func DecodeEntries(data []byte) ([]image.Image, error) {
	entries, err := ReadDirectory(data)
	if err != nil {
		return nil, err
	}
	images := make([]image.Image, len(entries))
	for i, e := range entries {
		payload := data[e.Offset : e.Offset+e.Size]
		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("decode icon entry %d: %w", i, err)
		}
		images[i] = img
	}
	return images, nil
}

func dimensionByte(v int) uint8 {
	if v >= MaxDimension {
		return 0
	}
	return uint8(v)
}

func dimensionValue(b uint8) int {
	if b == 0 {
		return MaxDimension
	}
	return int(b)
}
