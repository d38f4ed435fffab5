package tag

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the supported cover formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// FLAC picture block constants
const (
	// PictureTypeFrontCover is APIC type 3 (front cover)
	PictureTypeFrontCover = 3

	// PictureColorDepth is the color depth recorded in the block
	PictureColorDepth = 24
)

// MIME types by cover extension
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"
)

// CoverMIME returns the MIME type for a cover file based on its extension
func CoverMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return MIMEPNG
	case ".webp":
		return MIMEWebP
	default:
		return MIMEJPEG
	}
}

// BuildPictureBlock reads a cover image and encodes it as a base64
// METADATA_BLOCK_PICTURE value: a FLAC picture block (front cover, the
// image's MIME type and dimensions) carrying the raw image bytes.
func BuildPictureBlock(coverPath string) (string, error) {
	data, err := os.ReadFile(coverPath)
	if err != nil {
		return "", fmt.Errorf("failed to read cover image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode cover image %s: %w", filepath.Base(coverPath), err)
	}

	block := encodePictureBlock(CoverMIME(coverPath), cfg.Width, cfg.Height, data)
	return base64.StdEncoding.EncodeToString(block), nil
}

// encodePictureBlock lays out the binary FLAC picture structure: big-endian
// u32 fields for type, MIME length, MIME, description length, description,
// width, height, depth, palette size, data length, data.
func encodePictureBlock(mime string, width, height int, data []byte) []byte {
	var buf bytes.Buffer

	writeU32 := func(v uint32) {
		_ = binary.Write(&buf, binary.BigEndian, v)
	}

	writeU32(PictureTypeFrontCover)
	writeU32(uint32(len(mime)))
	buf.WriteString(mime)
	writeU32(0) // empty description
	writeU32(uint32(width))
	writeU32(uint32(height))
	writeU32(PictureColorDepth)
	writeU32(0) // not palette-indexed
	writeU32(uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}
