// Chunk walking adapted from https://github.com/parsiya/Go-Security/blob/master/png-tests/png-chunk-extraction.go

package png_inspector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// 89 50 4E 47 0D 0A 1A 0A
var pngSignature = "\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"

const ihdrLength = 13

// PNG color types that carry an alpha channel.
const (
	colorTypeGrayAlpha = 4
	colorTypeRGBA      = 6
)

// uInt32ToInt converts a 4 byte big-endian buffer to int.
func uInt32ToInt(buf []byte) (int, error) {
	if len(buf) == 0 || len(buf) > 4 {
		return 0, errors.New("invalid buffer")
	}

	return int(binary.BigEndian.Uint32(buf)), nil
}

// Each chunk starts with a uint32 length (big endian), then a 4 byte name,
// then data and finally the CRC32 of the chunk data.
type chunk struct {
	Length int
	CType  string
	Data   []byte
	Crc32  []byte
}

func (c *chunk) populate(r io.Reader) error {
	buf := make([]byte, 4)

	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}

	var err error

	c.Length, err = uInt32ToInt(buf)
	if err != nil {
		return errors.New("cannot convert length to int")
	}

	if _, err = io.ReadFull(r, buf); err != nil {
		return err
	}

	c.CType = string(buf)

	data := make([]byte, c.Length)

	if _, err = io.ReadFull(r, data); err != nil {
		return err
	}

	c.Data = data

	// The CRC is read but not verified.
	if _, err = io.ReadFull(r, buf); err != nil {
		return err
	}

	c.Crc32 = buf

	return nil
}

// ImageInfo describes a PNG's IHDR fields plus whether the file carries any
// transparency (an alpha-bearing color type or a tRNS chunk).
type ImageInfo struct {
	Width     int
	Height    int
	BitDepth  int
	ColorType int
	HasAlpha  bool
}

type inspectorImpl struct {
	chunks []*chunk
}

type Config struct {
	PNGData []byte
}

func New(cfg Config) (Inspector, error) {
	if cfg.PNGData == nil {
		return nil, errors.New("png data is nil")
	}

	reader := bytes.NewReader(cfg.PNGData)

	signature := make([]byte, 8)

	if _, err := io.ReadFull(reader, signature); err != nil {
		return nil, fmt.Errorf("reading png signature: %w", err)
	}

	if string(signature) != pngSignature {
		return nil, fmt.Errorf("wrong png signature: got %x, expected %x", signature, pngSignature)
	}

	var chunks []*chunk

	for {
		var c chunk

		err := (&c).populate(reader)
		if err != nil {
			// A clean EOF means the chunk stream ended; anything mid-chunk
			// is a truncated file, and the chunks read so far still stand.
			break
		}

		chunks = append(chunks, &c)
	}

	if len(chunks) == 0 {
		return nil, errors.New("png has no chunks")
	}

	return &inspectorImpl{chunks: chunks}, nil
}

// Parse IHDR chunk.
// https://golang.org/src/image/png/reader.go?#L142 is your friend.
func parseIHDR(ihdr *chunk) (*ImageInfo, error) {
	if ihdr.CType != "IHDR" {
		return nil, fmt.Errorf("first chunk is %q, expected IHDR", ihdr.CType)
	}

	if ihdr.Length != ihdrLength {
		return nil, fmt.Errorf("invalid IHDR length: got %d, expected %d", ihdr.Length, ihdrLength)
	}

	// Width:              4 bytes
	// Height:             4 bytes
	// Bit depth:          1 byte
	// Color type:         1 byte
	// Compression method: 1 byte
	// Filter method:      1 byte
	// Interlace method:   1 byte
	data := ihdr.Data

	var info ImageInfo

	var err error

	info.Width, err = uInt32ToInt(data[0:4])
	if err != nil || info.Width <= 0 {
		return nil, fmt.Errorf("invalid width in IHDR: got %x", data[0:4])
	}

	info.Height, err = uInt32ToInt(data[4:8])
	if err != nil || info.Height <= 0 {
		return nil, fmt.Errorf("invalid height in IHDR: got %x", data[4:8])
	}

	info.BitDepth = int(data[8])
	info.ColorType = int(data[9])

	// Only compression method 0 exists.
	if int(data[10]) != 0 {
		return nil, fmt.Errorf("invalid compression method: expected 0, got %x", data[10])
	}

	// Only filter method 0 exists.
	if int(data[11]) != 0 {
		return nil, fmt.Errorf("invalid filter method: expected 0, got %x", data[11])
	}

	// Only interlace methods 0 and 1 exist.
	if int(data[12]) != 0 && int(data[12]) != 1 {
		return nil, fmt.Errorf("invalid interlace method: expected 0 or 1, got %x", data[12])
	}

	return &info, nil
}

func (in *inspectorImpl) Info() (*ImageInfo, error) {
	info, err := parseIHDR(in.chunks[0])
	if err != nil {
		return nil, err
	}

	info.HasAlpha = info.ColorType == colorTypeGrayAlpha || info.ColorType == colorTypeRGBA

	if !info.HasAlpha {
		// Indexed and truecolor files can still be transparent through a
		// tRNS chunk.
		for _, c := range in.chunks {
			if c.CType == "tRNS" {
				info.HasAlpha = true

				break
			}
		}
	}

	return info, nil
}
