// Package snapshot persists and restores fitted bin state so repeated runs
// can skip the clustering pass entirely.
//
// The blob format is self-describing: a fixed magic number, a format
// version, the codec name, then a zstd-compressed payload encoded by that
// codec. Readers select the codec from the header.
package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/evalkit/ndb/blobstore"
	"github.com/evalkit/ndb/codec"
)

const (
	// Magic identifies snapshot blobs (ASCII "NDB1").
	Magic uint32 = 0x4e444231
	// Version is the current snapshot format version.
	Version uint8 = 1
)

// ErrInvalidFormat is returned when a blob does not parse as a snapshot:
// wrong magic, unsupported version, unknown codec, truncated data, or
// inconsistent field lengths.
var ErrInvalidFormat = errors.New("snapshot: invalid format")

// Snapshot is the full fitted state of a bin model.
type Snapshot struct {
	// Proportions holds the reference bin proportions, descending by
	// bin population.
	Proportions []float64 `json:"proportions"`
	// Centers holds the bin centers, flattened row-major (k * dim) and
	// co-indexed with Proportions.
	Centers []float64 `json:"centers"`
	// Dim is the full sample dimensionality.
	Dim int `json:"dim"`
	// N is the reference sample count the proportions were fit on.
	N int `json:"n"`
	// Mean and Std are the whitening statistics, each of length Dim.
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Validate checks the internal consistency of the snapshot fields.
func (s *Snapshot) Validate() error {
	k := len(s.Proportions)

	switch {
	case s.Dim <= 0:
		return fmt.Errorf("snapshot: non-positive dim %d: %w", s.Dim, ErrInvalidFormat)
	case k == 0:
		return fmt.Errorf("snapshot: no bins: %w", ErrInvalidFormat)
	case len(s.Centers) != k*s.Dim:
		return fmt.Errorf("snapshot: centers length %d, want %d: %w", len(s.Centers), k*s.Dim, ErrInvalidFormat)
	case s.N <= 0:
		return fmt.Errorf("snapshot: non-positive sample count %d: %w", s.N, ErrInvalidFormat)
	case len(s.Mean) != s.Dim || len(s.Std) != s.Dim:
		return fmt.Errorf("snapshot: whitening stats length %d/%d, want %d: %w", len(s.Mean), len(s.Std), s.Dim, ErrInvalidFormat)
	}

	return nil
}

// Save encodes snap with c (codec.Default if nil), compresses it and writes
// it to the store under name, overwriting any previous blob.
func Save(ctx context.Context, store blobstore.BlobStore, name string, snap *Snapshot, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}

	if err := snap.Validate(); err != nil {
		return err
	}

	payload, err := c.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("snapshot: create compressor: %w", err)
	}
	compressed := enc.EncodeAll(payload, nil)
	_ = enc.Close()

	codecName := c.Name()
	if len(codecName) > 255 {
		return fmt.Errorf("snapshot: codec name too long: %w", ErrInvalidFormat)
	}

	var buf bytes.Buffer
	var header [6]byte
	binary.BigEndian.PutUint32(header[0:4], Magic)
	header[4] = Version
	header[5] = uint8(len(codecName))
	buf.Write(header[:])
	buf.WriteString(codecName)
	buf.Write(compressed)

	return store.Put(ctx, name, buf.Bytes())
}

// Load reads the blob stored under name and restores the snapshot, selecting
// the codec from the header. A missing blob fails with blobstore.ErrNotFound.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Snapshot, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := io.ReadAll(blob)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read blob: %w", err)
	}

	if len(data) < 6 {
		return nil, fmt.Errorf("snapshot: truncated header: %w", ErrInvalidFormat)
	}

	if binary.BigEndian.Uint32(data[0:4]) != Magic {
		return nil, fmt.Errorf("snapshot: bad magic: %w", ErrInvalidFormat)
	}

	if data[4] != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d: %w", data[4], ErrInvalidFormat)
	}

	nameLen := int(data[5])
	if len(data) < 6+nameLen {
		return nil, fmt.Errorf("snapshot: truncated codec name: %w", ErrInvalidFormat)
	}

	c, ok := codec.ByName(string(data[6 : 6+nameLen]))
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q: %w", data[6:6+nameLen], ErrInvalidFormat)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create decompressor: %w", err)
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(data[6+nameLen:], nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress: %w", err)
	}

	var snap Snapshot
	if err := c.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return &snap, nil
}
