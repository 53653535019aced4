// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio

import (
	"bytes"
	"errors"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/klauspost/compress/zstd"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/holomush/irgraph/pkg/ir"
)

// FormatVersion is the version written to new files.
const FormatVersion = "1.0.0"

// supportedVersions is the range of format versions this package reads.
const supportedVersions = "^1.0.0"

var magic = []byte("IRG1")

// header is the length-prefixed message that follows the magic.
type header struct {
	version     string
	compression Compression
	checksum    []byte
	nodes       uint64
}

// EncodeBinary writes a in the binary format.
func EncodeBinary(w io.Writer, a *ir.Arena, opts Options) error {
	body, count := encodeBody(a)
	sum := blake2b.Sum256(body)

	stored, err := compress(opts.Compression, body)
	if err != nil {
		return err
	}

	var hdr []byte
	hdr = protowire.AppendTag(hdr, 1, protowire.BytesType)
	hdr = protowire.AppendString(hdr, FormatVersion)
	hdr = protowire.AppendTag(hdr, 2, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, uint64(opts.Compression))
	hdr = protowire.AppendTag(hdr, 3, protowire.BytesType)
	hdr = protowire.AppendBytes(hdr, sum[:])
	hdr = protowire.AppendTag(hdr, 4, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, uint64(count))

	out := make([]byte, 0, len(magic)+len(hdr)+len(stored)+binaryLenPrefix)
	out = append(out, magic...)
	out = protowire.AppendBytes(out, hdr)
	out = append(out, stored...)

	if _, err := w.Write(out); err != nil {
		return oops.Code("IRIO_WRITE_FAILED").Wrap(err)
	}
	return nil
}

const binaryLenPrefix = 10

// DecodeBinary reads a binary IR file into a new arena.
func DecodeBinary(r io.Reader, opts Options) (*ir.Arena, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, oops.Code("IRIO_READ_FAILED").Wrap(err)
	}
	if !bytes.HasPrefix(data, magic) {
		return nil, oops.Code("IRIO_BAD_MAGIC").Wrap(ErrBadMagic)
	}
	data = data[len(magic):]

	rawHdr, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, malformed("header", protowire.ParseError(n))
	}
	hdr, err := parseHeader(rawHdr)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(hdr.version); err != nil {
		return nil, err
	}

	body, err := decompress(hdr.compression, data[n:])
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(body)
	if !bytes.Equal(sum[:], hdr.checksum) {
		return nil, oops.Code("IRIO_CHECKSUM").Wrap(ErrChecksum)
	}

	return decodeBody(body, hdr.nodes, opts)
}

func encodeBody(a *ir.Arena) ([]byte, int) {
	var body, msg []byte
	count := 0
	for n := range a.Nodes() {
		id := n.ID()
		msg = msg[:0]
		msg = protowire.AppendTag(msg, 1, protowire.BytesType)
		msg = protowire.AppendBytes(msg, id[:])
		msg = protowire.AppendTag(msg, 2, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(n.Kind()))
		if p, ok := n.(ir.Payload); ok {
			if payload := p.AppendPayload(nil); len(payload) > 0 {
				msg = protowire.AppendTag(msg, 3, protowire.BytesType)
				msg = protowire.AppendBytes(msg, payload)
			}
		}
		body = protowire.AppendTag(body, 1, protowire.BytesType)
		body = protowire.AppendBytes(body, msg)
		count++
	}
	return body, count
}

type record struct {
	id      ulid.ULID
	kind    ir.Kind
	payload []byte
}

func decodeBody(body []byte, want uint64, opts Options) (*ir.Arena, error) {
	var records []record
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, malformed("body", protowire.ParseError(n))
		}
		body = body[n:]
		if num != 1 || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, malformed("body", protowire.ParseError(n))
			}
			body = body[n:]
			continue
		}
		msg, n := protowire.ConsumeBytes(body)
		if n < 0 {
			return nil, malformed("node", protowire.ParseError(n))
		}
		body = body[n:]
		rec, err := parseRecord(msg)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if uint64(len(records)) != want {
		return nil, oops.Code("IRIO_MALFORMED").
			With("want", want).
			With("got", len(records)).
			Wrapf(ErrMalformed, "node count mismatch")
	}

	a := ir.NewArena(opts.ArenaOptions...)
	nodes := make([]ir.Node, len(records))
	for i, rec := range records {
		n, err := a.Restore(rec.kind, rec.id)
		if err != nil {
			a.Close()
			return nil, restoreFailed(i, rec.id, err)
		}
		nodes[i] = n
	}
	for i, rec := range records {
		p, ok := nodes[i].(ir.Payload)
		if !ok {
			continue
		}
		if err := p.UnmarshalPayload(rec.payload); err != nil {
			a.Close()
			return nil, oops.Code("IRIO_PAYLOAD_FAILED").With("index", i).Wrap(err)
		}
	}
	return a, nil
}

func parseRecord(msg []byte) (record, error) {
	var rec record
	seenID := false
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return rec, malformed("node", protowire.ParseError(n))
		}
		msg = msg[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(msg)
			if m < 0 || len(v) != len(rec.id) {
				return rec, malformed("node id", nil)
			}
			copy(rec.id[:], v)
			seenID = true
			n = m
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(msg)
			if m < 0 {
				return rec, malformed("node kind", protowire.ParseError(m))
			}
			rec.kind = ir.Kind(v)
			n = m
		case num == 3 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(msg)
			if m < 0 {
				return rec, malformed("node payload", protowire.ParseError(m))
			}
			rec.payload = v
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return rec, malformed("node", protowire.ParseError(n))
			}
		}
		msg = msg[n:]
	}
	if !seenID {
		return rec, malformed("node id", nil)
	}
	return rec, nil
}

func parseHeader(b []byte) (header, error) {
	var hdr header
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return hdr, malformed("header", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return hdr, malformed("header version", protowire.ParseError(m))
			}
			hdr.version = string(v)
			n = m
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return hdr, malformed("header compression", protowire.ParseError(m))
			}
			hdr.compression = Compression(v)
			n = m
		case num == 3 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return hdr, malformed("header checksum", protowire.ParseError(m))
			}
			hdr.checksum = v
			n = m
		case num == 4 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return hdr, malformed("header node count", protowire.ParseError(m))
			}
			hdr.nodes = v
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return hdr, malformed("header", protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return hdr, nil
}

// checkVersion rejects format versions outside supportedVersions.
func checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return oops.Code("IRIO_UNSUPPORTED_VERSION").With("version", version).Wrap(ErrUnsupportedVersion)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return oops.Wrap(err)
	}
	if !c.Check(v) {
		return oops.Code("IRIO_UNSUPPORTED_VERSION").
			With("version", version).
			With("supported", supportedVersions).
			Wrap(ErrUnsupportedVersion)
	}
	return nil
}

func compress(c Compression, body []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return body, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, oops.Code("IRIO_COMPRESS_FAILED").Wrap(err)
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(body, nil), nil
	}
	return nil, oops.Code("IRIO_UNKNOWN_COMPRESSION").With("compression", uint8(c)).Wrap(ErrUnknownCompression)
}

func decompress(c Compression, stored []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return stored, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, oops.Code("IRIO_DECOMPRESS_FAILED").Wrap(err)
		}
		defer dec.Close()
		body, err := dec.DecodeAll(stored, nil)
		if err != nil {
			return nil, oops.Code("IRIO_DECOMPRESS_FAILED").Wrap(err)
		}
		return body, nil
	}
	return nil, oops.Code("IRIO_UNKNOWN_COMPRESSION").With("compression", uint8(c)).Wrap(ErrUnknownCompression)
}

func restoreFailed(index int, id ulid.ULID, err error) error {
	code := "IRIO_RESTORE_FAILED"
	if errors.Is(err, ir.ErrDuplicateID) {
		code = "IRIO_DUPLICATE_ID"
	}
	return oops.Code(code).With("index", index).With("id", id.String()).Wrap(err)
}

func malformed(where string, cause error) error {
	b := oops.Code("IRIO_MALFORMED").With("where", where)
	if cause != nil {
		return b.Wrapf(ErrMalformed, "%s: %v", where, cause)
	}
	return b.Wrapf(ErrMalformed, "%s", where)
}
