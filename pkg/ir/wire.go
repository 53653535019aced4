// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"google.golang.org/protobuf/encoding/protowire"
)

// Payload is implemented by every concrete node. The payload is the
// node's fields in protobuf wire format; references are written as 16-byte
// identities. Identity and kind are not part of the payload.
type Payload interface {
	Node
	AppendPayload(b []byte) []byte
	UnmarshalPayload(b []byte) error
}

var (
	_ Payload = (*Module)(nil)
	_ Payload = (*Section)(nil)
	_ Payload = (*Symbol)(nil)
	_ Payload = (*BasicBlock)(nil)
	_ Payload = (*ProxyBlock)(nil)
	_ Payload = (*DataObject)(nil)
)

// AppendPayload implements Payload.
func (m *Module) AppendPayload(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.BinaryPath)
	b = appendVarint(b, 3, uint64(m.FileFormat))
	b = appendVarint(b, 4, uint64(m.ISA))
	b = appendVarint(b, 5, uint64(m.PreferredAddr))
	b = appendVarint(b, 6, protowire.EncodeZigZag(m.RebaseDelta))
	b = appendVarint(b, 7, uint64(m.AddrRange.Min))
	b = appendVarint(b, 8, uint64(m.AddrRange.Max))
	b = appendRef(b, 9, m.EntryPoint)
	b = appendRefs(b, 10, m.Sections)
	b = appendRefs(b, 11, m.Symbols)
	b = appendRefs(b, 12, m.Blocks)
	return appendRefs(b, 13, m.Data)
}

// UnmarshalPayload implements Payload. Existing payload fields are replaced.
func (m *Module) UnmarshalPayload(b []byte) error {
	*m = Module{nodeBase: m.nodeBase}
	r := &wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Name = r.string()
		case 2:
			m.BinaryPath = r.string()
		case 3:
			m.FileFormat = FileFormat(r.varint())
		case 4:
			m.ISA = ISA(r.varint())
		case 5:
			m.PreferredAddr = Addr(r.varint())
		case 6:
			m.RebaseDelta = protowire.DecodeZigZag(r.varint())
		case 7:
			m.AddrRange.Min = Addr(r.varint())
		case 8:
			m.AddrRange.Max = Addr(r.varint())
		case 9:
			m.EntryPoint = RefByID[*BasicBlock](r.id())
		case 10:
			m.Sections = append(m.Sections, RefByID[*Section](r.id()))
		case 11:
			m.Symbols = append(m.Symbols, RefByID[*Symbol](r.id()))
		case 12:
			m.Blocks = append(m.Blocks, RefByID[CFGNode](r.id()))
		case 13:
			m.Data = append(m.Data, RefByID[*DataObject](r.id()))
		default:
			r.skip()
		}
	}
	return r.done(m)
}

// AppendPayload implements Payload.
func (s *Section) AppendPayload(b []byte) []byte {
	b = appendString(b, 1, s.Name)
	b = appendVarint(b, 2, uint64(s.Address))
	return appendVarint(b, 3, s.Size)
}

// UnmarshalPayload implements Payload.
func (s *Section) UnmarshalPayload(b []byte) error {
	*s = Section{nodeBase: s.nodeBase}
	r := &wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			s.Name = r.string()
		case 2:
			s.Address = Addr(r.varint())
		case 3:
			s.Size = r.varint()
		default:
			r.skip()
		}
	}
	return r.done(s)
}

// AppendPayload implements Payload.
func (s *Symbol) AppendPayload(b []byte) []byte {
	b = appendString(b, 1, s.Name)
	b = appendVarint(b, 2, uint64(s.Storage))
	b = appendVarint(b, 3, uint64(s.Address))
	return appendRef(b, 4, s.Referent)
}

// UnmarshalPayload implements Payload.
func (s *Symbol) UnmarshalPayload(b []byte) error {
	*s = Symbol{nodeBase: s.nodeBase}
	r := &wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			s.Name = r.string()
		case 2:
			s.Storage = StorageKind(r.varint())
		case 3:
			s.Address = Addr(r.varint())
		case 4:
			s.Referent = RefByID[Node](r.id())
		default:
			r.skip()
		}
	}
	return r.done(s)
}

// AppendPayload implements Payload.
func (b *BasicBlock) AppendPayload(buf []byte) []byte {
	buf = appendVarint(buf, 1, uint64(b.Address))
	buf = appendVarint(buf, 2, b.Size)
	buf = appendVarint(buf, 3, b.DecodeMode)
	buf = appendRefs(buf, 4, b.Successors)
	return appendRefs(buf, 5, b.DataRefs)
}

// UnmarshalPayload implements Payload.
func (b *BasicBlock) UnmarshalPayload(buf []byte) error {
	*b = BasicBlock{nodeBase: b.nodeBase}
	r := &wireReader{buf: buf}
	for r.next() {
		switch r.num {
		case 1:
			b.Address = Addr(r.varint())
		case 2:
			b.Size = r.varint()
		case 3:
			b.DecodeMode = r.varint()
		case 4:
			b.Successors = append(b.Successors, RefByID[CFGNode](r.id()))
		case 5:
			b.DataRefs = append(b.DataRefs, RefByID[*DataObject](r.id()))
		default:
			r.skip()
		}
	}
	return r.done(b)
}

// AppendPayload implements Payload. Proxy blocks carry no fields.
func (p *ProxyBlock) AppendPayload(b []byte) []byte {
	return b
}

// UnmarshalPayload implements Payload.
func (p *ProxyBlock) UnmarshalPayload(b []byte) error {
	r := &wireReader{buf: b}
	for r.next() {
		r.skip()
	}
	return r.done(p)
}

// AppendPayload implements Payload.
func (d *DataObject) AppendPayload(b []byte) []byte {
	b = appendVarint(b, 1, uint64(d.Address))
	b = appendVarint(b, 2, d.Size)
	if len(d.Bytes) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, d.Bytes)
	}
	return b
}

// UnmarshalPayload implements Payload.
func (d *DataObject) UnmarshalPayload(b []byte) error {
	*d = DataObject{nodeBase: d.nodeBase}
	r := &wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			d.Address = Addr(r.varint())
		case 2:
			d.Size = r.varint()
		case 3:
			d.Bytes = append(Bytes(nil), r.bytes()...)
		default:
			r.skip()
		}
	}
	return r.done(d)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendID(b []byte, num protowire.Number, id ulid.ULID) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, id[:])
}

func appendRef[T Node](b []byte, num protowire.Number, r Ref[T]) []byte {
	if r.IsZero() {
		return b
	}
	return appendID(b, num, r.id)
}

// appendRefs writes every reference, zero ones included, so list lengths
// survive a round trip.
func appendRefs[T Node](b []byte, num protowire.Number, refs []Ref[T]) []byte {
	for _, r := range refs {
		b = appendID(b, num, r.id)
	}
	return b
}

// wireReader walks the fields of one protobuf message.
type wireReader struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
	err error
}

func (r *wireReader) next() bool {
	if r.err != nil || len(r.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return false
	}
	r.buf = r.buf[n:]
	r.num, r.typ = num, typ
	return true
}

func (r *wireReader) expect(typ protowire.Type) bool {
	if r.err != nil {
		return false
	}
	if r.typ != typ {
		r.err = fmt.Errorf("field %d: wire type %d, want %d", r.num, r.typ, typ)
		return false
	}
	return true
}

func (r *wireReader) varint() uint64 {
	if !r.expect(protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *wireReader) bytes() []byte {
	if !r.expect(protowire.BytesType) {
		return nil
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return nil
	}
	r.buf = r.buf[n:]
	return v
}

func (r *wireReader) string() string {
	return string(r.bytes())
}

func (r *wireReader) id() ulid.ULID {
	var id ulid.ULID
	v := r.bytes()
	if r.err != nil {
		return id
	}
	if len(v) != len(id) {
		r.err = fmt.Errorf("field %d: identity has %d bytes, want %d", r.num, len(v), len(id))
		return id
	}
	copy(id[:], v)
	return id
}

func (r *wireReader) skip() {
	n := protowire.ConsumeFieldValue(r.num, r.typ, r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return
	}
	r.buf = r.buf[n:]
}

func (r *wireReader) done(n Node) error {
	if r.err == nil {
		return nil
	}
	return oops.Code("IR_MALFORMED_PAYLOAD").
		With("id", n.ID().String()).
		With("kind", n.Kind().String()).
		Wrapf(ErrMalformedPayload, "%v", r.err)
}
