// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio

import (
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/irgraph/pkg/ir"
)

// Keys every node mapping carries in addition to its payload fields.
const (
	idKey   = "id"
	kindKey = "kind"
)

// document is the top level of a YAML IR file. Each entry in Nodes is a
// mapping holding id, kind and the node's payload fields. Entries must be
// yaml.Node values; yaml.v3 decodes *yaml.Node field by field.
type document struct {
	Version string      `yaml:"version"`
	Nodes   []yaml.Node `yaml:"nodes"`
}

// EncodeYAML writes a as a YAML document.
func EncodeYAML(w io.Writer, a *ir.Arena, _ Options) error {
	doc := document{Version: FormatVersion, Nodes: []yaml.Node{}}
	for n := range a.Nodes() {
		entry, err := encodeNode(n)
		if err != nil {
			return err
		}
		doc.Nodes = append(doc.Nodes, *entry)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return oops.Code("IRIO_WRITE_FAILED").Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return oops.Code("IRIO_WRITE_FAILED").Wrap(err)
	}
	return nil
}

func encodeNode(n ir.Node) (*yaml.Node, error) {
	var fields yaml.Node
	if err := fields.Encode(n); err != nil {
		return nil, oops.Code("IRIO_ENCODE_FAILED").
			With("id", n.ID().String()).
			With("kind", n.Kind().String()).
			Wrap(err)
	}
	entry := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	entry.Content = append(entry.Content,
		scalar(idKey), scalar(n.ID().String()),
		scalar(kindKey), scalar(n.Kind().String()),
	)
	entry.Content = append(entry.Content, fields.Content...)
	return entry, nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// DecodeYAML reads a YAML document into a new arena. With opts.Validate
// the document is checked against the schema first.
func DecodeYAML(r io.Reader, opts Options) (*ir.Arena, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, oops.Code("IRIO_READ_FAILED").Wrap(err)
	}
	if opts.Validate {
		if err := ValidateDocument(data); err != nil {
			return nil, err
		}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("IRIO_MALFORMED").Wrapf(ErrMalformed, "%v", err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}

	a := ir.NewArena(opts.ArenaOptions...)
	nodes := make([]ir.Node, len(doc.Nodes))
	for i := range doc.Nodes {
		id, kind, err := nodeHeader(i, &doc.Nodes[i])
		if err != nil {
			a.Close()
			return nil, err
		}
		n, err := a.Restore(kind, id)
		if err != nil {
			a.Close()
			return nil, restoreFailed(i, id, err)
		}
		nodes[i] = n
	}
	for i := range doc.Nodes {
		if err := doc.Nodes[i].Decode(nodes[i]); err != nil {
			a.Close()
			return nil, oops.Code("IRIO_MALFORMED").
				With("index", i).
				With("id", nodes[i].ID().String()).
				Wrapf(ErrMalformed, "%v", err)
		}
	}
	return a, nil
}

// nodeHeader extracts the identity and kind of one node mapping.
func nodeHeader(index int, entry *yaml.Node) (ulid.ULID, ir.Kind, error) {
	if entry == nil || entry.Kind != yaml.MappingNode {
		return ulid.ULID{}, ir.KindInvalid, oops.Code("IRIO_MALFORMED").
			With("index", index).
			Wrapf(ErrMalformed, "node %d is not a mapping", index)
	}
	var idText, kindText string
	for i := 0; i+1 < len(entry.Content); i += 2 {
		switch entry.Content[i].Value {
		case idKey:
			idText = entry.Content[i+1].Value
		case kindKey:
			kindText = entry.Content[i+1].Value
		}
	}

	id, err := ir.ParseID(idText)
	if err != nil {
		return ulid.ULID{}, ir.KindInvalid, oops.Code("IRIO_MALFORMED").
			With("index", index).
			Wrapf(ErrMalformed, "node %d: %v", index, err)
	}
	kind, err := ir.ParseKind(kindText)
	if err != nil {
		return ulid.ULID{}, ir.KindInvalid, oops.Code("IRIO_MALFORMED").
			With("index", index).
			With("kind", kindText).
			Wrapf(ErrMalformed, "node %d: %v", index, err)
	}
	return id, kind, nil
}
