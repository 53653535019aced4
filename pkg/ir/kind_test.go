// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/irgraph/pkg/errutil"
	"github.com/holomush/irgraph/pkg/ir"
)

func TestKind_Classifies(t *testing.T) {
	tests := []struct {
		name     string
		target   ir.Kind
		other    ir.Kind
		expected bool
	}{
		{"same concrete kind", ir.KindBasicBlock, ir.KindBasicBlock, true},
		{"category covers member", ir.KindCFGNode, ir.KindBasicBlock, true},
		{"category covers proxy", ir.KindCFGNode, ir.KindProxyBlock, true},
		{"root covers everything", ir.KindNode, ir.KindDataObject, true},
		{"root covers nested member", ir.KindNode, ir.KindProxyBlock, true},
		{"category excludes outsider", ir.KindCFGNode, ir.KindDataObject, false},
		{"siblings are unrelated", ir.KindBasicBlock, ir.KindProxyBlock, false},
		{"member does not cover category", ir.KindBasicBlock, ir.KindCFGNode, false},
		{"invalid target", ir.KindInvalid, ir.KindModule, false},
		{"undeclared kind", ir.KindNode, ir.Kind(999), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.target.Classifies(tt.other))
		})
	}
}

func TestKind_Hierarchy(t *testing.T) {
	assert.Equal(t, ir.KindInvalid, ir.KindNode.Parent())
	assert.Equal(t, ir.KindCFGNode, ir.KindBasicBlock.Parent())
	assert.Equal(t, ir.KindNode, ir.KindCFGNode.Parent())
	assert.True(t, ir.KindNode.Abstract())
	assert.True(t, ir.KindCFGNode.Abstract())
	assert.False(t, ir.KindModule.Abstract())
	assert.False(t, ir.Kind(42).Valid())
	assert.Equal(t, "Invalid", ir.Kind(42).String())
}

func TestConcreteKinds_AreLeavesUnderNode(t *testing.T) {
	kinds := ir.ConcreteKinds()
	assert.Equal(t, []ir.Kind{
		ir.KindModule, ir.KindSection, ir.KindSymbol,
		ir.KindBasicBlock, ir.KindProxyBlock, ir.KindDataObject,
	}, kinds)
	for _, k := range kinds {
		assert.True(t, ir.KindNode.Classifies(k), k.String())
		for _, other := range kinds {
			if other != k {
				assert.False(t, k.Classifies(other), "%s classifies %s", k, other)
			}
		}
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	for _, k := range append(ir.ConcreteKinds(), ir.KindNode, ir.KindCFGNode) {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var parsed ir.Kind
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, k, parsed)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ir.ParseKind("Instruction")
	require.Error(t, err)
	assert.ErrorIs(t, err, ir.ErrUnknownKind)
	errutil.AssertErrorCode(t, err, "IR_UNKNOWN_KIND")
}

func TestKind_MarshalText_Invalid(t *testing.T) {
	_, err := ir.Kind(77).MarshalText()
	assert.ErrorIs(t, err, ir.ErrUnknownKind)
}
