// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package roundtrip_test

import (
	"context"
	"math/rand/v2"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/irgraph/internal/sample"
	"github.com/holomush/irgraph/pkg/ir"
	"github.com/holomush/irgraph/pkg/irio"
)

// graphShape is the node and edge count of an arena.
type graphShape struct {
	Nodes int
	Edges int
}

func shapeOf(a *ir.Arena) graphShape {
	s := graphShape{Nodes: a.Len()}
	for n := range a.Nodes() {
		if r, ok := n.(ir.Referrer); ok {
			s.Edges += len(r.Refs())
		}
	}
	return s
}

// buildRandom fills a with a module of the given number of blocks joined
// by random edges. The same seed always yields the same shape.
func buildRandom(a *ir.Arena, blocks int, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	m := ir.NewModule(a, "random")

	cfg := make([]ir.CFGNode, 0, blocks)
	for i := range blocks {
		if i%10 == 9 {
			cfg = append(cfg, ir.NewProxyBlock(a))
			continue
		}
		cfg = append(cfg, ir.NewBasicBlock(a, ir.Addr(0x400000+i*16), 16))
	}
	data := make([]*ir.DataObject, 0, blocks/4)
	for i := range blocks / 4 {
		d := ir.NewDataObject(a, ir.Addr(0x800000+i*8), 8)
		d.Bytes = ir.Bytes{byte(i), byte(i >> 8)}
		data = append(data, d)
		m.AddData(d)
	}

	for _, n := range cfg {
		m.AddBlock(n)
		b, ok := ir.TryCast[*ir.BasicBlock](n)
		if !ok {
			continue
		}
		for range rng.IntN(4) {
			b.AddSuccessor(cfg[rng.IntN(len(cfg))])
		}
		if len(data) > 0 && rng.IntN(2) == 0 {
			b.AddDataRef(data[rng.IntN(len(data))])
		}
		if rng.IntN(8) == 0 {
			s := ir.NewSymbol(a, "sub_"+b.Address.String(), b.Address)
			s.SetReferent(b)
			m.AddSymbol(s)
		}
	}
	m.EntryPoint = ir.RefTo(ir.Cast[*ir.BasicBlock](cfg[0]))
}

var _ = Describe("Saving and reloading an arena", func() {
	var (
		ctx context.Context
		dir string
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
	})

	DescribeTable("preserves identities, kinds and every edge",
		func(file string, compression irio.Compression, blocks int) {
			src := ir.NewArena(ir.WithChunkSize(64))
			DeferCleanup(src.Close)
			if blocks == 0 {
				sample.Build(src)
			} else {
				buildRandom(src, blocks, uint64(blocks))
			}
			Expect(ir.Check(src)).To(BeEmpty())

			path := filepath.Join(dir, file)
			opts := irio.Options{Compression: compression, Validate: true}
			Expect(irio.Save(ctx, path, src, opts)).To(Succeed())

			dst, err := irio.Load(ctx, path, opts)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(dst.Close)

			Expect(shapeOf(dst)).To(Equal(shapeOf(src)))
			Expect(ir.Check(dst)).To(BeEmpty())

			for n := range src.Nodes() {
				got, ok := dst.Lookup(n.ID())
				Expect(ok).To(BeTrue(), "node %s missing", n.ID())
				Expect(got.Kind()).To(Equal(n.Kind()))
				Expect(got.Arena()).To(BeIdenticalTo(dst))
				Expect(got.(ir.Payload).AppendPayload(nil)).To(Equal(n.(ir.Payload).AppendPayload(nil)))
			}
		},
		Entry("sample, binary", "g.irg", irio.CompressionNone, 0),
		Entry("sample, zstd", "g.irg", irio.CompressionZstd, 0),
		Entry("sample, yaml", "g.yaml", irio.CompressionNone, 0),
		Entry("random graph, zstd", "r.irg", irio.CompressionZstd, 2000),
		Entry("random graph, yaml", "r.yaml", irio.CompressionNone, 500),
	)

	It("resolves the same module structure in the reloaded arena", func() {
		src := ir.NewArena()
		DeferCleanup(src.Close)
		g := sample.Build(src)

		path := filepath.Join(dir, "hello.irg")
		Expect(irio.Save(ctx, path, src, irio.Options{Compression: irio.CompressionZstd})).To(Succeed())
		dst, err := irio.Load(ctx, path, irio.Options{})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(dst.Close)

		m, ok := ir.Resolve[*ir.Module](dst, g.Module.ID())
		Expect(ok).To(BeTrue())

		blocks, missing := m.BlockNodes()
		Expect(missing).To(BeZero())
		Expect(blocks).To(HaveLen(4))
		Expect(ir.IsA[*ir.BasicBlock](blocks[0])).To(BeTrue())
		Expect(ir.IsA[*ir.ProxyBlock](blocks[3])).To(BeTrue())
		Expect(ir.IsA[ir.CFGNode](ir.Node(blocks[3]))).To(BeTrue())

		loop := ir.Cast[*ir.BasicBlock](blocks[1])
		targets := make([]ir.Kind, 0, len(loop.Successors))
		for _, r := range loop.Successors {
			n, ok := r.Get(dst)
			Expect(ok).To(BeTrue())
			targets = append(targets, n.Kind())
		}
		Expect(targets).To(Equal([]ir.Kind{ir.KindProxyBlock, ir.KindBasicBlock, ir.KindBasicBlock}))

		By("closing the source arena, references into it stop resolving")
		src.Close()
		_, ok = m.EntryPoint.Get(src)
		Expect(ok).To(BeFalse())
		_, ok = m.EntryPoint.Get(dst)
		Expect(ok).To(BeTrue())
	})
})
