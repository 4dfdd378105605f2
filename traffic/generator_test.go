package traffic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axi2apb/bus"
	"github.com/sarchlab/axi2apb/traffic"
)

// allReady accepts every address and data beat without returning
// responses.
var allReady = bus.AXILiteSlave{AWReady: true, WReady: true, ARReady: true}

var _ = Describe("Generator", func() {
	It("should start with response channels ready and no requests", func() {
		g := traffic.NewGenerator(traffic.RoundTrip(), 32)

		pins := g.Pins()
		Expect(pins.BReady).To(BeTrue())
		Expect(pins.RReady).To(BeTrue())
		Expect(pins.AWValid).To(BeFalse())
		Expect(pins.WValid).To(BeFalse())
		Expect(pins.ARValid).To(BeFalse())
	})

	Describe("write issue", func() {
		var g *traffic.Generator

		BeforeEach(func() {
			wl := &traffic.Workload{
				Name: "w",
				Ops:  []traffic.Op{traffic.WriteOp(0x100, 0xAB)},
			}
			g = traffic.NewGenerator(wl, 32)
			g.Tick(bus.AXILiteSlave{})
		})

		It("should drive both write channels with a full strobe", func() {
			pins := g.Pins()
			Expect(pins.AWValid).To(BeTrue())
			Expect(pins.AWAddr).To(Equal(uint64(0x100)))
			Expect(pins.WValid).To(BeTrue())
			Expect(pins.WData).To(Equal(uint64(0xAB)))
			Expect(pins.WStrb).To(Equal(uint8(0xF)))
			Expect(g.Statistics().IssuedWrites).To(Equal(uint64(1)))
		})

		It("should hold valid until the matching ready", func() {
			g.Tick(bus.AXILiteSlave{})
			Expect(g.Pins().AWValid).To(BeTrue())
			Expect(g.Pins().WValid).To(BeTrue())
		})

		It("should retire the channels independently", func() {
			g.Tick(bus.AXILiteSlave{AWReady: true})
			Expect(g.Pins().AWValid).To(BeFalse())
			Expect(g.Pins().WValid).To(BeTrue())

			g.Tick(bus.AXILiteSlave{WReady: true})
			Expect(g.Pins().WValid).To(BeFalse())
		})

		It("should record the response and finish", func() {
			g.Tick(allReady)
			g.Tick(bus.AXILiteSlave{BValid: true, BResp: bus.RespOKAY})

			Expect(g.Done()).To(BeTrue())
			Expect(g.Statistics().WritesDone).To(Equal(uint64(1)))
			Expect(g.Results()[0].Done).To(BeTrue())
			Expect(g.Results()[0].Resp).To(Equal(bus.RespOKAY))
		})

		It("should count a non-okay response as an error", func() {
			g.Tick(allReady)
			g.Tick(bus.AXILiteSlave{BValid: true, BResp: bus.RespSLVERR})

			Expect(g.Statistics().Errors).To(Equal(uint64(1)))
			Expect(g.Results()[0].Resp).To(Equal(bus.RespSLVERR))
		})
	})

	It("should keep an explicit strobe", func() {
		wl := &traffic.Workload{
			Name: "strb",
			Ops:  []traffic.Op{{Kind: traffic.KindWrite, Addr: 0x10, Data: 1, Strb: 0x3}},
		}
		g := traffic.NewGenerator(wl, 32)
		g.Tick(bus.AXILiteSlave{})

		Expect(g.Pins().WStrb).To(Equal(uint8(0x3)))
	})

	Describe("read issue", func() {
		var g *traffic.Generator

		BeforeEach(func() {
			wl := &traffic.Workload{
				Name: "r",
				Ops:  []traffic.Op{traffic.ReadExpectOp(0x40, 0x77)},
			}
			g = traffic.NewGenerator(wl, 32)
			g.Tick(bus.AXILiteSlave{})
		})

		It("should drive the read address channel", func() {
			pins := g.Pins()
			Expect(pins.ARValid).To(BeTrue())
			Expect(pins.ARAddr).To(Equal(uint64(0x40)))
			Expect(g.Statistics().IssuedReads).To(Equal(uint64(1)))
		})

		It("should accept matching data", func() {
			g.Tick(allReady)
			g.Tick(bus.AXILiteSlave{RValid: true, RData: 0x77, RResp: bus.RespOKAY})

			Expect(g.Done()).To(BeTrue())
			Expect(g.Results()[0].Data).To(Equal(uint64(0x77)))
			Expect(g.Results()[0].Mismatch).To(BeFalse())
			Expect(g.Statistics().Mismatches).To(Equal(uint64(0)))
		})

		It("should flag unexpected data", func() {
			g.Tick(allReady)
			g.Tick(bus.AXILiteSlave{RValid: true, RData: 0xFF, RResp: bus.RespOKAY})

			Expect(g.Results()[0].Mismatch).To(BeTrue())
			Expect(g.Statistics().Mismatches).To(Equal(uint64(1)))
			Expect(g.Statistics().Errors).To(Equal(uint64(0)))
		})

		It("should flag an error response on a verified read", func() {
			g.Tick(allReady)
			g.Tick(bus.AXILiteSlave{RValid: true, RData: 0x77, RResp: bus.RespSLVERR})

			Expect(g.Results()[0].Mismatch).To(BeTrue())
			Expect(g.Statistics().Errors).To(Equal(uint64(1)))
		})
	})

	Describe("program order", func() {
		It("should not issue the second write before the first clears", func() {
			wl := &traffic.Workload{
				Name: "order",
				Ops: []traffic.Op{
					traffic.WriteOp(0x00, 1),
					traffic.WriteOp(0x04, 2),
				},
			}
			g := traffic.NewGenerator(wl, 32)

			g.Tick(bus.AXILiteSlave{})
			Expect(g.Pins().AWAddr).To(Equal(uint64(0x00)))
			Expect(g.Statistics().IssuedWrites).To(Equal(uint64(1)))

			// No ready, so the first write keeps the channels.
			g.Tick(bus.AXILiteSlave{})
			Expect(g.Statistics().IssuedWrites).To(Equal(uint64(1)))

			g.Tick(allReady)
			Expect(g.Pins().AWAddr).To(Equal(uint64(0x04)))
			Expect(g.Statistics().IssuedWrites).To(Equal(uint64(2)))
		})

		It("should issue a read without waiting for the write response", func() {
			wl := &traffic.Workload{
				Name: "pipelined",
				Ops: []traffic.Op{
					traffic.WriteOp(0x00, 1),
					traffic.ReadOp(0x00),
				},
			}
			g := traffic.NewGenerator(wl, 32)

			// The write occupies AW/W, but AR is free and the read goes
			// out in the same cycle.
			g.Tick(bus.AXILiteSlave{})
			Expect(g.Pins().AWValid).To(BeTrue())
			Expect(g.Pins().ARValid).To(BeTrue())

			// Both addresses handshake; the B and R beats are still owed.
			g.Tick(allReady)
			Expect(g.Statistics().IssuedReads).To(Equal(uint64(1)))
			Expect(g.Done()).To(BeFalse())
		})
	})

	Describe("response throttling", func() {
		It("should leave a response pending while BReady is low", func() {
			wl := &traffic.Workload{
				Name: "throttle",
				Ops:  []traffic.Op{traffic.WriteOp(0x00, 1)},
			}
			g := traffic.NewGenerator(wl, 32)
			g.SetBReady(false)

			g.Tick(bus.AXILiteSlave{})
			g.Tick(allReady)

			for i := 0; i < 3; i++ {
				g.Tick(bus.AXILiteSlave{BValid: true})
				Expect(g.Done()).To(BeFalse())
			}

			g.SetBReady(true)
			g.Tick(bus.AXILiteSlave{BValid: true})
			Expect(g.Done()).To(BeTrue())
		})
	})
})
