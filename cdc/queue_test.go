package cdc_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axi2apb/bus"
	"github.com/sarchlab/axi2apb/cdc"
)

var _ = Describe("CommandQueue", func() {
	var q *cdc.CommandQueue

	BeforeEach(func() {
		var err error
		q, err = cdc.NewCommandQueue(4)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should start empty and not full", func() {
		Expect(q.Empty()).To(BeTrue())
		Expect(q.Full()).To(BeFalse())
		Expect(q.Len()).To(Equal(0))
	})

	Context("with a single entry", func() {
		cmd := bus.Command{Write: true, Addr: 0x100, Data: 0xAAAA0001, Strb: 0xF}

		BeforeEach(func() {
			q.Push(cmd)
			Expect(q.TickWrite()).To(BeTrue())
		})

		It("should keep empty up while the write pointer synchronizes", func() {
			q.TickRead()
			Expect(q.Empty()).To(BeTrue())
			q.TickRead()
			Expect(q.Empty()).To(BeTrue())

			// Two synchronizer stages plus the registered flag.
			q.TickRead()
			Expect(q.Empty()).To(BeFalse())
		})

		It("should show the head without popping once visible", func() {
			for i := 0; i < 3; i++ {
				q.TickRead()
			}
			Expect(q.Empty()).To(BeFalse())
			Expect(q.Peek()).To(Equal(cmd))
			Expect(q.Peek()).To(Equal(cmd))
			Expect(q.Empty()).To(BeFalse())
		})

		It("should reassert empty on the tick that pops the last entry", func() {
			for i := 0; i < 3; i++ {
				q.TickRead()
			}

			q.Pop()
			Expect(q.TickRead()).To(BeTrue())
			Expect(q.Empty()).To(BeTrue())
		})
	})

	It("should ignore a pop while empty", func() {
		q.Pop()
		Expect(q.TickRead()).To(BeFalse())
		Expect(q.Empty()).To(BeTrue())
		Expect(q.Len()).To(Equal(0))
	})

	Context("when filled without draining", func() {
		BeforeEach(func() {
			for i := 0; i < 4; i++ {
				Expect(q.Full()).To(BeFalse())
				q.Push(bus.Command{Addr: uint64(i)})
				Expect(q.TickWrite()).To(BeTrue())
			}
		})

		It("should assert full on the cycle the last slot commits", func() {
			Expect(q.Full()).To(BeTrue())
			Expect(q.Len()).To(Equal(4))
		})

		It("should reject further pushes without corrupting entries", func() {
			q.Push(bus.Command{Addr: 99})
			Expect(q.TickWrite()).To(BeFalse())
			Expect(q.Len()).To(Equal(4))

			got := drain(q, 4)
			for i, cmd := range got {
				Expect(cmd.Addr).To(Equal(uint64(i)))
			}
		})

		It("should reopen the write side three write cycles after a pop commits", func() {
			// Make the head visible, then pop it.
			for i := 0; i < 3; i++ {
				q.TickRead()
			}
			q.Pop()
			Expect(q.TickRead()).To(BeTrue())

			// Two cycles for the read pointer to synchronize, one more
			// for the registered flag.
			q.TickWrite()
			Expect(q.Full()).To(BeTrue())
			q.TickWrite()
			Expect(q.Full()).To(BeTrue())
			q.TickWrite()
			Expect(q.Full()).To(BeFalse())
		})
	})

	It("should preserve order across a faster write side", func() {
		const total = 32
		next := 0
		var got []bus.Command

		// Four write cycles per read cycle, the command queue's natural
		// direction.
		for cycle := 0; cycle < 400 && len(got) < total; cycle++ {
			for i := 0; i < 4; i++ {
				if next < total {
					q.Push(bus.Command{Addr: uint64(next)})
					if q.TickWrite() {
						next++
					}
				} else {
					q.TickWrite()
				}
			}

			if !q.Empty() {
				got = append(got, q.Peek())
				q.Pop()
			}
			q.TickRead()
			Expect(q.Len()).To(BeNumerically("<=", 4))
		}

		Expect(got).To(HaveLen(total))
		for i, cmd := range got {
			Expect(cmd.Addr).To(Equal(uint64(i)))
		}
	})

	It("should return to the power-on state on reset", func() {
		q.Push(bus.Command{Addr: 1})
		q.TickWrite()
		q.TickRead()

		q.Reset()
		Expect(q.Empty()).To(BeTrue())
		Expect(q.Full()).To(BeFalse())
		Expect(q.Len()).To(Equal(0))
	})
})

var _ = Describe("ResponseQueue", func() {
	var q *cdc.ResponseQueue

	BeforeEach(func() {
		var err error
		q, err = cdc.NewResponseQueue(4)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should carry a response across the crossing intact", func() {
		rsp := bus.Response{IsWrite: false, Data: 0xDEAD_BEEF, Err: true}
		q.Push(rsp)
		Expect(q.TickWrite()).To(BeTrue())

		for i := 0; i < 3; i++ {
			q.TickRead()
		}
		Expect(q.Empty()).To(BeFalse())
		Expect(q.Peek()).To(Equal(rsp))
		Expect(q.Peek().Resp()).To(Equal(bus.RespSLVERR))
	})

	It("should map a clean response to okay", func() {
		q.Push(bus.Response{IsWrite: true})
		q.TickWrite()

		for i := 0; i < 3; i++ {
			q.TickRead()
		}
		Expect(q.Peek().Resp()).To(Equal(bus.RespOKAY))
	})
})

var _ = Describe("Queue flags", func() {
	var q *cdc.CommandQueue

	BeforeEach(func() {
		var err error
		q, err = cdc.NewCommandQueue(4)
		Expect(err).NotTo(HaveOccurred())
	})

	// Both flags are registered behind synchronizers, so between domains
	// they may run stale, but only toward the safe side: a stale full
	// blocks a push that would fit, a stale empty hides a word already
	// there. Occupancy never leaves [0, depth], and the flags agree with
	// the true occupancy at its endpoints.
	It("should stay conservative under random same-rate traffic", func() {
		rng := rand.New(rand.NewSource(1))
		var model []uint64
		nextVal := uint64(0)

		for cycle := 0; cycle < 500; cycle++ {
			if rng.Intn(2) == 0 {
				q.Push(bus.Command{Addr: nextVal})
				if q.TickWrite() {
					model = append(model, nextVal)
					nextVal++
				}
			} else {
				q.TickWrite()
			}

			var head bus.Command
			wantPop := rng.Intn(2) == 0
			if wantPop {
				head = q.Peek()
				q.Pop()
			}
			if q.TickRead() {
				Expect(head.Addr).To(Equal(model[0]))
				model = model[1:]
			}

			occ := q.Len()
			Expect(occ).To(Equal(len(model)))
			Expect(occ).To(BeNumerically(">=", 0))
			Expect(occ).To(BeNumerically("<=", 4))
			Expect(q.Full() && q.Empty()).To(BeFalse())
			if occ == 4 {
				Expect(q.Full()).To(BeTrue())
			}
			if occ == 0 {
				Expect(q.Empty()).To(BeTrue())
			}
		}
	})

	It("should settle to exact flags once traffic stops", func() {
		for i := 0; i < 2; i++ {
			q.Push(bus.Command{Addr: uint64(i)})
			q.TickWrite()
		}

		// Four idle cycles cover both synchronizers and both registered
		// flags.
		for i := 0; i < 4; i++ {
			q.TickWrite()
			q.TickRead()
		}

		Expect(q.Len()).To(Equal(2))
		Expect(q.Full()).To(BeFalse())
		Expect(q.Empty()).To(BeFalse())
	})
})

// drain pops every entry the read side can see and returns them in order.
func drain(q *cdc.CommandQueue, want int) []bus.Command {
	var got []bus.Command
	for cycle := 0; cycle < 8*want+8 && len(got) < want; cycle++ {
		if !q.Empty() {
			got = append(got, q.Peek())
			q.Pop()
		}
		q.TickRead()
	}
	return got
}
