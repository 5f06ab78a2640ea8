package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

var _ = Describe("Component", func() {
	var (
		engine sim.Engine
		c      *core.Core
		comp   *core.Component
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		c = core.NewCore()
		comp = core.NewComponent("Core", engine, 1*sim.GHz, c)
	})

	It("should run a program to completion", func() {
		c.Load(exampleProgram)

		var cycles []uint64
		commits := 0
		comp.OnStep(func(cycle uint64, events []pipeline.Event) {
			cycles = append(cycles, cycle)
			for _, e := range events {
				if e.Kind == pipeline.EventCommit {
					commits++
				}
			}
		})

		comp.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(c.IsFinished()).To(BeTrue())
		Expect(c.Cycle()).To(Equal(uint64(23)))
		Expect(cycles).To(HaveLen(23))
		Expect(cycles[22]).To(Equal(uint64(23)))
		Expect(commits).To(Equal(4))
		Expect(c.Registers()[6]).To(Equal(int64(50)))
	})

	It("should stop at the cycle limit", func() {
		c.Load([]string{"BEQ R0, R0, 0"})
		comp.SetMaxCycles(40)

		comp.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(c.IsFinished()).To(BeFalse())
		Expect(c.Cycle()).To(Equal(uint64(40)))
	})

	It("should do nothing with an empty program", func() {
		comp.Start()
		Expect(engine.Run()).To(Succeed())
		Expect(c.Cycle()).To(Equal(uint64(0)))
		Expect(comp.Core()).To(BeIdenticalTo(c))
	})
})
