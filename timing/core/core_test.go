package core_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

var exampleProgram = []string{
	"ADD R1, R2, R3",
	"MUL R4, R1, R2",
	"SUB R5, R3, R1",
	"DIV R6, R4, R2",
}

var _ = Describe("Core", func() {
	var c *core.Core

	BeforeEach(func() {
		c = core.NewCore()
	})

	It("should create a core with pipeline", func() {
		Expect(c).NotTo(BeNil())
		Expect(c.Pipeline).NotTo(BeNil())
		Expect(c.IsFinished()).To(BeTrue())
		Expect(c.Registers()[2]).To(Equal(int64(20)))
	})

	Describe("Load", func() {
		It("should return the number of instructions kept", func() {
			n := c.Load([]string{
				"ADD R1, R2, R3",
				"",
				"NOP R1, R2, R3",
				"MUL R4, R1",
				"SUB 5, R1, R2",
				"BEQ R1, R2, 0",
			})

			Expect(n).To(Equal(2))
			Expect(c.Program()[1].Op).To(Equal(insts.OpBEQ))
			Expect(c.Program()[1].Index).To(Equal(1))
			Expect(c.IsFinished()).To(BeFalse())
		})

		It("should log dropped lines", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			c = core.NewCore(core.WithLogger(logger))

			c.Load([]string{"FOO R1, R2, R3", "ADD R1, R2, R3"})

			Expect(buf.String()).To(ContainSubstring("dropping malformed line"))
			Expect(buf.String()).To(ContainSubstring("unknown opcode"))
			Expect(buf.String()).To(ContainSubstring("instructions=1"))
		})

		It("should report source line numbers for dropped lines", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			c = core.NewCore(core.WithLogger(logger))

			n := c.LoadSource(
				[]string{"ADD R1, R2, R3", "FOO R1, R2, R3"},
				[]int{3, 7},
			)

			Expect(n).To(Equal(1))
			Expect(buf.String()).To(ContainSubstring("line=7"))
		})

		It("should log coerced operands", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			c = core.NewCore(core.WithLogger(logger))

			n := c.LoadSource(
				[]string{"ADD R1, R2, R3", "SUB R4, R1, x9"},
				[]int{1, 4},
			)

			Expect(n).To(Equal(2))
			Expect(c.Program()[1].Src2.Coerced).To(BeTrue())
			out := buf.String()
			Expect(out).To(ContainSubstring("coercing malformed operand to 0"))
			Expect(out).To(ContainSubstring("line=4"))
			Expect(out).To(ContainSubstring(`inst="SUB R4, R1, 0"`))
			Expect(out).NotTo(ContainSubstring("line=1 "))
		})

		It("should reset a running program", func() {
			c.Load(exampleProgram)
			c.Step()
			c.Step()

			c.Load(exampleProgram[:1])

			Expect(c.Cycle()).To(Equal(uint64(0)))
			Expect(c.ROB().Empty()).To(BeTrue())
			Expect(c.Program()).To(HaveLen(1))
		})
	})

	Describe("Step", func() {
		It("should run the example program to completion", func() {
			c.Load(exampleProgram)
			for i := 0; i < 100 && !c.IsFinished(); i++ {
				c.Step()
			}

			Expect(c.IsFinished()).To(BeTrue())
			regs := c.Registers()
			Expect(regs[1]).To(Equal(int64(50)))
			Expect(regs[4]).To(Equal(int64(1000)))
			Expect(regs[5]).To(Equal(int64(-20)))
			Expect(regs[6]).To(Equal(int64(50)))

			stats := c.Stats()
			Expect(stats.Cycles).To(Equal(uint64(23)))
			Expect(stats.Commits).To(Equal(uint64(4)))
			Expect(stats.Issued).To(Equal(uint64(4)))
			Expect(stats.Bubbles).To(Equal(uint64(0)))
			Expect(stats.Flushes).To(Equal(uint64(0)))
			Expect(stats.IPC).To(BeNumerically("~", 4.0/23.0, 1e-9))
		})

		It("should report DONE once finished", func() {
			c.Load(exampleProgram[:1])
			c.Run(0)

			events := c.Step()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(pipeline.EventDone))
		})

		It("should expose the structures", func() {
			c.Load(exampleProgram)
			c.Step()

			Expect(c.Stations()[0].Busy).To(BeTrue())
			Expect(c.ROB().Len()).To(Equal(1))
			Expect(c.ROB().Full()).To(BeFalse())
			Expect(c.ROB().InFlight()).To(Equal([]int{0}))
			rob, ok := c.RAT().Lookup(1)
			Expect(ok).To(BeTrue())
			Expect(rob).To(Equal(0))
			Expect(c.RAT().Renamed()).To(Equal(1))
			Expect(c.Timeline()).To(HaveLen(1))
		})
	})

	Describe("Undo", func() {
		It("should report when there is nothing to undo", func() {
			c.Load(exampleProgram)
			Expect(c.Undo()).To(Equal(core.UndoEmpty))
		})

		It("should restore the previous cycle", func() {
			c.Load(exampleProgram)
			c.Step()
			c.Step()
			c.Step()

			Expect(c.Undo()).To(Equal("restored cycle 2"))
			Expect(c.Cycle()).To(Equal(uint64(2)))
			Expect(c.ROB().Len()).To(Equal(2))
		})
	})

	Describe("Configure", func() {
		It("should apply latency overrides on reset", func() {
			c.Load(exampleProgram)
			Expect(c.Configure(map[insts.Op]uint64{insts.OpADD: 4}, nil)).To(Succeed())

			c.Step()
			Expect(c.Stations()[0].Latency).To(Equal(uint64(2)))

			c.Reset()
			c.Step()
			Expect(c.Stations()[0].Latency).To(Equal(uint64(4)))
			Expect(c.TimingConfig().MulLatency).To(Equal(uint64(8)))
		})

		It("should apply initial registers on reset", func() {
			c.Load(exampleProgram)
			Expect(c.Configure(nil, map[uint8]int64{2: 1, 3: 2})).To(Succeed())
			Expect(c.Registers()[2]).To(Equal(int64(20)))

			c.Reset()
			Expect(c.Registers()[1]).To(Equal(int64(0)))
			Expect(c.Registers()[2]).To(Equal(int64(1)))

			c.Run(0)
			Expect(c.Registers()[1]).To(Equal(int64(3)))
			Expect(c.Registers()[4]).To(Equal(int64(3)))
		})

		It("should reject a zero latency", func() {
			err := c.Configure(map[insts.Op]uint64{insts.OpMUL: 0}, nil)
			Expect(err).To(HaveOccurred())
			Expect(c.TimingConfig().MulLatency).To(Equal(uint64(8)))
		})

		It("should reject an out-of-range register", func() {
			err := c.Configure(nil, map[uint8]int64{32: 1})
			Expect(err).To(HaveOccurred())
		})

		It("should accept a whole timing config", func() {
			config := latency.DefaultTimingConfig()
			config.DivLatency = 3
			Expect(c.SetTimingConfig(config)).To(Succeed())

			config.DivLatency = 0
			Expect(c.TimingConfig().DivLatency).To(Equal(uint64(3)))
			Expect(c.SetTimingConfig(config)).NotTo(Succeed())
		})
	})

	It("should pass pipeline options through", func() {
		c = core.NewCore(core.WithPipelineOptions(
			pipeline.WithROBSize(3),
			pipeline.WithStationCounts(1, 1),
		))

		Expect(c.ROB().Capacity()).To(Equal(3))
		Expect(c.Stations()).To(HaveLen(2))
	})
})
