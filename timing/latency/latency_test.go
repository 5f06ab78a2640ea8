package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

var _ = Describe("Latency", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.NewTable()
	})

	Describe("Default Timing Values", func() {
		It("should have correct ADD and SUB latency", func() {
			Expect(table.GetLatency(insts.OpADD)).To(Equal(uint64(2)))
			Expect(table.GetLatency(insts.OpSUB)).To(Equal(uint64(2)))
		})

		It("should have correct MUL latency", func() {
			Expect(table.GetLatency(insts.OpMUL)).To(Equal(uint64(8)))
		})

		It("should have correct DIV latency", func() {
			Expect(table.GetLatency(insts.OpDIV)).To(Equal(uint64(10)))
		})

		It("should have correct branch latency", func() {
			Expect(table.GetLatency(insts.OpBEQ)).To(Equal(uint64(1)))
		})

		It("should return 1 cycle for unknown opcodes", func() {
			Expect(table.GetLatency(insts.OpUnknown)).To(Equal(uint64(1)))
		})
	})

	Describe("Custom Configuration", func() {
		It("should use custom latencies", func() {
			config := latency.DefaultTimingConfig()
			config.MulLatency = 3
			config.DivLatency = 40
			table = latency.NewTableWithConfig(config)

			Expect(table.GetLatency(insts.OpMUL)).To(Equal(uint64(3)))
			Expect(table.GetLatency(insts.OpDIV)).To(Equal(uint64(40)))
			Expect(table.Config()).To(BeIdenticalTo(config))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Validation", func() {
		It("should accept the default config", func() {
			Expect(latency.DefaultTimingConfig().Validate()).To(Succeed())
		})

		It("should reject zero latencies", func() {
			for _, mutate := range []func(*latency.TimingConfig){
				func(c *latency.TimingConfig) { c.AddLatency = 0 },
				func(c *latency.TimingConfig) { c.SubLatency = 0 },
				func(c *latency.TimingConfig) { c.MulLatency = 0 },
				func(c *latency.TimingConfig) { c.DivLatency = 0 },
				func(c *latency.TimingConfig) { c.BranchLatency = 0 },
			} {
				config := latency.DefaultTimingConfig()
				mutate(config)
				Expect(config.Validate()).NotTo(Succeed())
			}
		})
	})

	Describe("Clone", func() {
		It("should create an independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()
			clone.AddLatency = 100

			Expect(original.AddLatency).To(Equal(uint64(2)))
			Expect(clone.AddLatency).To(Equal(uint64(100)))
		})
	})

	Describe("Merge", func() {
		It("should override only the given opcodes", func() {
			original := latency.DefaultTimingConfig()
			merged := original.Merge(map[insts.Op]uint64{
				insts.OpMUL: 10,
				insts.OpDIV: 40,
			})

			Expect(merged.MulLatency).To(Equal(uint64(10)))
			Expect(merged.DivLatency).To(Equal(uint64(40)))
			Expect(merged.AddLatency).To(Equal(uint64(2)))
			Expect(original.MulLatency).To(Equal(uint64(8)))
		})

		It("should ignore unknown opcodes", func() {
			merged := latency.DefaultTimingConfig().Merge(map[insts.Op]uint64{
				insts.OpUnknown: 99,
			})
			Expect(merged).To(Equal(latency.DefaultTimingConfig()))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.AddLatency = 5
			original.DivLatency = 12

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.AddLatency).To(Equal(uint64(5)))
			Expect(loaded.DivLatency).To(Equal(uint64(12)))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"mul_latency": 3}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MulLatency).To(Equal(uint64(3)))
			Expect(loaded.DivLatency).To(Equal(uint64(10)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
