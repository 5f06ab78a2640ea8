package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/loader"
)

var _ = Describe("Loader", func() {
	Describe("Parse", func() {
		It("should drop comments and blank lines", func() {
			src := strings.Join([]string{
				"# header",
				"ADD R1, R2, R3   ; sum",
				"",
				"   ",
				"MUL R4, R1, R2 // product",
				"  SUB R5, R3, R1",
			}, "\n")

			prog, err := loader.Parse(strings.NewReader(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Lines).To(Equal([]string{
				"ADD R1, R2, R3",
				"MUL R4, R1, R2",
				"SUB R5, R3, R1",
			}))
			Expect(prog.LineNumbers).To(Equal([]int{2, 5, 6}))
		})

		It("should return an empty program for an empty listing", func() {
			prog, err := loader.Parse(strings.NewReader(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Lines).To(BeEmpty())
		})
	})

	DescribeTable("StripComment",
		func(in, out string) {
			Expect(loader.StripComment(in)).To(Equal(out))
		},
		Entry("plain", "ADD R1, R2, R3", "ADD R1, R2, R3"),
		Entry("hash", "BEQ R1, R2, 0 # loop", "BEQ R1, R2, 0"),
		Entry("semicolon", "; whole line", ""),
		Entry("slashes", "DIV R6, R4, R2//x", "DIV R6, R4, R2"),
		Entry("mixed", "ADD R1, R1, 1 ; a # b", "ADD R1, R1, 1"),
	)

	Describe("Load", func() {
		It("should read a program file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "prog.s")
			Expect(os.WriteFile(path, []byte("ADD R1, R2, R3\nBEQ R1, R1, 0\n"), 0o644)).To(Succeed())

			prog, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Name).To(Equal(path))
			Expect(prog.Lines).To(HaveLen(2))
		})

		It("should wrap a missing file error", func() {
			_, err := loader.Load(filepath.Join(GinkgoT().TempDir(), "missing.s"))

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})

	It("should provide the example program", func() {
		prog := loader.ExampleProgram()
		Expect(prog.Lines).To(HaveLen(4))
		Expect(prog.Lines[0]).To(Equal("ADD R1, R2, R3"))
	})
})
