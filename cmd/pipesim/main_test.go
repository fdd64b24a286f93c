package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("pipesim", func() {
	var (
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	BeforeEach(func() {
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	runWith := func(input string, args ...string) int {
		return run(args, strings.NewReader(input), stdout, stderr)
	}

	writeFile := func(name, content string) string {
		path := filepath.Join(GinkgoT().TempDir(), name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Context("reading standard input", func() {
		It("should print the chart and cycle count for a load-use pair", func() {
			code := runWith("LDUR X1, [X2, #0]\nADD X3, X1, X4\n")

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal(
				"Chart of pipelined stages:\n\n" +
					"|IF  |ID  |EX  |ME  |WB  |\n" +
					"          |IF  |ID  |EX  |ME  |WB  |\n" +
					"\n" +
					"Total Cycle Count: 7\n"))
			Expect(stderr.String()).To(BeEmpty())
		})

		It("should print nothing but the total when the chart is disabled", func() {
			code := runWith("ADD X1, X2, X3\nSUB X4, X5, X6\n", "-chart=false")

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal("Total Cycle Count: 6\n"))
		})

		It("should annotate chart rows with instructions", func() {
			code := runWith("LDUR X1, [X2, #0]\nADD X3, X1, X4\n",
				"-annotate", "-cycles=false")

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring(
				"|WB  |" + strings.Repeat(" ", 12) + "LDUR X1, [X2, #0]\n"))
			Expect(stdout.String()).To(ContainSubstring("|WB  |  ADD X3, X1, X4\n"))
			Expect(stdout.String()).NotTo(ContainSubstring("Total Cycle Count"))
		})

		It("should skip comments and blank lines", func() {
			code := runWith("// header\n\nLDUR X1, [X2, #0] ; load\nADD X3, X1, X4\n", "-chart=false")

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal("Total Cycle Count: 7\n"))
		})
	})

	Context("with decode errors", func() {
		It("should still simulate and exit with status 2", func() {
			code := runWith("LDUR X1, [X2, #0]\nFOO X1, X2\nADD X3, X1, X4\n", "-chart=false")

			Expect(code).To(Equal(exitDecodeError))
			Expect(stdout.String()).To(Equal("Total Cycle Count: 7\n"))
			Expect(stderr.String()).To(ContainSubstring("[ERROR]: <stdin>:2: unknown mnemonic"))
			Expect(stderr.String()).To(ContainSubstring(`"FOO X1, X2"`))
		})

		It("should report file line numbers", func() {
			path := writeFile("bad.s", "// comment\n\nADD X1, X2\n")

			code := runWith("", "-chart=false", path)

			Expect(code).To(Equal(exitDecodeError))
			Expect(stderr.String()).To(ContainSubstring(path + ":3: malformed operands"))
		})
	})

	Context("reading files", func() {
		It("should simulate every file on its own", func() {
			a := writeFile("a.s", "LDUR X1, [X2, #0]\nADD X3, X1, X4\n")
			b := writeFile("b.s", "ADD X1, X2, X3\n")

			code := runWith("", "-chart=false", a, b)

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal(
				"== " + a + " ==\nTotal Cycle Count: 7\n" +
					"== " + b + " ==\nTotal Cycle Count: 5\n"))
		})

		It("should fail on a missing file", func() {
			code := runWith("", filepath.Join(GinkgoT().TempDir(), "missing.s"))

			Expect(code).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring("failed to open source file"))
			Expect(stdout.String()).To(BeEmpty())
		})
	})

	Context("with configuration", func() {
		It("should apply a YAML configuration file", func() {
			path := writeFile("pipesim.yaml", "show_chart: false\n")

			code := runWith("ADD X1, X2, X3\n", "-config", path)

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal("Total Cycle Count: 5\n"))
		})

		It("should let flags override the configuration file", func() {
			path := writeFile("pipesim.json", `{"show_chart": false}`)

			code := runWith("ADD X1, X2, X3\n", "-config", path, "-chart=true", "-cycles=false")

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(HavePrefix("Chart of pipelined stages:"))
			Expect(stdout.String()).NotTo(ContainSubstring("Total Cycle Count"))
		})

		It("should reject an invalid color mode", func() {
			code := runWith("ADD X1, X2, X3\n", "-color", "sometimes")

			Expect(code).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring("invalid configuration"))
		})

		It("should fail on an unreadable configuration file", func() {
			code := runWith("", "-config", filepath.Join(GinkgoT().TempDir(), "none.json"))

			Expect(code).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring("failed to read config file"))
		})
	})

	Context("with color", func() {
		It("should color output when forced", func() {
			code := runWith("ADD X1, X2, X3\n", "-color", "always", "-chart=false")

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal(csiBold + csiGreen + "Total Cycle Count: 5" + csiReset + "\n"))
		})

		It("should not color output written to a buffer in auto mode", func() {
			Expect(useColor("auto", stdout)).To(BeFalse())
			Expect(useColor("always", stdout)).To(BeTrue())
			Expect(useColor("never", stdout)).To(BeFalse())
		})
	})

	Context("with -v", func() {
		It("should log decoded instructions and hazards", func() {
			code := runWith("LDUR X1, [X2, #0]\nADD X3, X1, X4\n", "-v", "-chart=false")

			Expect(code).To(Equal(exitOK))
			Expect(stderr.String()).To(ContainSubstring(`"msg"="decoded"`))
			Expect(stderr.String()).To(ContainSubstring(`"msg"="load-use hazard"`))
			Expect(stderr.String()).To(ContainSubstring("[INFO]: 2 instructions, 1 stalls"))
		})
	})

	Context("with -json", func() {
		It("should print a machine readable report", func() {
			code := runWith("LDUR X1, [X2, #0]\nADD X3, X1, X4\n", "-json")

			Expect(code).To(Equal(exitOK))

			var rep map[string]any
			Expect(json.Unmarshal(stdout.Bytes(), &rep)).To(Succeed())
			Expect(rep["source"]).To(Equal("<stdin>"))
			Expect(rep["cycles"]).To(BeNumerically("==", 7))
			Expect(rep["stalls"]).To(BeNumerically("==", 1))
			Expect(rep["simulated_time_ns"]).To(BeNumerically("==", 7))
			Expect(rep["hazards"]).To(ConsistOf(map[string]any{
				"producer": float64(1),
				"consumer": float64(2),
				"register": "X1",
			}))
			Expect(rep["decode_errors"]).To(BeEmpty())
		})
	})
})
