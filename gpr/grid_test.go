package gpr

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Grid", func() {
	It("should render sixteen words per row", func() {
		words := make([]uint32, 20)
		for i := range words {
			words[i] = uint32(i) * 0x11
		}
		buf := new(bytes.Buffer)

		Expect(WriteGrid(buf, words)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"    [0000] 00000000 00000011 00000022 00000033" +
				" 00000044 00000055 00000066 00000077" +
				" 00000088 00000099 000000aa 000000bb" +
				" 000000cc 000000dd 000000ee 000000ff\n" +
				"    [0016] 00000110 00000121 00000132 00000143\n"))
	})

	It("should render nothing for an empty bank", func() {
		buf := new(bytes.Buffer)

		Expect(WriteGrid(buf, nil)).To(Succeed())
		Expect(buf.Len()).To(BeZero())
	})

	It("should annotate threads with their execution state", func() {
		b := &Banks{
			SGPRs: []uint32{0xdeadbeef},
			VGPRs: [][]uint32{{1}, {2}},
			Exec:  0x2,
		}
		buf := new(bytes.Buffer)

		Expect(b.Write(buf)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"SGPRS (1):\n" +
				"    [0000] deadbeef\n" +
				"VGPRS thread 0 (Not Executing):\n" +
				"    [0000] 00000001\n" +
				"VGPRS thread 1 (Executing):\n" +
				"    [0000] 00000002\n"))
	})
})
