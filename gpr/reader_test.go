package gpr

import (
	"encoding/binary"
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/wavedump/debugfs"
	"gitlab.com/akita/wavedump/wavefront"
)

var _ = Describe("WindowOffset", func() {
	It("should place every field at its bit position", func() {
		loc := wavefront.Coordinate{SE: 1, SH: 1, CU: 1, SIMD: 1, Wave: 1}

		Expect(WindowOffset(loc, 1, SGPRBank)).To(Equal(
			uint64(1)<<12 | uint64(1)<<20 | uint64(1)<<28 |
				uint64(1)<<36 | uint64(1)<<44 | uint64(1)<<52 |
				uint64(1)<<60))
	})

	It("should select the vector bank with a clear bank bit", func() {
		loc := wavefront.Coordinate{SE: 3, CU: 15, SIMD: 3, Wave: 9}

		Expect(WindowOffset(loc, 63, VGPRBank) >> 60).To(BeZero())
		Expect(WindowOffset(loc, 63, SGPRBank) >> 60).To(Equal(uint64(1)))
	})

	It("should keep the register index bits clear", func() {
		loc := wavefront.Coordinate{SE: 3, CU: 15, SIMD: 3, Wave: 9}

		Expect(WindowOffset(loc, 63, SGPRBank) & 0xfff).To(BeZero())
	})
})

var _ = Describe("Reader", func() {
	var (
		mockCtrl *gomock.Controller
		ch       *MockChannel
		reader   *Reader
		wf       *wavefront.Wavefront
	)

	fill := func(buf []byte) (int, error) {
		for i := 0; i < len(buf)/4; i++ {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(i))
		}
		return len(buf), nil
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ch = NewMockChannel(mockCtrl)
		reader = NewReader(ch)

		var r wavefront.Record
		r[0] = 1
		r[wavefront.StatusIndex] = uint32(wavefront.StatusValid)
		r[wavefront.ExecLowIndex] = 0x1
		r[wavefront.HWIDIndex] = 2 | 3<<4 | 9<<8 | 1<<13
		wf = wavefront.NewWavefront(wavefront.Coordinate{}, r)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should read the SGPRs in one transfer", func() {
		loc := wf.Location()
		ch.EXPECT().Seek(WindowOffset(loc, 0, SGPRBank))
		ch.EXPECT().Read(gomock.Any()).DoAndReturn(fill)

		sgprs, err := reader.ReadSGPRs(loc, 16)

		Expect(err).NotTo(HaveOccurred())
		Expect(sgprs).To(HaveLen(16))
		Expect(sgprs[15]).To(Equal(uint32(15)))
	})

	It("should dump every thread using the hardware location", func() {
		loc := wavefront.Coordinate{SE: 1, SH: 0, CU: 9, SIMD: 3, Wave: 2}
		Expect(wf.Location()).To(Equal(loc))

		sizes := []int{}
		ch.EXPECT().Seek(WindowOffset(loc, 0, SGPRBank))
		for thread := uint32(0); thread < ThreadsPerWave; thread++ {
			ch.EXPECT().Seek(WindowOffset(loc, thread, VGPRBank))
		}
		ch.EXPECT().Read(gomock.Any()).
			DoAndReturn(func(buf []byte) (int, error) {
				sizes = append(sizes, len(buf))
				return fill(buf)
			}).
			Times(1 + ThreadsPerWave)

		banks, err := reader.Dump(wf)

		Expect(err).NotTo(HaveOccurred())
		Expect(banks.SGPRs).To(HaveLen(16))
		Expect(banks.VGPRs).To(HaveLen(ThreadsPerWave))
		for _, vgprs := range banks.VGPRs {
			Expect(vgprs).To(HaveLen(4))
		}
		Expect(sizes[0]).To(Equal(64))
		for _, size := range sizes[1:] {
			Expect(size).To(Equal(16))
		}
		Expect(banks.IsExecuting(0)).To(BeTrue())
		Expect(banks.IsExecuting(1)).To(BeFalse())
	})

	It("should stop at the first failed read", func() {
		ch.EXPECT().Seek(gomock.Any()).Times(2)
		ch.EXPECT().Read(gomock.Any()).DoAndReturn(fill)
		ch.EXPECT().Read(gomock.Any()).Return(0, nil)

		banks, err := reader.Dump(wf)

		Expect(banks).To(BeNil())
		Expect(errors.Is(err, debugfs.ErrShortTransfer)).To(BeTrue())
	})
})
