package debugfs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Channels", func() {
	var (
		mockCtrl *gomock.Controller
		opened   map[string]*MockChannel
		failOn   string
		open     Opener
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		opened = make(map[string]*MockChannel)
		failOn = ""
		open = func(path string) (Channel, error) {
			if filepath.Base(path) == failOn {
				return nil, errors.New("permission denied")
			}

			ch := NewMockChannel(mockCtrl)
			opened[filepath.Base(path)] = ch
			return ch, nil
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should build window paths", func() {
		Expect(Path("/sys/kernel/debug", 1, WaveFile)).
			To(Equal("/sys/kernel/debug/dri/1/amdgpu_wave"))
	})

	It("should open all three windows", func() {
		c, err := OpenChannels(open, "/d", 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.IsOpen()).To(BeTrue())
		Expect(c.Control).To(BeIdenticalTo(opened[RegsFile]))
		Expect(c.WaveDump).To(BeIdenticalTo(opened[WaveFile]))
		Expect(c.RegisterDump).To(BeIdenticalTo(opened[GPRFile]))
	})

	It("should close the opened windows if the last one fails", func() {
		failOn = GPRFile
		closed := 0
		open2 := func(path string) (Channel, error) {
			ch, err := open(path)
			if err == nil {
				ch.(*MockChannel).EXPECT().Close().
					Do(func() { closed++ })
			}
			return ch, err
		}

		c, err := OpenChannels(open2, "/d", 0)

		Expect(err).To(HaveOccurred())
		Expect(c).To(BeNil())
		Expect(closed).To(Equal(2))
	})

	It("should open nothing else if the first one fails", func() {
		failOn = RegsFile

		_, err := OpenChannels(open, "/d", 0)

		Expect(err).To(HaveOccurred())
		Expect(opened).To(BeEmpty())
	})

	It("should close everything and report the first error", func() {
		c, _ := OpenChannels(open, "/d", 0)
		closeErr := errors.New("busy")
		opened[RegsFile].EXPECT().Close().Return(closeErr)
		opened[WaveFile].EXPECT().Close().Return(errors.New("other"))
		opened[GPRFile].EXPECT().Close()

		err := c.Close()

		Expect(err).To(MatchError(closeErr))
		Expect(c.IsOpen()).To(BeFalse())
		Expect(c.Close()).To(Succeed())
	})
})

var _ = Describe("File channel", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "debugfs")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("should read and write at an offset", func() {
		path := filepath.Join(dir, "regs")
		Expect(os.WriteFile(path, make([]byte, 64), 0600)).To(Succeed())

		ch, err := OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer ch.Close()

		mmio := NewMMIO(ch)
		Expect(mmio.WriteReg(16, 0x01020304)).To(Succeed())
		value, err := mmio.ReadReg(16)

		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(uint32(0x01020304)))
	})

	It("should report a short read at the end of the file", func() {
		path := filepath.Join(dir, "wave")
		Expect(os.WriteFile(path, make([]byte, 6), 0600)).To(Succeed())

		ch, err := OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer ch.Close()

		_, err = ReadWords(ch, 0, 2)

		Expect(errors.Is(err, ErrShortTransfer)).To(BeTrue())
	})

	It("should reject offsets beyond the file position range", func() {
		path := filepath.Join(dir, "gpr")
		Expect(os.WriteFile(path, nil, 0600)).To(Succeed())

		ch, err := OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer ch.Close()

		err = ch.Seek(1 << 63)

		Expect(errors.Is(err, ErrOffsetRange)).To(BeTrue())
	})

	It("should fail to open a missing file", func() {
		_, err := OpenFile(filepath.Join(dir, "missing"))

		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
