package emu_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
)

var _ = Describe("FDTable", func() {
	var (
		table  *emu.FDTable
		stdout *bytes.Buffer
		dir    string
	)

	BeforeEach(func() {
		stdout = new(bytes.Buffer)
		table = emu.NewFDTable(strings.NewReader("in"), stdout, io.Discard)
		dir = GinkgoT().TempDir()
	})

	AfterEach(func() {
		Expect(table.CloseAll()).To(Succeed())
	})

	It("should bind the standard streams", func() {
		Expect(table.IsOpen(0)).To(BeTrue())
		Expect(table.IsOpen(1)).To(BeTrue())
		Expect(table.IsOpen(2)).To(BeTrue())
		Expect(table.IsOpen(3)).To(BeFalse())

		buf := make([]byte, 4)
		Expect(table.Read(0, buf)).To(Equal(2))
		Expect(table.Write(1, []byte("out"))).To(Equal(3))
		Expect(stdout.String()).To(Equal("out"))
	})

	It("should read end of file from a nil stdin", func() {
		t := emu.NewFDTable(nil, io.Discard, io.Discard)

		_, err := t.Read(0, make([]byte, 1))
		Expect(err).To(MatchError(io.EOF))
	})

	It("should reject operations a stream does not support", func() {
		_, err := table.Write(0, []byte("x"))
		Expect(err).To(MatchError(emu.ErrBadFD))

		_, err = table.Read(1, make([]byte, 1))
		Expect(err).To(MatchError(emu.ErrBadFD))

		_, err = table.Seek(2, 0, io.SeekStart)
		Expect(err).To(MatchError(emu.ErrBadFD))
	})

	It("should allocate the lowest free descriptor", func() {
		a, err := table.Open(filepath.Join(dir, "a"), os.O_RDWR|os.O_CREATE, 0o644)
		Expect(err).NotTo(HaveOccurred())
		b, err := table.Open(filepath.Join(dir, "b"), os.O_RDWR|os.O_CREATE, 0o644)
		Expect(err).NotTo(HaveOccurred())
		Expect([]uint64{a, b}).To(Equal([]uint64{3, 4}))

		Expect(table.Close(a)).To(Succeed())
		c, err := table.Open(filepath.Join(dir, "c"), os.O_RDWR|os.O_CREATE, 0o644)
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(uint64(3)))
	})

	It("should reuse a closed standard stream slot", func() {
		Expect(table.Close(0)).To(Succeed())
		Expect(table.IsOpen(0)).To(BeFalse())

		fd, err := table.Open(filepath.Join(dir, "in"), os.O_RDWR|os.O_CREATE, 0o644)
		Expect(err).NotTo(HaveOccurred())
		Expect(fd).To(BeZero())
	})

	It("should read and write host files", func() {
		fd, err := table.Open(filepath.Join(dir, "f"), os.O_RDWR|os.O_CREATE, 0o644)
		Expect(err).NotTo(HaveOccurred())

		Expect(table.Write(fd, []byte("hello"))).To(Equal(5))
		Expect(table.Seek(fd, 0, io.SeekStart)).To(Equal(int64(0)))

		buf := make([]byte, 5)
		Expect(table.Read(fd, buf)).To(Equal(5))
		Expect(string(buf)).To(Equal("hello"))

		entry, ok := table.Get(fd)
		Expect(ok).To(BeTrue())
		Expect(entry.Path).To(Equal(filepath.Join(dir, "f")))
	})

	It("should fail to close an unknown descriptor", func() {
		Expect(table.Close(42)).To(MatchError(emu.ErrBadFD))
	})

	It("should fail to open a missing file", func() {
		_, err := table.Open(filepath.Join(dir, "missing"), os.O_RDONLY, 0)
		Expect(err).To(MatchError(os.ErrNotExist))
	})
})
