package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should decode through the Decoder the same as the package function", func() {
		decoder := insts.NewDecoder()
		Expect(decoder.Decode(0x00500293)).To(Equal(insts.Decode(0x00500293)))
	})

	It("should name every operation", func() {
		Expect(insts.OpADDI.String()).To(Equal("addi"))
		Expect(insts.OpSRAIW.String()).To(Equal("sraiw"))
		Expect(insts.OpUndefined.String()).To(Equal("undefined"))
		Expect(insts.Op(200).String()).To(Equal("invalid"))
	})

	It("should report the encoding format of every operation", func() {
		Expect(insts.OpBEQ.Format()).To(Equal(insts.FormatB))
		Expect(insts.OpSD.Format()).To(Equal(insts.FormatS))
		Expect(insts.OpJALR.Format()).To(Equal(insts.FormatI))
		Expect(insts.OpJAL.Format()).To(Equal(insts.FormatJ))
		Expect(insts.OpAUIPC.Format()).To(Equal(insts.FormatU))
		Expect(insts.OpSUBW.Format()).To(Equal(insts.FormatR))
		Expect(insts.FormatR.String()).To(Equal("R"))
	})
})
