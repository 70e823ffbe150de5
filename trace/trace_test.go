package trace_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/insts"
	"github.com/sarchlab/rv64sim/trace"
)

func image(program ...insts.Instruction) []byte {
	var buf []byte
	for _, inst := range program {
		word, err := insts.Encode(inst)
		Expect(err).NotTo(HaveOccurred())
		buf = binary.LittleEndian.AppendUint32(buf, word)
	}
	return buf
}

var _ = Describe("Logger", func() {
	var (
		log  *logrus.Logger
		hook *test.Hook
	)

	BeforeEach(func() {
		log, hook = test.NewNullLogger()
		log.SetLevel(logrus.DebugLevel)
	})

	run := func(program ...insts.Instruction) emu.StepResult {
		e := emu.NewEmulator(emu.NewMemory(image(program...)),
			emu.WithInstrumentation(trace.NewLogger(log)))
		return e.Run()
	}

	It("should log one entry per instruction", func() {
		run(
			insts.Addi{Rd: insts.A0, Rs1: insts.X0, Imm: 5},
			insts.Add{Rd: insts.A1, Rs1: insts.A0, Rs2: insts.A0},
		)

		entries := hook.AllEntries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Level).To(Equal(logrus.DebugLevel))
		Expect(entries[0].Message).To(Equal("addi a0, zero, 5"))
		Expect(entries[1].Message).To(Equal("add a1, a0, a0"))
	})

	It("should record the PC, word and changed registers", func() {
		run(
			insts.Addi{Rd: insts.A0, Rs1: insts.X0, Imm: 5},
			insts.Addi{Rd: insts.A0, Rs1: insts.A0, Imm: 0},
		)

		first := hook.AllEntries()[0].Data
		Expect(first).To(HaveKeyWithValue("pc", "0x00000000"))
		Expect(first).To(HaveKeyWithValue("word", "0x00500513"))
		Expect(first).To(HaveKeyWithValue("outcome", "continue"))
		Expect(first).To(HaveKeyWithValue("a0", "0x5"))

		second := hook.AllEntries()[1].Data
		Expect(second).To(HaveKeyWithValue("pc", "0x00000004"))
		Expect(second).NotTo(HaveKey("a0"))
	})

	It("should record jumps and traps", func() {
		run(
			insts.Jal{Rd: insts.RA, Imm: 8},
			insts.Ebreak{},
			insts.Ebreak{},
		)

		entries := hook.AllEntries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Data).To(HaveKeyWithValue("outcome", "jump"))
		Expect(entries[0].Data).To(HaveKeyWithValue("ra", "0x4"))
		Expect(entries[1].Message).To(Equal("ebreak"))
		Expect(entries[1].Data).To(HaveKeyWithValue("cause", "breakpoint"))
	})

	It("should stay silent above debug level", func() {
		log.SetLevel(logrus.InfoLevel)
		run(insts.Addi{Rd: insts.A0, Rs1: insts.X0, Imm: 5})
		Expect(hook.AllEntries()).To(BeEmpty())
	})
})
