package emu

import "github.com/sarchlab/rv64sim/insts"

// LoadStoreUnit implements RV64I load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress returns rs1 + sext(imm).
func (lsu *LoadStoreUnit) EffectiveAddress(rs1 insts.Register, imm int32) uint64 {
	return lsu.regFile.ReadReg(rs1) + uint64(int64(imm))
}

// Load reads memory into rd, sign- or zero-extending by op. On a fault rd is
// left unchanged and a *MemoryFault is returned.
func (lsu *LoadStoreUnit) Load(op insts.Op, ops insts.ImmOperands) error {
	addr := lsu.EffectiveAddress(ops.Rs1, ops.Imm)

	var value uint64
	switch op {
	case insts.OpLB:
		v, err := lsu.memory.Read8(addr)
		if err != nil {
			return err
		}
		value = uint64(int64(int8(v)))
	case insts.OpLBU:
		v, err := lsu.memory.Read8(addr)
		if err != nil {
			return err
		}
		value = uint64(v)
	case insts.OpLH:
		v, err := lsu.memory.Read16(addr)
		if err != nil {
			return err
		}
		value = uint64(int64(int16(v)))
	case insts.OpLHU:
		v, err := lsu.memory.Read16(addr)
		if err != nil {
			return err
		}
		value = uint64(v)
	case insts.OpLW:
		v, err := lsu.memory.Read32(addr)
		if err != nil {
			return err
		}
		value = signExtend32(v)
	case insts.OpLWU:
		v, err := lsu.memory.Read32(addr)
		if err != nil {
			return err
		}
		value = uint64(v)
	case insts.OpLD:
		v, err := lsu.memory.Read64(addr)
		if err != nil {
			return err
		}
		value = v
	default:
		panic("emu: not a load: " + op.String())
	}

	lsu.regFile.WriteReg(ops.Rd, value)
	return nil
}

// Store writes the low bytes of rs2 to memory.
func (lsu *LoadStoreUnit) Store(op insts.Op, ops insts.StoreOperands) error {
	addr := lsu.EffectiveAddress(ops.Rs1, ops.Imm)
	value := lsu.regFile.ReadReg(ops.Rs2)

	switch op {
	case insts.OpSB:
		return lsu.memory.Write8(addr, uint8(value))
	case insts.OpSH:
		return lsu.memory.Write16(addr, uint16(value))
	case insts.OpSW:
		return lsu.memory.Write32(addr, uint32(value))
	case insts.OpSD:
		return lsu.memory.Write64(addr, value)
	}

	panic("emu: not a store: " + op.String())
}
