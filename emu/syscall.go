package emu

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/sarchlab/rv64sim/insts"
)

// RISC-V Linux syscall numbers.
const (
	SyscallOpenat    uint64 = 56 // openat(dirfd, path, flags, mode)
	SyscallClose     uint64 = 57 // close(fd)
	SyscallLseek     uint64 = 62 // lseek(fd, offset, whence)
	SyscallRead      uint64 = 63 // read(fd, buf, count)
	SyscallWrite     uint64 = 64 // write(fd, buf, count)
	SyscallExit      uint64 = 93 // exit(status)
	SyscallExitGroup uint64 = 94 // exit_group(status)
)

// Linux error codes.
const (
	ENOENT = 2  // No such file or directory
	EIO    = 5  // I/O error
	EBADF  = 9  // Bad file descriptor
	EACCES = 13 // Permission denied
	EFAULT = 14 // Bad address
	EINVAL = 22 // Invalid argument
	ENOSYS = 38 // Function not implemented
)

// atFDCWD is the openat dirfd meaning "relative to the working directory".
const atFDCWD = -100

// SyscallResult represents the result of a syscall execution.
type SyscallResult struct {
	// Exited is true if the syscall caused program termination.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64
}

// SyscallHandler is the interface for handling RISC-V syscalls.
type SyscallHandler interface {
	// Handle executes the syscall indicated by the register file state.
	// RISC-V Linux syscall convention:
	//   - Syscall number in a7
	//   - Arguments in a0-a5
	//   - Return value in a0
	Handle(regFile *RegFile, memory *Memory) SyscallResult
}

// NewSyscallTrapHandler returns a trap handler that services environment
// calls with h and resumes after the ecall. Every other trap halts the run
// with a *TrapError.
func NewSyscallTrapHandler(h SyscallHandler) TrapHandler {
	return TrapHandlerFunc(func(t Trap, regFile *RegFile, memory *Memory) TrapAction {
		if t.Cause != TrapEnvironmentCall {
			return Fail(&TrapError{Trap: t})
		}

		result := h.Handle(regFile, memory)
		if result.Exited {
			return Halt(result.ExitCode)
		}
		return Resume(t.PC + 4)
	})
}

// DefaultSyscallHandler provides a basic syscall handler implementation.
type DefaultSyscallHandler struct {
	fdTable *FDTable
}

// NewDefaultSyscallHandler creates a default syscall handler. Descriptor 0
// reads as end of file until SetStdin is called.
func NewDefaultSyscallHandler(stdout, stderr io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		fdTable: NewFDTable(nil, stdout, stderr),
	}
}

// SetStdin sets the stdin reader for the syscall handler.
func (h *DefaultSyscallHandler) SetStdin(stdin io.Reader) {
	h.fdTable.mu.Lock()
	defer h.fdTable.mu.Unlock()
	h.fdTable.fds[0] = &FileDescriptor{Path: "stdin", reader: stdin}
}

// FDTable returns the handler's descriptor table.
func (h *DefaultSyscallHandler) FDTable() *FDTable {
	return h.fdTable
}

// Handle executes the syscall indicated by the register file state.
func (h *DefaultSyscallHandler) Handle(regFile *RegFile, memory *Memory) SyscallResult {
	c := syscallContext{regFile: regFile, memory: memory}

	switch regFile.ReadReg(insts.A7) {
	case SyscallOpenat:
		h.handleOpenat(c)
	case SyscallClose:
		h.handleClose(c)
	case SyscallLseek:
		h.handleLseek(c)
	case SyscallRead:
		h.handleRead(c)
	case SyscallWrite:
		h.handleWrite(c)
	case SyscallExit, SyscallExitGroup:
		return SyscallResult{
			Exited:   true,
			ExitCode: int64(c.arg(0)),
		}
	default:
		c.setError(ENOSYS)
	}

	return SyscallResult{}
}

type syscallContext struct {
	regFile *RegFile
	memory  *Memory
}

func (c syscallContext) arg(i int) uint64 {
	return c.regFile.ReadReg(insts.A0 + insts.Register(i))
}

func (c syscallContext) setResult(v uint64) {
	c.regFile.WriteReg(insts.A0, v)
}

// setError sets a0 to -errno (as two's complement).
func (c syscallContext) setError(errno int) {
	c.setResult(uint64(-int64(errno)))
}

func (h *DefaultSyscallHandler) handleOpenat(c syscallContext) {
	dirfd := int64(c.arg(0))
	if dirfd != atFDCWD {
		c.setError(EBADF)
		return
	}

	path, err := c.memory.ReadCString(c.arg(1))
	if err != nil {
		c.setError(EFAULT)
		return
	}

	fd, err := h.fdTable.Open(path, int(c.arg(2)), os.FileMode(c.arg(3)&0o777))
	if err != nil {
		c.setError(errnoOf(err))
		return
	}
	c.setResult(fd)
}

func (h *DefaultSyscallHandler) handleClose(c syscallContext) {
	if err := h.fdTable.Close(c.arg(0)); err != nil {
		c.setError(errnoOf(err))
		return
	}
	c.setResult(0)
}

func (h *DefaultSyscallHandler) handleLseek(c syscallContext) {
	whence := int(c.arg(2))
	if whence < io.SeekStart || whence > io.SeekEnd {
		c.setError(EINVAL)
		return
	}

	pos, err := h.fdTable.Seek(c.arg(0), int64(c.arg(1)), whence)
	if err != nil {
		c.setError(errnoOf(err))
		return
	}
	c.setResult(uint64(pos))
}

func (h *DefaultSyscallHandler) handleRead(c syscallContext) {
	fd, bufPtr, count := c.arg(0), c.arg(1), c.arg(2)

	if !c.memory.Contains(bufPtr, count) {
		c.setError(EFAULT)
		return
	}

	buf := make([]byte, count)
	n, err := h.fdTable.Read(fd, buf)
	if err != nil && n == 0 && !errors.Is(err, io.EOF) {
		c.setError(errnoOf(err))
		return
	}

	_ = c.memory.WriteBytes(bufPtr, buf[:n])
	c.setResult(uint64(n))
}

func (h *DefaultSyscallHandler) handleWrite(c syscallContext) {
	fd, bufPtr, count := c.arg(0), c.arg(1), c.arg(2)

	buf, err := c.memory.ReadBytes(bufPtr, count)
	if err != nil {
		c.setError(EFAULT)
		return
	}

	n, err := h.fdTable.Write(fd, buf)
	if err != nil {
		c.setError(errnoOf(err))
		return
	}
	c.setResult(uint64(n))
}

// errnoOf maps a host error to a Linux errno.
func errnoOf(err error) int {
	var errno syscall.Errno
	switch {
	case errors.Is(err, ErrBadFD):
		return EBADF
	case errors.As(err, &errno):
		return int(errno)
	case errors.Is(err, os.ErrNotExist):
		return ENOENT
	case errors.Is(err, os.ErrPermission):
		return EACCES
	}
	return EIO
}
