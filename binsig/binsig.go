// Package binsig performs a cheap signature check on executable files: it
// reads the ELF64 file header and nothing else.
package binsig

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// HeaderSize is the size in bytes of an Elf64_Ehdr.
const HeaderSize = 64

// offset of e_type inside Elf64_Ehdr
const typeOffset = 16

// Predefined errors returned by Check.
var (
	ErrUnreadable = errors.New("binsig: cannot read file")
	ErrTruncated  = errors.New("binsig: file shorter than an elf64 header")
	ErrBadMagic   = errors.New("binsig: bad elf magic")
	ErrNotELF64   = errors.New("binsig: not a 64-bit elf file")
	ErrBadType    = errors.New("binsig: elf type is neither executable nor shared object")
)

// Check opens path on fs and verifies its leading bytes form an ELF64 header
// of type ET_EXEC or ET_DYN. It returns nil when the signature is good.
// e_type is decoded in the byte order named by EI_DATA, or in host order when
// EI_DATA names none.
func Check(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	defer f.Close()

	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %s", ErrTruncated, path)
		}
		return fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return checkHeader(hdr[:])
}

// IsValidExecutable is the boolean form of Check; failures are logged.
func IsValidExecutable(fs afero.Fs, path string) bool {
	if err := Check(fs, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("executable signature check failed")
		return false
	}
	return true
}

func checkHeader(hdr []byte) error {
	if string(hdr[:len(elf.ELFMAG)]) != elf.ELFMAG {
		return ErrBadMagic
	}
	if elf.Class(hdr[elf.EI_CLASS]) != elf.ELFCLASS64 {
		return fmt.Errorf("%w: class %v", ErrNotELF64, elf.Class(hdr[elf.EI_CLASS]))
	}

	var order binary.ByteOrder
	switch elf.Data(hdr[elf.EI_DATA]) {
	case elf.ELFDATA2LSB:
		order = binary.LittleEndian
	case elf.ELFDATA2MSB:
		order = binary.BigEndian
	default:
		// unknown encoding: e_type is read in host order, like a raw Elf64_Ehdr
		order = binary.NativeEndian
	}

	switch typ := elf.Type(order.Uint16(hdr[typeOffset:])); typ {
	case elf.ET_EXEC, elf.ET_DYN:
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrBadType, typ)
	}
}
