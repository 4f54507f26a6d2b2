// Package openflags translates between POSIX-style open-mode strings ("r",
// "w+", "ax", ...) and the SFTP SSH_FXF_* open-flags bitmask.
package openflags

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Flags is the SSH_FXP_OPEN pflags bitmask.
type Flags uint32

const (
	Read      Flags = 0x01
	Write     Flags = 0x02
	Append    Flags = 0x04
	Create    Flags = 0x08
	Truncate  Flags = 0x10
	Exclusive Flags = 0x20

	// All is the union of every defined bit. Any bitmask handled by this
	// package is masked with All first.
	All Flags = Read | Write | Append | Create | Truncate | Exclusive
)

// ErrInvalidMode is matched (via errors.Is) by every error ToNumber returns
// for an unrecognised mode string.
var ErrInvalidMode = errors.New("invalid flags")

// InvalidModeError reports an open-mode string that is not in the mode table.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid flags: %q", e.Mode)
}

// Is reports whether target is ErrInvalidMode.
func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

var modeToFlags = map[string]Flags{
	"r":   Read,
	"r+":  Read | Write,
	"w":   Write | Create | Truncate,
	"w+":  Write | Create | Truncate | Read,
	"wx":  Write | Create | Exclusive,
	"xw":  Write | Create | Exclusive,
	"wx+": Write | Create | Exclusive | Read,
	"xw+": Write | Create | Exclusive | Read,
	"a":   Write | Create | Append,
	"a+":  Write | Create | Append | Read,
	"ax":  Write | Create | Append | Exclusive,
	"xa":  Write | Create | Append | Exclusive,
	"ax+": Write | Create | Append | Exclusive | Read,
	"xa+": Write | Create | Append | Exclusive | Read,
}

// flagsToModes lists, for every normalized bitmask, the mode strings it can
// stand for. 10 and 11 are genuinely ambiguous: Create without Truncate or
// Append after normalization reads either as an exclusive create or as a
// plain read-write open.
var flagsToModes = map[Flags][]string{
	1:  {"r"},
	2:  {"r+"},
	3:  {"r+"},
	10: {"wx", "r+"},
	11: {"wx+", "r+"},
	14: {"a"},
	15: {"a+"},
	26: {"w"},
	27: {"w+"},
	42: {"wx"},
	43: {"wx+"},
	46: {"ax"},
	47: {"ax+"},
}

// Mask restricts a raw integer bitmask to the defined bits.
func Mask(raw uint32) Flags {
	return Flags(raw) & All
}

// ToNumber converts an open-mode string to its bitmask using an exact table.
func ToNumber(mode string) (Flags, error) {
	f, ok := modeToFlags[mode]
	if !ok {
		return 0, &InvalidModeError{Mode: mode}
	}
	return f, nil
}

// Normalize applies the precedence rules used before a bitmask is mapped back
// to mode strings, in this order:
//
//  1. mask to All
//  2. Exclusive clears Truncate
//  3. Truncate clears Append
//  4. neither Read nor Write set implies Read
//  5. without Create only Read|Write survive; with Create, Write is forced
func Normalize(f Flags) Flags {
	f &= All
	if f&Exclusive != 0 {
		f &^= Truncate
	}
	if f&Truncate != 0 {
		f &^= Append
	}
	if f&(Read|Write) == 0 {
		f |= Read
	}
	if f&Create == 0 {
		f &= Read | Write
	} else {
		f |= Write
	}
	return f
}

// FromNumber normalizes f and returns the candidate mode strings for it, in
// a fixed order. More than one candidate means the bitmask is ambiguous.
//
// Normalize only produces values present in the table, so a miss is a
// programming error and panics.
func FromNumber(f Flags) []string {
	n := Normalize(f)
	modes, ok := flagsToModes[n]
	if !ok {
		panic(fmt.Sprintf("openflags: normalized value %d (from %d) has no mode mapping", n, f))
	}
	return append([]string(nil), modes...)
}

// Has reports whether every bit in bits is set.
func (f Flags) Has(bits Flags) bool {
	return f&bits == bits
}

var flagNames = []struct {
	bit  Flags
	name string
}{
	{Read, "READ"},
	{Write, "WRITE"},
	{Append, "APPEND"},
	{Create, "CREAT"},
	{Truncate, "TRUNC"},
	{Exclusive, "EXCL"},
}

// String renders the bitmask as e.g. "READ|WRITE|CREAT".
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	if rest := f &^ All; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// FromOS converts open(2) style flags (os.O_*) to the SFTP bitmask.
func FromOS(flag int) Flags {
	var f Flags
	switch flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_WRONLY:
		f |= Write
	case os.O_RDWR:
		f |= Read | Write
	default:
		f |= Read
	}
	if flag&os.O_APPEND != 0 {
		f |= Append
	}
	if flag&os.O_CREATE != 0 {
		f |= Create
	}
	if flag&os.O_TRUNC != 0 {
		f |= Truncate
	}
	if flag&os.O_EXCL != 0 {
		f |= Exclusive
	}
	return f
}

// OS converts the bitmask to os.O_* flags.
func (f Flags) OS() int {
	var flag int
	switch {
	case f.Has(Read | Write):
		flag = os.O_RDWR
	case f.Has(Write):
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if f&Append != 0 {
		flag |= os.O_APPEND
	}
	if f&Create != 0 {
		flag |= os.O_CREATE
	}
	if f&Truncate != 0 {
		flag |= os.O_TRUNC
	}
	if f&Exclusive != 0 {
		flag |= os.O_EXCL
	}
	return flag
}
