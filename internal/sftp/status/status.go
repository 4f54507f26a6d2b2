// Package status reads and writes SSH_FXP_STATUS bodies:
//
//	uint32 code
//	string message
//	string language tag
//
// The language tag is always written empty.
package status

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

// Code is an SFTP status code.
type Code uint32

const (
	OK                      Code = 0
	EOF                     Code = 1
	NoSuchFile              Code = 2
	PermissionDenied        Code = 3
	Failure                 Code = 4
	BadMessage              Code = 5
	NoConnection            Code = 6
	ConnectionLost          Code = 7
	OpUnsupported           Code = 8
	InvalidHandle           Code = 9
	NoSuchPath              Code = 10
	FileAlreadyExists       Code = 11
	WriteProtect            Code = 12
	NoMedia                 Code = 13
	NoSpaceOnFilesystem     Code = 14
	QuotaExceeded           Code = 15
	UnknownPrincipal        Code = 16
	LockConflict            Code = 17
	DirNotEmpty             Code = 18
	NotADirectory           Code = 19
	InvalidFilename         Code = 20
	LinkLoop                Code = 21
	CannotDelete            Code = 22
	InvalidParameter        Code = 23
	FileIsADirectory        Code = 24
	ByteRangeLockConflict   Code = 25
	ByteRangeLockRefused    Code = 26
	DeletePending           Code = 27
	FileCorrupt             Code = 28
	OwnerInvalid            Code = 29
	GroupInvalid            Code = 30
	NoMatchingByteRangeLock Code = 31
)

type codeInfo struct {
	name    string
	message string
}

var codes = map[Code]codeInfo{
	OK:                      {"SSH_FX_OK", "OK"},
	EOF:                     {"SSH_FX_EOF", "End of file"},
	NoSuchFile:              {"SSH_FX_NO_SUCH_FILE", "No such file"},
	PermissionDenied:        {"SSH_FX_PERMISSION_DENIED", "Permission denied"},
	Failure:                 {"SSH_FX_FAILURE", "Failure"},
	BadMessage:              {"SSH_FX_BAD_MESSAGE", "Bad message"},
	NoConnection:            {"SSH_FX_NO_CONNECTION", "No connection"},
	ConnectionLost:          {"SSH_FX_CONNECTION_LOST", "Connection lost"},
	OpUnsupported:           {"SSH_FX_OP_UNSUPPORTED", "Operation unsupported"},
	InvalidHandle:           {"SSH_FX_INVALID_HANDLE", "Invalid handle"},
	NoSuchPath:              {"SSH_FX_NO_SUCH_PATH", "No such path"},
	FileAlreadyExists:       {"SSH_FX_FILE_ALREADY_EXISTS", "File already exists"},
	WriteProtect:            {"SSH_FX_WRITE_PROTECT", "Write protected"},
	NoMedia:                 {"SSH_FX_NO_MEDIA", "No media"},
	NoSpaceOnFilesystem:     {"SSH_FX_NO_SPACE_ON_FILESYSTEM", "No space on filesystem"},
	QuotaExceeded:           {"SSH_FX_QUOTA_EXCEEDED", "Quota exceeded"},
	UnknownPrincipal:        {"SSH_FX_UNKNOWN_PRINCIPAL", "Unknown principal"},
	LockConflict:            {"SSH_FX_LOCK_CONFLICT", "Lock conflict"},
	DirNotEmpty:             {"SSH_FX_DIR_NOT_EMPTY", "Directory not empty"},
	NotADirectory:           {"SSH_FX_NOT_A_DIRECTORY", "Not a directory"},
	InvalidFilename:         {"SSH_FX_INVALID_FILENAME", "Invalid filename"},
	LinkLoop:                {"SSH_FX_LINK_LOOP", "Link loop"},
	CannotDelete:            {"SSH_FX_CANNOT_DELETE", "Cannot delete"},
	InvalidParameter:        {"SSH_FX_INVALID_PARAMETER", "Invalid parameter"},
	FileIsADirectory:        {"SSH_FX_FILE_IS_A_DIRECTORY", "File is a directory"},
	ByteRangeLockConflict:   {"SSH_FX_BYTE_RANGE_LOCK_CONFLICT", "Byte range lock conflict"},
	ByteRangeLockRefused:    {"SSH_FX_BYTE_RANGE_LOCK_REFUSED", "Byte range lock refused"},
	DeletePending:           {"SSH_FX_DELETE_PENDING", "Delete pending"},
	FileCorrupt:             {"SSH_FX_FILE_CORRUPT", "File corrupt"},
	OwnerInvalid:            {"SSH_FX_OWNER_INVALID", "Owner invalid"},
	GroupInvalid:            {"SSH_FX_GROUP_INVALID", "Group invalid"},
	NoMatchingByteRangeLock: {"SSH_FX_NO_MATCHING_BYTE_RANGE_LOCK", "No matching byte range lock"},
}

// String returns the protocol constant name, e.g. "SSH_FX_NO_SUCH_FILE".
func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return fmt.Sprintf("SSH_FX_UNKNOWN(%d)", uint32(c))
}

// Message returns the canonical human readable text for c.
func (c Code) Message() string {
	if info, ok := codes[c]; ok {
		return info.message
	}
	return "Unknown error"
}

// Known reports whether c is a defined status code.
func (c Code) Known() bool {
	_, ok := codes[c]
	return ok
}

// Status is a decoded status body.
type Status struct {
	Code     Code
	Message  string
	Language string
}

// Err returns nil for OK and an *Error otherwise.
func (s *Status) Err() error {
	if s.Code == OK {
		return nil
	}
	return &Error{Code: s.Code, Message: s.Message}
}

// Write writes a status body with an empty language tag.
func Write(w *wire.Writer, code Code, message string) {
	w.WriteUint32(uint32(code))
	w.WriteString(message)
	w.WriteUint32(0)
}

// WriteOK writes the success status.
func WriteOK(w *wire.Writer) {
	Write(w, OK, OK.Message())
}

// WriteError writes the status for err using FromError and err's text.
// A nil err writes OK.
func WriteError(w *wire.Writer, err error) {
	if err == nil {
		WriteOK(w)
		return
	}
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		Write(w, se.Code, se.Message)
		return
	}
	Write(w, FromError(err), err.Error())
}

// Read decodes a status body. Older servers stop after the code or the
// message; the missing fields are left empty.
func Read(r *wire.Reader) (*Status, error) {
	s := &Status{Code: Code(r.ReadUint32())}
	if r.Err() == nil && r.Remaining() > 0 {
		s.Message = r.ReadString()
	}
	if r.Err() == nil && r.Remaining() > 0 {
		s.Language = r.ReadString()
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Error is a non-OK status carried as a Go error.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.Message()
	}
	return fmt.Sprintf("sftp: %s (%s)", msg, e.Code)
}

// Is lets errors.Is match *Error against the io/fs sentinels and against
// another *Error with the same Code.
func (e *Error) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.Code == NoSuchFile || e.Code == NoSuchPath
	case fs.ErrPermission:
		return e.Code == PermissionDenied || e.Code == WriteProtect
	case fs.ErrExist:
		return e.Code == FileAlreadyExists
	case io.EOF:
		return e.Code == EOF
	}
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// FromError maps a Go error onto the closest status code. nil maps to OK
// and anything unrecognised to Failure.
func FromError(err error) Code {
	var se *Error
	switch {
	case err == nil:
		return OK
	case errors.As(err, &se):
		return se.Code
	case errors.Is(err, io.EOF):
		return EOF
	case errors.Is(err, fs.ErrNotExist):
		return NoSuchFile
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, fs.ErrExist):
		return FileAlreadyExists
	case errors.Is(err, os.ErrInvalid):
		return InvalidParameter
	default:
		return Failure
	}
}
