package models

import (
	"errors"
	"fmt"
	"strings"
)

// OwnerKind enumerates the tables a File may belong to.
type OwnerKind uint8

const (
	ownerKindInvalid OwnerKind = iota
	OwnerKindCourse
	OwnerKindUser
	OwnerKindTask
)

var (
	ErrUnknownOwnerType = errors.New("unknown owner type")
	ErrInvalidOwnerID   = errors.New("owner id must be positive")
)

// OwnerKinds lists every valid kind.
var OwnerKinds = []OwnerKind{OwnerKindCourse, OwnerKindUser, OwnerKindTask}

// String returns the canonical fileable_type tag.
func (k OwnerKind) String() string {
	switch k {
	case OwnerKindCourse:
		return "Course"
	case OwnerKindUser:
		return "User"
	case OwnerKindTask:
		return "Task"
	default:
		return ""
	}
}

// ParseOwnerType maps a tag to its kind, ignoring case.
func ParseOwnerType(tag string) (OwnerKind, error) {
	tag = strings.TrimSpace(tag)
	for _, k := range OwnerKinds {
		if strings.EqualFold(tag, k.String()) {
			return k, nil
		}
	}
	return ownerKindInvalid, fmt.Errorf("%w: %q", ErrUnknownOwnerType, tag)
}

// OwnerRef identifies the row owning a File: Course(id) | User(id) | Task(id).
// The zero value is invalid.
type OwnerRef struct {
	kind OwnerKind
	id   uint64
}

func CourseOwner(id uint64) OwnerRef { return OwnerRef{kind: OwnerKindCourse, id: id} }

func UserOwner(id uint64) OwnerRef { return OwnerRef{kind: OwnerKindUser, id: id} }

func TaskOwner(id uint64) OwnerRef { return OwnerRef{kind: OwnerKindTask, id: id} }

// NewOwnerRef validates kind and id.
func NewOwnerRef(kind OwnerKind, id uint64) (OwnerRef, error) {
	if kind.String() == "" {
		return OwnerRef{}, ErrUnknownOwnerType
	}
	if id == 0 {
		return OwnerRef{}, ErrInvalidOwnerID
	}
	return OwnerRef{kind: kind, id: id}, nil
}

// ParseOwnerRef builds a reference from a tag and id.
func ParseOwnerRef(tag string, id uint64) (OwnerRef, error) {
	kind, err := ParseOwnerType(tag)
	if err != nil {
		return OwnerRef{}, err
	}
	return NewOwnerRef(kind, id)
}

func (o OwnerRef) Kind() OwnerKind { return o.kind }

func (o OwnerRef) ID() uint64 { return o.id }

// Type returns the canonical fileable_type tag.
func (o OwnerRef) Type() string { return o.kind.String() }

// Valid reports whether o names a known kind and a non-zero id.
func (o OwnerRef) Valid() bool { return o.kind.String() != "" && o.id != 0 }

// Model returns an empty instance of the owning model, for existence queries.
func (o OwnerRef) Model() (any, error) {
	switch o.kind {
	case OwnerKindCourse:
		return &Course{}, nil
	case OwnerKindUser:
		return &User{}, nil
	case OwnerKindTask:
		return &Task{}, nil
	default:
		return nil, ErrUnknownOwnerType
	}
}

func (o OwnerRef) String() string {
	if !o.Valid() {
		return "invalid owner"
	}
	return fmt.Sprintf("%s(%d)", o.Type(), o.id)
}
