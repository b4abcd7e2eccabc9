package guitex

import "fmt"

// idSpace tags which allocator a TextureID belongs to.
type idSpace uint8

const (
	spaceManaged idSpace = iota
	spaceUser
)

// TextureID identifies a texture known to a TexturePool.
//
// There are two disjoint identifier spaces:
//   - Managed ids are assigned by the GUI framework and only ever reach the
//     pool through a TexturesDelta.
//   - User ids are assigned by the pool itself when a native texture is
//     registered, starting at 0 and never reused.
//
// The zero value is Managed(0).
type TextureID struct {
	space idSpace
	n     uint64
}

// Managed returns the framework-assigned texture id n.
func Managed(n uint64) TextureID { return TextureID{space: spaceManaged, n: n} }

// User returns the pool-assigned native texture id n.
func User(n uint64) TextureID { return TextureID{space: spaceUser, n: n} }

// IsManaged reports whether id belongs to the framework's id space.
func (id TextureID) IsManaged() bool { return id.space == spaceManaged }

// IsUser reports whether id belongs to the pool's native id space.
func (id TextureID) IsUser() bool { return id.space == spaceUser }

// Value returns the numeric part of id, without its tag.
func (id TextureID) Value() uint64 { return id.n }

// String returns "Managed(n)" or "User(n)".
func (id TextureID) String() string {
	switch id.space {
	case spaceManaged:
		return fmt.Sprintf("Managed(%d)", id.n)
	case spaceUser:
		return fmt.Sprintf("User(%d)", id.n)
	default:
		return fmt.Sprintf("Unknown(%d)", id.n)
	}
}
