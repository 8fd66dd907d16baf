package domain

type Role string

const (
	RoleManager          Role = "manager"
	RoleAssistantManager Role = "assistant_manager"
	RoleFrontDesk        Role = "front_desk"
	RoleHousekeeping     Role = "housekeeping"
)

// Management reports whether the role carries the elevated capability used
// for deletes, group deletes and reopening cancelled reservations.
// Management roles also bypass the shift guard.
func (r Role) Management() bool {
	return r == RoleManager || r == RoleAssistantManager
}

// Staff is a hotel employee as stored in the identity subsystem.
type Staff struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// Actor identifies who is performing an operation. Every engine operation
// takes an explicit Actor instead of relying on ambient request context,
// which keeps permission checks and audit authorship deterministic.
type Actor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Actor converts a staff record into an acting identity.
func (s *Staff) Actor() Actor {
	return Actor{ID: s.ID, Name: s.Name, Role: s.Role}
}

// StaffRepository resolves staff identity and role class at the request
// boundary.
type StaffRepository interface {
	// GetByID returns the staff member or a NotFoundError.
	GetByID(id int) (*Staff, error)
}
