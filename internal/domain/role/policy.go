package role

// Role constants, assigned server-side and read-only on the client.
const (
	Admin    = "admin"
	Spiess   = "spiess"
	Vorstand = "vorstand"
	Mitglied = "mitglied"
)

// ValidRoles contains all roles the backend may assign to a user.
var ValidRoles = []string{Admin, Spiess, Vorstand}

// Capabilities is the full set of capability flags a role derives. Every
// panel and navigation entry consults these flags; no view re-derives
// permissions from the role string.
type Capabilities struct {
	ManageMembers  bool
	ManageFines    bool
	ViewFineTypes  bool
	EditFineTypes  bool
	ManageUsers    bool
	ViewDashboard  bool
	ViewStatistics bool
	ViewAuditLog   bool
}

// PolicyFor maps a role to its capability set. Unknown or empty roles derive
// nothing.
// INVARIANT: Pure function, no side effects
func PolicyFor(r string) Capabilities {
	switch r {
	case Admin:
		return Capabilities{
			ManageMembers:  true,
			ManageFines:    true,
			ViewFineTypes:  true,
			EditFineTypes:  true,
			ManageUsers:    true,
			ViewDashboard:  true,
			ViewStatistics: true,
			ViewAuditLog:   true,
		}
	case Spiess:
		return Capabilities{
			ManageMembers:  true,
			ManageFines:    true,
			ViewFineTypes:  true,
			EditFineTypes:  true,
			ViewDashboard:  true,
			ViewStatistics: true,
		}
	case Vorstand:
		return Capabilities{
			ManageMembers:  true,
			ViewFineTypes:  true,
			ViewStatistics: true,
		}
	default:
		return Capabilities{}
	}
}

// DefaultPath returns the landing path for a role. The root path and every
// unmatched path resolve here instead of a 404. Roles without any capability
// land on the login page; sending them to a guarded panel would bounce back
// here forever.
func DefaultPath(r string) string {
	caps := PolicyFor(r)
	switch {
	case r == Vorstand:
		return "/members"
	case caps.ViewDashboard:
		return "/dashboard"
	default:
		return "/login"
	}
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Path  string
	Label string
}

// NavItems returns the navigation entries visible to a role, derived from the
// capability table.
func NavItems(r string) []NavItem {
	caps := PolicyFor(r)
	var items []NavItem
	if caps.ViewDashboard {
		items = append(items, NavItem{Path: "/dashboard", Label: "Übersicht"})
	}
	if caps.ManageMembers {
		items = append(items, NavItem{Path: "/members", Label: "Mitglieder"})
	}
	if caps.ManageFines {
		items = append(items, NavItem{Path: "/fines", Label: "Strafen"})
	}
	if caps.ViewFineTypes {
		items = append(items, NavItem{Path: "/fine-types", Label: "Strafenarten"})
	}
	if caps.ViewStatistics {
		items = append(items, NavItem{Path: "/statistics", Label: "Statistik"})
	}
	if caps.ManageUsers {
		items = append(items, NavItem{Path: "/users", Label: "Benutzer"})
	}
	if caps.ViewAuditLog {
		items = append(items, NavItem{Path: "/audit-log", Label: "Protokoll"})
	}
	return items
}

// IsValid reports whether r is a role the backend may assign.
func IsValid(r string) bool {
	for _, v := range ValidRoles {
		if v == r {
			return true
		}
	}
	return false
}
