package user

import "strings"

// Section is an area of the system gated by role.
type Section string

const (
	SectionUsers          Section = "users"
	SectionStudents       Section = "alumnos"
	SectionJustifications Section = "justificantes"
	SectionEntries        Section = "entradas-salidas"
)

var sectionRoles = map[Section][]Role{
	SectionUsers:          {RoleDireccion},
	SectionStudents:       {RoleDireccion, RoleTrabajoSocial},
	SectionEntries:        {RoleDireccion, RolePrefecto, RoleTrabajoSocial, RoleMaestro},
	SectionJustifications: Roles,
}

// Can reports whether role r may manage section s.
func (r Role) Can(s Section) bool {
	r = Role(strings.ToLower(string(r)))
	for _, allowed := range sectionRoles[s] {
		if allowed == r {
			return true
		}
	}
	return false
}

// RolesFor lists the roles allowed to manage s.
func RolesFor(s Section) []Role {
	return sectionRoles[s]
}
