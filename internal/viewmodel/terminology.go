package viewmodel

// Terminology is the per-role vocabulary used in labels and empty messages.
type Terminology struct {
	Singular string
	Plural   string
	Offering string // what the role sells: course, plan, slot
	Booking  string // what a purchase is called
}

var roleTerminology = map[string]Terminology{
	RoleAcademy: {Singular: "academy", Plural: "academies", Offering: "course", Booking: "enrollment"},
	RoleGym:     {Singular: "gym", Plural: "gyms", Offering: "plan", Booking: "membership"},
	RoleTurf:    {Singular: "turf", Plural: "turfs", Offering: "slot", Booking: "booking"},
}

// RoleTerminology returns the vocabulary for a role. Unknown roles fall back
// to the academy set, matching NormalizeRole.
func RoleTerminology(role string) Terminology {
	if t, ok := roleTerminology[NormalizeRole(role)]; ok {
		return t
	}
	return roleTerminology[RoleAcademy]
}
