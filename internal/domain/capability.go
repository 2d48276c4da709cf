package domain

type Capability string

const (
	CapManageEmployees    Capability = "manage_employees"
	CapManageTemplates    Capability = "manage_templates"
	CapManageShifts       Capability = "manage_shifts"
	CapViewShifts         Capability = "view_shifts"
	CapRescheduleAppt     Capability = "reschedule_appointment"
	CapManageAppointments Capability = "manage_appointments"
	CapManageReference    Capability = "manage_reference"
	CapApproveLeave       Capability = "approve_leave"
	CapRequestLeave       Capability = "request_leave"
)

// CapabilitySet 在认证时根据角色计算一次，之后随请求上下文传递，
// 各个 handler 不再根据角色临时推导权限
type CapabilitySet map[Capability]bool

func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}

func CapabilitiesForRole(role Role) CapabilitySet {
	set := CapabilitySet{
		CapViewShifts:   true,
		CapRequestLeave: true,
	}

	switch role {
	case RoleDoctor, RoleNurse:
		// 只有基础能力
	case RoleScheduler:
		set[CapManageShifts] = true
		set[CapRescheduleAppt] = true
		set[CapManageAppointments] = true
	case RoleAdmin:
		set[CapManageEmployees] = true
		set[CapManageTemplates] = true
		set[CapManageShifts] = true
		set[CapRescheduleAppt] = true
		set[CapManageAppointments] = true
		set[CapManageReference] = true
		set[CapApproveLeave] = true
	}

	return set
}
