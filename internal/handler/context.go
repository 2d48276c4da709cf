package handler

type ContextKey string

var (
	RoleCtxKey         ContextKey = "role"
	SubCtxKey          ContextKey = "sub"
	CapabilitiesCtxKey ContextKey = "capabilities"
	MyInfoCtx          ContextKey = "myInfo"
	EmployeeInfoCtx    ContextKey = "employeeInfo"
	WorkShiftTplCtx    ContextKey = "workShiftTemplate"
	ShiftInfoCtx       ContextKey = "shiftInfo"
	AppointmentCtx     ContextKey = "appointment"
	LeaveRequestCtx    ContextKey = "leaveRequest"
)
