package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateEmployeeMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type AppointmentRescheduledMailData struct {
	PatientName  string `json:"patientName"`
	OldStartTime string `json:"oldStartTime"`
	NewStartTime string `json:"newStartTime"`
	DoctorName   string `json:"doctorName"`
	RoomName     string `json:"roomName"`
}

type ShiftCancelledMailData struct {
	FullName  string `json:"fullName"`
	WorkDate  string `json:"workDate"`
	ShiftName string `json:"shiftName"`
	Notes     string `json:"notes"`
}
