package appointment

import "sinergia_backend/internal/common"

// CanManageMeeting reports whether p may create or delete the meeting of a:
// admins, and the therapist assigned to the appointment.
func CanManageMeeting(p common.Principal, a *Appointment) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == common.RoleTherapist && p.UserID == a.TherapistID
}

// CanViewMeeting reports whether p may read the meeting link of a. The
// assigned patient may view in addition to everyone who can manage it.
func CanViewMeeting(p common.Principal, a *Appointment) bool {
	if CanManageMeeting(p, a) {
		return true
	}
	return p.Role == common.RolePatient && p.UserID == a.PatientID
}
