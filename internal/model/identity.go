package model

// Identity is the result of resolving an opaque subject id from the
// identity provider against doctor and patient records. One subject can
// match both: staff members may also be patients of the clinic. The doctor
// record decides the role whenever it exists; the patient record is kept
// alongside so messaging can pick the patient persona when no explicit
// conversation target is given.
type Identity struct {
	Subject string   `json:"subject"`
	Role    Role     `json:"role"`
	Doctor  *Doctor  `json:"doctor,omitempty"`
	Patient *Patient `json:"patient,omitempty"`
}

// Authenticated reports whether the identity provider supplied a subject.
func (i *Identity) Authenticated() bool {
	return i != nil && i.Subject != ""
}

// IsStaff reports whether the subject resolved to a doctor record.
func (i *Identity) IsStaff() bool {
	return i != nil && i.Doctor != nil
}

// IsPatient reports whether the subject resolved to a patient record.
func (i *Identity) IsPatient() bool {
	return i != nil && i.Patient != nil
}
