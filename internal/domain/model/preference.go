package model

// SignatureNamesKey is the preference key holding report signature names.
const SignatureNamesKey = "spps_signature_names"

// SignatureNames are the names printed in the signature block of reports.
type SignatureNames struct {
	Principal   string `json:"principal"`
	Counselor   string `json:"counselor"`
	DutyTeacher string `json:"duty_teacher"`
}

// IsZero reports whether no name is set.
func (s SignatureNames) IsZero() bool {
	return s.Principal == "" && s.Counselor == "" && s.DutyTeacher == ""
}
