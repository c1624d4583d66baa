package access

// Owned is implemented by records that belong to exactly one subject.
type Owned interface {
	OwnerSubjectID() int64
}

// IsOwner reports whether the record belongs to the caller. A nil record is
// owned by nobody.
func IsOwner(id Identity, record Owned) bool {
	if record == nil {
		return false
	}
	return record.OwnerSubjectID() == id.SubjectID
}

func CanViewConfidential(id Identity, record Owned) bool {
	return id.IsPrivileged() || IsOwner(id, record)
}

func CanModifyEmployee(id Identity, record Owned) bool {
	return id.IsPrivileged() || IsOwner(id, record)
}

func CanDecideAbsence(id Identity) bool {
	return id.IsPrivileged()
}

func CanListAllAbsences(id Identity) bool {
	return id.IsPrivileged()
}
