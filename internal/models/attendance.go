package models

// Attribute names of a stored attendance record.
const (
	FieldID                   = "id"
	FieldRecordID             = "record_id"
	FieldParentContact        = "parent_contact"
	FieldParentWhatsAppNumber = "parent_whatsapp_number"
	FieldStudentName          = "student_name"
	FieldCourseName           = "course_name"
	FieldStatus               = "status"
)

// AttendanceEvent is the transient input of one notification.
// It lives for a single invocation and is never stored.
type AttendanceEvent struct {
	RecordID      string `json:"record_id,omitempty"`
	ParentContact string `json:"parent_contact"`
	StudentName   string `json:"student_name"`
	CourseName    string `json:"course_name"`
	Status        string `json:"status"`
}

// AttendanceDocument is an attendance record as written by clients.
// Older mobile clients store the contact as parent_whatsapp_number.
type AttendanceDocument struct {
	ID                   string `json:"id,omitempty"`
	RecordID             string `json:"record_id,omitempty"`
	ParentContact        string `json:"parent_contact,omitempty"`
	ParentWhatsAppNumber string `json:"parent_whatsapp_number,omitempty"`
	StudentName          string `json:"student_name"`
	CourseName           string `json:"course_name"`
	Status               string `json:"status"`
}

// DocumentFromFields builds a document from a flat attribute map.
// Missing keys become empty strings.
func DocumentFromFields(fields map[string]string) AttendanceDocument {
	return AttendanceDocument{
		ID:                   fields[FieldID],
		RecordID:             fields[FieldRecordID],
		ParentContact:        fields[FieldParentContact],
		ParentWhatsAppNumber: fields[FieldParentWhatsAppNumber],
		StudentName:          fields[FieldStudentName],
		CourseName:           fields[FieldCourseName],
		Status:               fields[FieldStatus],
	}
}

// ToEvent converts the document to an AttendanceEvent.
// parent_contact wins over parent_whatsapp_number; values are not trimmed.
func (d AttendanceDocument) ToEvent() AttendanceEvent {
	contact := d.ParentContact
	if contact == "" {
		contact = d.ParentWhatsAppNumber
	}

	recordID := d.RecordID
	if recordID == "" {
		recordID = d.ID
	}

	return AttendanceEvent{
		RecordID:      recordID,
		ParentContact: contact,
		StudentName:   d.StudentName,
		CourseName:    d.CourseName,
		Status:        d.Status,
	}
}
