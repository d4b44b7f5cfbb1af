package models

import "time"

const RequestTable = "lab_requests"

// RequestStatus is the closed set of borrow request states.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	StatusReturned RequestStatus = "returned"
)

// transitions is the full lifecycle table: pending → approved|rejected,
// approved → returned. rejected and returned are terminal.
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusReturned},
}

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusReturned:
		return true
	}
	return false
}

func (s RequestStatus) Terminal() bool { return len(transitions[s]) == 0 }

func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// BorrowRequest tracks one student request for a quantity of a component.
// Quantity is immutable after creation; inventory is only touched at approval
// (reserve) and return (release), never at submission.
type BorrowRequest struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   string `gorm:"type:uuid;index;not null" json:"studentId"`
	StudentName string `gorm:"size:255;not null" json:"studentName"`
	RollNo      string `gorm:"size:40" json:"rollNo"`
	Mobile      string `gorm:"size:20" json:"mobile"`

	ComponentID   string `gorm:"type:uuid;index;not null" json:"componentId"`
	ComponentName string `gorm:"size:200;not null" json:"componentName"`
	Quantity      int    `gorm:"not null" json:"quantity"`

	RequestDate time.Time     `gorm:"index;not null" json:"requestDate"`
	DueDate     time.Time     `gorm:"index;not null" json:"dueDate"`
	Status      RequestStatus `gorm:"size:20;index;not null;default:'pending'" json:"status"`

	ApprovedBy string     `gorm:"size:255" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	Notes      string     `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BorrowRequest) TableName() string { return RequestTable }
