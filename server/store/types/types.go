// Package types provides data types shared between the relay and the
// database adapters.
package types

import (
	"time"
)

// StoreError satisfies Error interface but allows constant values for
// direct comparison.
type StoreError string

func (s StoreError) Error() string {
	return string(s)
}

const (
	// ErrInternal means DB or other internal failure.
	ErrInternal = StoreError("internal")
	// ErrNotFound means the requested document was not found.
	ErrNotFound = StoreError("not found")
	// ErrMalformed means the request cannot be processed as given.
	ErrMalformed = StoreError("malformed")
	// ErrPermissionDenied means the operation is not allowed for the caller.
	ErrPermissionDenied = StoreError("denied")
	// ErrUnsupported means an operation is not supported by the adapter.
	ErrUnsupported = StoreError("unsupported")
)

// Subject roles. Every authenticated subject is either a patient or
// a doctor.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// ValidRole checks if the given string names a known subject role.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor
}

// CounterRole returns the opposite party's role.
func CounterRole(role string) string {
	if role == RolePatient {
		return RoleDoctor
	}
	return RolePatient
}

// LiveQuery is a single live query against the document store. Updates
// delivers the full current result set after every reported change (never
// a diff) until the query is cancelled; the channel is closed afterwards.
type LiveQuery interface {
	// Updates is the delivery channel. Each value is the full current
	// result: a single document or a slice of documents.
	Updates() <-chan any

	// Cancel stops the query and releases its resources. Safe to call
	// multiple times, but the relay guarantees a single call per handle.
	Cancel()
}

// LatestMessage is the per-chat summary of the most recent message. It is
// denormalized into the chat document so chat lists render without
// fetching threads.
type LatestMessage struct {
	Text string    `json:"text,omitempty" firestore:"text" bson:"text"`
	Kind string    `json:"kind,omitempty" firestore:"kind" bson:"kind"`
	From string    `json:"from,omitempty" firestore:"from" bson:"from"`
	Time time.Time `json:"time,omitempty" firestore:"time" bson:"time"`
	// Seen flags, one per party role.
	PatientSeen bool `json:"patientSeen" firestore:"patientSeen" bson:"patientSeen"`
	DoctorSeen  bool `json:"doctorSeen" firestore:"doctorSeen" bson:"doctorSeen"`
}

// Chat is one patient-doctor conversation.
type Chat struct {
	Id      string        `json:"id,omitempty" firestore:"-" bson:"_id"`
	Patient string        `json:"patient,omitempty" firestore:"patient" bson:"patient"`
	Doctor  string        `json:"doctor,omitempty" firestore:"doctor" bson:"doctor"`
	Latest  LatestMessage `json:"latest" firestore:"latest" bson:"latest"`
}

// Message kinds. System messages are generated by the server, for example
// when an appointment is created.
const (
	KindText   = "text"
	KindImage  = "image"
	KindSystem = "system"
)

// Message is a single chat message.
type Message struct {
	Id      string    `json:"id,omitempty" firestore:"-" bson:"_id"`
	Chat    string    `json:"chat,omitempty" firestore:"chat" bson:"chat"`
	Kind    string    `json:"kind,omitempty" firestore:"kind" bson:"kind"`
	Content string    `json:"content,omitempty" firestore:"content" bson:"content"`
	From    string    `json:"from,omitempty" firestore:"from" bson:"from"`
	Time    time.Time `json:"time,omitempty" firestore:"time" bson:"time"`
}

// Appointment is a scheduled patient-doctor meeting.
type Appointment struct {
	Id      string    `json:"id,omitempty" firestore:"-" bson:"_id"`
	Patient string    `json:"patient,omitempty" firestore:"patient" bson:"patient"`
	Doctor  string    `json:"doctor,omitempty" firestore:"doctor" bson:"doctor"`
	Time    time.Time `json:"time,omitempty" firestore:"time" bson:"time"`
	Note    string    `json:"note,omitempty" firestore:"note" bson:"note"`
	Status  string    `json:"status,omitempty" firestore:"status" bson:"status"`
}
