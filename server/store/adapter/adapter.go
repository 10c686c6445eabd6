// Package adapter contains the interfaces to be implemented by the
// document store adapter.
package adapter

import (
	"context"
	"encoding/json"

	t "github.com/Black3800/zeeu-api/server/store/types"
)

// Adapter is the interface that must be implemented by a document store
// adapter. The current schema supports a single connection by store type.
//
// Watch methods return a live query delivering the full current result
// set after every reported change. The ctx passed to a Watch bounds the
// life of the query in addition to LiveQuery.Cancel.
type Adapter interface {
	// Open and configure the adapter.
	Open(jsonconf json.RawMessage) error
	// Close the underlying connection(s).
	Close() error
	// IsOpen checks if the adapter is ready for use.
	IsOpen() bool
	// GetName returns the name of the adapter.
	GetName() string

	// User profiles. Profile documents are opaque to the relay apart
	// from the fields the adapters index on (uid, role, active).
	UserGet(ctx context.Context, uid string) (map[string]any, error)
	UserReplace(ctx context.Context, uid string, profile map[string]any) error
	UserSetActive(ctx context.Context, uid string, active bool) error
	UserWatch(ctx context.Context, uid string) (t.LiveQuery, error)

	// Doctor directory, optionally filtered by specialty.
	DoctorsAll(ctx context.Context, specialty string) ([]map[string]any, error)

	// Appointments.
	AppointmentsForUser(ctx context.Context, uid, role string) ([]t.Appointment, error)
	AppointmentsWatch(ctx context.Context, uid, role string) (t.LiveQuery, error)
	AppointmentAdd(ctx context.Context, appt *t.Appointment) (string, error)

	// Chats.
	ChatsForUser(ctx context.Context, uid, role string) ([]t.Chat, error)
	ChatsWatch(ctx context.Context, uid, role string) (t.LiveQuery, error)
	// ChatFindOrCreate returns the id of the chat between the two
	// parties, creating the chat document if it does not exist yet.
	ChatFindOrCreate(ctx context.Context, patient, doctor string) (string, error)
	ChatUpdateOnMessage(ctx context.Context, chat string, latest *t.LatestMessage) error
	ChatSetSeen(ctx context.Context, chat, role string) error

	// Chat messages.
	MessagesForChat(ctx context.Context, chat string) ([]t.Message, error)
	MessagesWatch(ctx context.Context, chat string) (t.LiveQuery, error)
	MessageAdd(ctx context.Context, msg *t.Message) (string, error)
}
