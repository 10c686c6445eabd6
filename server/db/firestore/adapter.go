// Package firestore is a document store adapter for Google Cloud
// Firestore. Live queries are served by native snapshot listeners.
package firestore

import (
	"context"
	"encoding/json"
	"errors"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Black3800/zeeu-api/server/store"
	t "github.com/Black3800/zeeu-api/server/store/types"
)

// adapter holds the Firestore connection.
type adapter struct {
	conn *fs.Client
}

const (
	adapterName = "firestore"

	collUsers        = "users"
	collChats        = "chats"
	collMessages     = "messages"
	collAppointments = "appointments"
)

type configType struct {
	ProjectID string `json:"project_id"`
	// Path to a service account credentials file. Falls back to
	// application default credentials when empty.
	CredentialsFile string `json:"credentials_file"`
}

// Open initializes the Firestore connection.
func (a *adapter) Open(jsonconf json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter firestore is already connected")
	}

	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("adapter firestore failed to parse config: " + err.Error())
	}
	if config.ProjectID == "" {
		return errors.New("adapter firestore missing project_id")
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	conn, err := fs.NewClient(context.Background(), config.ProjectID, opts...)
	if err != nil {
		return err
	}
	a.conn = conn

	return nil
}

// Close closes the underlying connection.
func (a *adapter) Close() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

// IsOpen returns true if the adapter is connected.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetName returns the name of this adapter.
func (a *adapter) GetName() string {
	return adapterName
}

// liveQuery pumps snapshot deliveries to a channel until cancelled.
type liveQuery struct {
	updates chan any
	cancel  context.CancelFunc
	done    chan struct{}
}

func (lq *liveQuery) Updates() <-chan any {
	return lq.updates
}

// Cancel stops the listener. Does not return until delivery has stopped
// and the updates channel is closed.
func (lq *liveQuery) Cancel() {
	lq.cancel()
	<-lq.done
}

// newLiveQuery spawns the pump goroutine. The next func produces the
// payload for one delivery; it returns an error to terminate the query.
func newLiveQuery(ctx context.Context, cancel context.CancelFunc, next func() (any, error)) *liveQuery {
	lq := &liveQuery{
		updates: make(chan any, 8),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer func() {
			close(lq.updates)
			close(lq.done)
		}()
		for {
			payload, err := next()
			if err != nil {
				return
			}
			select {
			case lq.updates <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return lq
}

// UserGet fetches a single user profile.
func (a *adapter) UserGet(ctx context.Context, uid string) (map[string]any, error) {
	doc, err := a.conn.Collection(collUsers).Doc(uid).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return nil, t.ErrNotFound
		}
		return nil, err
	}
	profile := doc.Data()
	profile["uid"] = doc.Ref.ID
	return profile, nil
}

// UserReplace overwrites the profile document.
func (a *adapter) UserReplace(ctx context.Context, uid string, profile map[string]any) error {
	delete(profile, "uid")
	_, err := a.conn.Collection(collUsers).Doc(uid).Set(ctx, profile)
	return err
}

// UserSetActive flips the profile's active flag without touching other
// fields.
func (a *adapter) UserSetActive(ctx context.Context, uid string, active bool) error {
	_, err := a.conn.Collection(collUsers).Doc(uid).Set(ctx,
		map[string]any{"active": active}, fs.MergeAll)
	return err
}

// UserWatch streams the full profile document on every change.
func (a *adapter) UserWatch(ctx context.Context, uid string) (t.LiveQuery, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := a.conn.Collection(collUsers).Doc(uid).Snapshots(ctx)

	return newLiveQuery(ctx, cancel, func() (any, error) {
		snap, err := iter.Next()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		if !snap.Exists() {
			return map[string]any{}, nil
		}
		profile := snap.Data()
		profile["uid"] = uid
		return profile, nil
	}), nil
}

// DoctorsAll returns the doctor directory, optionally filtered by
// specialty.
func (a *adapter) DoctorsAll(ctx context.Context, specialty string) ([]map[string]any, error) {
	q := a.conn.Collection(collUsers).Where("role", "==", t.RoleDoctor)
	if specialty != "" {
		q = q.Where("specialty", "==", specialty)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	doctors := make([]map[string]any, 0, 16)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		profile := doc.Data()
		profile["uid"] = doc.Ref.ID
		doctors = append(doctors, profile)
	}
	return doctors, nil
}

func roleField(role string) string {
	if role == t.RoleDoctor {
		return "doctor"
	}
	return "patient"
}

func (a *adapter) appointmentsQuery(uid, role string) fs.Query {
	return a.conn.Collection(collAppointments).
		Where(roleField(role), "==", uid).
		OrderBy("time", fs.Asc)
}

// AppointmentsForUser returns the appointment set for one party.
func (a *adapter) AppointmentsForUser(ctx context.Context, uid, role string) ([]t.Appointment, error) {
	docs, err := a.appointmentsQuery(uid, role).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToAppointments(docs)
}

// AppointmentsWatch streams the full appointment set on every change.
func (a *adapter) AppointmentsWatch(ctx context.Context, uid, role string) (t.LiveQuery, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := a.appointmentsQuery(uid, role).Snapshots(ctx)

	return newLiveQuery(ctx, cancel, func() (any, error) {
		snap, err := iter.Next()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		appts, err := docsToAppointments(docs)
		if err != nil {
			iter.Stop()
			return nil, err
		}
		return appts, nil
	}), nil
}

// AppointmentAdd creates an appointment document.
func (a *adapter) AppointmentAdd(ctx context.Context, appt *t.Appointment) (string, error) {
	if appt.Id == "" {
		appt.Id = store.Store.GetUidString()
	}
	_, err := a.conn.Collection(collAppointments).Doc(appt.Id).Create(ctx, appt)
	return appt.Id, err
}

func (a *adapter) chatsQuery(uid, role string) fs.Query {
	return a.conn.Collection(collChats).
		Where(roleField(role), "==", uid).
		OrderBy("latest.time", fs.Desc)
}

// ChatsForUser returns the chat list for one party, latest activity
// first.
func (a *adapter) ChatsForUser(ctx context.Context, uid, role string) ([]t.Chat, error) {
	docs, err := a.chatsQuery(uid, role).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToChats(docs)
}

// ChatsWatch streams the full chat list on every change.
func (a *adapter) ChatsWatch(ctx context.Context, uid, role string) (t.LiveQuery, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := a.chatsQuery(uid, role).Snapshots(ctx)

	return newLiveQuery(ctx, cancel, func() (any, error) {
		snap, err := iter.Next()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		chats, err := docsToChats(docs)
		if err != nil {
			iter.Stop()
			return nil, err
		}
		return chats, nil
	}), nil
}

// ChatFindOrCreate returns the id of the chat between the two parties,
// creating the chat document if absent.
func (a *adapter) ChatFindOrCreate(ctx context.Context, patient, doctor string) (string, error) {
	iter := a.conn.Collection(collChats).
		Where("patient", "==", patient).
		Where("doctor", "==", doctor).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == nil {
		return doc.Ref.ID, nil
	}
	if err != iterator.Done {
		return "", err
	}

	chat := &t.Chat{Id: store.Store.GetUidString(), Patient: patient, Doctor: doctor}
	if _, err = a.conn.Collection(collChats).Doc(chat.Id).Create(ctx, chat); err != nil {
		return "", err
	}
	return chat.Id, nil
}

// ChatUpdateOnMessage replaces the chat's latest-message summary.
func (a *adapter) ChatUpdateOnMessage(ctx context.Context, chat string, latest *t.LatestMessage) error {
	_, err := a.conn.Collection(collChats).Doc(chat).Update(ctx,
		[]fs.Update{{Path: "latest", Value: latest}})
	return err
}

// ChatSetSeen marks the latest message as seen by the given role.
func (a *adapter) ChatSetSeen(ctx context.Context, chat, role string) error {
	_, err := a.conn.Collection(collChats).Doc(chat).Update(ctx,
		[]fs.Update{{Path: "latest." + roleField(role) + "Seen", Value: true}})
	return err
}

func (a *adapter) messagesQuery(chat string) fs.Query {
	return a.conn.Collection(collMessages).
		Where("chat", "==", chat).
		OrderBy("time", fs.Asc)
}

// MessagesForChat returns the full message thread of one chat.
func (a *adapter) MessagesForChat(ctx context.Context, chat string) ([]t.Message, error) {
	docs, err := a.messagesQuery(chat).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToMessages(docs)
}

// MessagesWatch streams the full message thread on every change.
func (a *adapter) MessagesWatch(ctx context.Context, chat string) (t.LiveQuery, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := a.messagesQuery(chat).Snapshots(ctx)

	return newLiveQuery(ctx, cancel, func() (any, error) {
		snap, err := iter.Next()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			iter.Stop()
			return nil, err
		}
		msgs, err := docsToMessages(docs)
		if err != nil {
			iter.Stop()
			return nil, err
		}
		return msgs, nil
	}), nil
}

// MessageAdd appends a message document.
func (a *adapter) MessageAdd(ctx context.Context, msg *t.Message) (string, error) {
	if msg.Id == "" {
		msg.Id = store.Store.GetUidString()
	}
	_, err := a.conn.Collection(collMessages).Doc(msg.Id).Create(ctx, msg)
	return msg.Id, err
}

func docsToChats(docs []*fs.DocumentSnapshot) ([]t.Chat, error) {
	chats := make([]t.Chat, 0, len(docs))
	for _, doc := range docs {
		var chat t.Chat
		if err := doc.DataTo(&chat); err != nil {
			return nil, err
		}
		chat.Id = doc.Ref.ID
		chats = append(chats, chat)
	}
	return chats, nil
}

func docsToMessages(docs []*fs.DocumentSnapshot) ([]t.Message, error) {
	msgs := make([]t.Message, 0, len(docs))
	for _, doc := range docs {
		var msg t.Message
		if err := doc.DataTo(&msg); err != nil {
			return nil, err
		}
		msg.Id = doc.Ref.ID
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func docsToAppointments(docs []*fs.DocumentSnapshot) ([]t.Appointment, error) {
	appts := make([]t.Appointment, 0, len(docs))
	for _, doc := range docs {
		var appt t.Appointment
		if err := doc.DataTo(&appt); err != nil {
			return nil, err
		}
		appt.Id = doc.Ref.ID
		appts = append(appts, appt)
	}
	return appts, nil
}

func init() {
	store.RegisterAdapter(&adapter{})
}
