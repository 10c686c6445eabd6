// Package mongodb is a document store adapter for MongoDB. Live queries
// are implemented as a change stream trigger plus a full re-query, so
// every delivery still carries the complete current result set.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"

	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Black3800/zeeu-api/server/store"
	t "github.com/Black3800/zeeu-api/server/store/types"
)

// adapter holds MongoDB connection data.
type adapter struct {
	conn   *mdb.Client
	db     *mdb.Database
	dbName string
}

const (
	defaultHost     = "localhost:27017"
	defaultDatabase = "zeeu"

	adapterName = "mongodb"

	collUsers        = "users"
	collChats        = "chats"
	collMessages     = "messages"
	collAppointments = "appointments"
)

// See https://godoc.org/go.mongodb.org/mongo-driver/mongo/options#ClientOptions for explanations.
type configType struct {
	Addresses interface{} `json:"addresses,omitempty"`

	Database   string `json:"database,omitempty"`
	ReplicaSet string `json:"replica_set,omitempty"`

	AuthSource string `json:"auth_source,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Open initializes the mongodb session.
func (a *adapter) Open(jsonconf json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter mongodb is already connected")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("adapter mongodb failed to parse config: " + err.Error())
	}

	var opts mdbopts.ClientOptions

	if config.Addresses == nil {
		opts.SetHosts([]string{defaultHost})
	} else if host, ok := config.Addresses.(string); ok {
		opts.SetHosts([]string{host})
	} else if ihosts, ok := config.Addresses.([]interface{}); ok && len(ihosts) > 0 {
		hosts := make([]string, 0, len(ihosts))
		for _, ih := range ihosts {
			h, ok := ih.(string)
			if !ok || h == "" {
				return errors.New("adapter mongodb invalid config.Addresses value")
			}
			hosts = append(hosts, h)
		}
		opts.SetHosts(hosts)
	} else {
		return errors.New("adapter mongodb failed to parse config.Addresses")
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	// Change streams require a replica set.
	if config.ReplicaSet != "" {
		opts.SetReplicaSet(config.ReplicaSet)
	}

	if config.Username != "" {
		var passwordSet bool
		if config.AuthSource == "" {
			config.AuthSource = "admin"
		}
		if config.Password != "" {
			passwordSet = true
		}
		opts.SetAuth(
			mdbopts.Credential{
				AuthMechanism: "SCRAM-SHA-256",
				AuthSource:    config.AuthSource,
				Username:      config.Username,
				Password:      config.Password,
				PasswordSet:   passwordSet,
			})
	}

	a.conn, err = mdb.Connect(context.Background(), &opts)
	if err != nil {
		return err
	}
	a.db = a.conn.Database(a.dbName)

	return nil
}

// Close the adapter.
func (a *adapter) Close() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Disconnect(context.Background())
	a.conn = nil
	return err
}

// IsOpen checks if the adapter is ready for use.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetName returns the name of this adapter.
func (a *adapter) GetName() string {
	return adapterName
}

// liveQuery delivers a fresh query result on every change stream event.
type liveQuery struct {
	updates chan any
	cancel  context.CancelFunc
	done    chan struct{}
}

func (lq *liveQuery) Updates() <-chan any {
	return lq.updates
}

// Cancel stops the stream. Does not return until delivery has stopped
// and the updates channel is closed.
func (lq *liveQuery) Cancel() {
	lq.cancel()
	<-lq.done
}

// watchCollection opens a change stream on coll and re-runs query on
// every event. The initial snapshot is delivered before the first event.
func (a *adapter) watchCollection(ctx context.Context, coll *mdb.Collection,
	query func(ctx context.Context) (any, error)) (t.LiveQuery, error) {

	ctx, cancel := context.WithCancel(ctx)
	stream, err := coll.Watch(ctx, mdb.Pipeline{})
	if err != nil {
		cancel()
		return nil, err
	}

	lq := &liveQuery{
		updates: make(chan any, 8),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer func() {
			stream.Close(context.Background())
			close(lq.updates)
			close(lq.done)
		}()
		for {
			payload, err := query(ctx)
			if err != nil {
				return
			}
			select {
			case lq.updates <- payload:
			case <-ctx.Done():
				return
			}
			// Block until the collection changes again.
			if !stream.Next(ctx) {
				return
			}
		}
	}()

	return lq, nil
}

// UserGet fetches a single user profile.
func (a *adapter) UserGet(ctx context.Context, uid string) (map[string]any, error) {
	var profile map[string]any
	err := a.db.Collection(collUsers).FindOne(ctx, b.M{"_id": uid}).Decode(&profile)
	if err == mdb.ErrNoDocuments {
		return nil, t.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	delete(profile, "_id")
	profile["uid"] = uid
	return profile, nil
}

// UserReplace overwrites the profile document.
func (a *adapter) UserReplace(ctx context.Context, uid string, profile map[string]any) error {
	delete(profile, "uid")
	opts := mdbopts.Replace().SetUpsert(true)
	_, err := a.db.Collection(collUsers).ReplaceOne(ctx, b.M{"_id": uid}, profile, opts)
	return err
}

// UserSetActive flips the profile's active flag.
func (a *adapter) UserSetActive(ctx context.Context, uid string, active bool) error {
	opts := mdbopts.Update().SetUpsert(true)
	_, err := a.db.Collection(collUsers).UpdateOne(ctx,
		b.M{"_id": uid}, b.M{"$set": b.M{"active": active}}, opts)
	return err
}

// UserWatch streams the full profile document on every change.
func (a *adapter) UserWatch(ctx context.Context, uid string) (t.LiveQuery, error) {
	return a.watchCollection(ctx, a.db.Collection(collUsers), func(ctx context.Context) (any, error) {
		profile, err := a.UserGet(ctx, uid)
		if err == t.ErrNotFound {
			return map[string]any{}, nil
		}
		return profile, err
	})
}

// DoctorsAll returns the doctor directory, optionally filtered by
// specialty.
func (a *adapter) DoctorsAll(ctx context.Context, specialty string) ([]map[string]any, error) {
	filter := b.M{"role": t.RoleDoctor}
	if specialty != "" {
		filter["specialty"] = specialty
	}

	cur, err := a.db.Collection(collUsers).Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err = cur.All(ctx, &raw); err != nil {
		return nil, err
	}
	for _, profile := range raw {
		if id, ok := profile["_id"].(string); ok {
			profile["uid"] = id
		}
		delete(profile, "_id")
	}
	if raw == nil {
		raw = []map[string]any{}
	}
	return raw, nil
}

func roleField(role string) string {
	if role == t.RoleDoctor {
		return "doctor"
	}
	return "patient"
}

// AppointmentsForUser returns the appointment set for one party.
func (a *adapter) AppointmentsForUser(ctx context.Context, uid, role string) ([]t.Appointment, error) {
	opts := mdbopts.Find().SetSort(b.D{{Key: "time", Value: 1}})
	cur, err := a.db.Collection(collAppointments).Find(ctx, b.M{roleField(role): uid}, opts)
	if err != nil {
		return nil, err
	}

	appts := []t.Appointment{}
	err = cur.All(ctx, &appts)
	return appts, err
}

// AppointmentsWatch streams the full appointment set on every change.
func (a *adapter) AppointmentsWatch(ctx context.Context, uid, role string) (t.LiveQuery, error) {
	return a.watchCollection(ctx, a.db.Collection(collAppointments), func(ctx context.Context) (any, error) {
		return a.AppointmentsForUser(ctx, uid, role)
	})
}

// AppointmentAdd creates an appointment document.
func (a *adapter) AppointmentAdd(ctx context.Context, appt *t.Appointment) (string, error) {
	if appt.Id == "" {
		appt.Id = store.Store.GetUidString()
	}
	_, err := a.db.Collection(collAppointments).InsertOne(ctx, appt)
	return appt.Id, err
}

// ChatsForUser returns the chat list for one party, latest activity
// first.
func (a *adapter) ChatsForUser(ctx context.Context, uid, role string) ([]t.Chat, error) {
	opts := mdbopts.Find().SetSort(b.D{{Key: "latest.time", Value: -1}})
	cur, err := a.db.Collection(collChats).Find(ctx, b.M{roleField(role): uid}, opts)
	if err != nil {
		return nil, err
	}

	chats := []t.Chat{}
	err = cur.All(ctx, &chats)
	return chats, err
}

// ChatsWatch streams the full chat list on every change.
func (a *adapter) ChatsWatch(ctx context.Context, uid, role string) (t.LiveQuery, error) {
	return a.watchCollection(ctx, a.db.Collection(collChats), func(ctx context.Context) (any, error) {
		return a.ChatsForUser(ctx, uid, role)
	})
}

// ChatFindOrCreate returns the id of the chat between the two parties,
// creating the chat document if absent.
func (a *adapter) ChatFindOrCreate(ctx context.Context, patient, doctor string) (string, error) {
	var chat t.Chat
	err := a.db.Collection(collChats).
		FindOne(ctx, b.M{"patient": patient, "doctor": doctor}).Decode(&chat)
	if err == nil {
		return chat.Id, nil
	}
	if err != mdb.ErrNoDocuments {
		return "", err
	}

	chat = t.Chat{Id: store.Store.GetUidString(), Patient: patient, Doctor: doctor}
	if _, err = a.db.Collection(collChats).InsertOne(ctx, &chat); err != nil {
		return "", err
	}
	return chat.Id, nil
}

// ChatUpdateOnMessage replaces the chat's latest-message summary.
func (a *adapter) ChatUpdateOnMessage(ctx context.Context, chat string, latest *t.LatestMessage) error {
	_, err := a.db.Collection(collChats).UpdateOne(ctx,
		b.M{"_id": chat}, b.M{"$set": b.M{"latest": latest}})
	return err
}

// ChatSetSeen marks the latest message as seen by the given role.
func (a *adapter) ChatSetSeen(ctx context.Context, chat, role string) error {
	_, err := a.db.Collection(collChats).UpdateOne(ctx,
		b.M{"_id": chat}, b.M{"$set": b.M{"latest." + roleField(role) + "Seen": true}})
	return err
}

// MessagesForChat returns the full message thread of one chat.
func (a *adapter) MessagesForChat(ctx context.Context, chat string) ([]t.Message, error) {
	opts := mdbopts.Find().SetSort(b.D{{Key: "time", Value: 1}})
	cur, err := a.db.Collection(collMessages).Find(ctx, b.M{"chat": chat}, opts)
	if err != nil {
		return nil, err
	}

	msgs := []t.Message{}
	err = cur.All(ctx, &msgs)
	return msgs, err
}

// MessagesWatch streams the full message thread on every change.
func (a *adapter) MessagesWatch(ctx context.Context, chat string) (t.LiveQuery, error) {
	return a.watchCollection(ctx, a.db.Collection(collMessages), func(ctx context.Context) (any, error) {
		return a.MessagesForChat(ctx, chat)
	})
}

// MessageAdd appends a message document.
func (a *adapter) MessageAdd(ctx context.Context, msg *t.Message) (string, error) {
	if msg.Id == "" {
		msg.Id = store.Store.GetUidString()
	}
	_, err := a.db.Collection(collMessages).InsertOne(ctx, msg)
	return msg.Id, err
}

func init() {
	store.RegisterAdapter(&adapter{})
}
