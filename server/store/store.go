// Package store provides methods for registering and accessing document
// store adapters.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Black3800/zeeu-api/server/store/adapter"
	"github.com/Black3800/zeeu-api/server/store/types"
)

var adp adapter.Adapter
var availableAdapters = make(map[string]adapter.Adapter)

// Unique ID generator.
var uGen types.UidGenerator

type configType struct {
	// 16-byte key for XTEA. Used to initialize types.UidGenerator.
	UidKey []byte `json:"uid_key"`
	// Snowflake worker id, 0-1023.
	WorkerID int `json:"worker_id"`
	// Adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

func openAdapter(jsonconf json.RawMessage) error {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("store: failed to parse config: " + err.Error() + "(" + string(jsonconf) + ")")
	}

	if adp == nil {
		if len(config.UseAdapter) > 0 {
			// Adapter name specified explicitly.
			if ad, ok := availableAdapters[config.UseAdapter]; ok {
				adp = ad
			} else {
				return errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
			}
		} else if len(availableAdapters) == 1 {
			// Default to the only entry in availableAdapters.
			for _, v := range availableAdapters {
				adp = v
			}
		} else {
			return errors.New("store: adapter is not specified. Please set `store_config.use_adapter` in the config file")
		}
	}

	if adp.IsOpen() {
		return errors.New("store: connection is already opened")
	}

	if config.WorkerID < 0 || config.WorkerID > 1023 {
		return errors.New("store: invalid worker ID")
	}

	if err := uGen.Init(uint(config.WorkerID), config.UidKey); err != nil {
		return errors.New("store: failed to init snowflake: " + err.Error())
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[adp.GetName()]
	}

	return adp.Open(adapterConfig)
}

// RegisterAdapter makes a store adapter available.
// If Register is called twice or if the adapter is nil, it panics.
func RegisterAdapter(a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}

	adapterName := a.GetName()
	if _, ok := availableAdapters[adapterName]; ok {
		panic("store: adapter '" + adapterName + "' is already registered")
	}
	availableAdapters[adapterName] = a
}

// PersistentStorageInterface defines methods used for interaction with
// the document store as a whole.
type PersistentStorageInterface interface {
	Open(jsonconf json.RawMessage) error
	Close() error
	IsOpen() bool
	GetAdapterName() string
	GetUidString() string
}

// Store is the main object for interacting with the document store.
var Store PersistentStorageInterface = storeObj{}

type storeObj struct{}

// Open initializes the store. The adapter holds a connection pool for
// one store instance.
func (storeObj) Open(jsonconf json.RawMessage) error {
	return openAdapter(jsonconf)
}

// Close terminates the connection to the document store.
func (storeObj) Close() error {
	if adp != nil && adp.IsOpen() {
		return adp.Close()
	}

	return nil
}

// IsOpen checks if the store connection has been initialized.
func (storeObj) IsOpen() bool {
	if adp != nil {
		return adp.IsOpen()
	}

	return false
}

// GetAdapterName returns the name of the current adapter.
func (storeObj) GetAdapterName() string {
	if adp != nil {
		return adp.GetName()
	}

	return ""
}

// GetUidString generates a unique ID as a string.
func (storeObj) GetUidString() string {
	return uGen.GetStr()
}

// UsersPersistenceInterface is an interface for user profile access.
type UsersPersistenceInterface interface {
	Get(ctx context.Context, uid string) (map[string]any, error)
	Replace(ctx context.Context, uid string, profile map[string]any) error
	SetActive(ctx context.Context, uid string, active bool) error
	Watch(ctx context.Context, uid string) (types.LiveQuery, error)
}

// Users is the anchor for storing/retrieving user profiles.
var Users UsersPersistenceInterface = usersMapper{}

type usersMapper struct{}

func (usersMapper) Get(ctx context.Context, uid string) (map[string]any, error) {
	return adp.UserGet(ctx, uid)
}

func (usersMapper) Replace(ctx context.Context, uid string, profile map[string]any) error {
	return adp.UserReplace(ctx, uid, profile)
}

func (usersMapper) SetActive(ctx context.Context, uid string, active bool) error {
	return adp.UserSetActive(ctx, uid, active)
}

func (usersMapper) Watch(ctx context.Context, uid string) (types.LiveQuery, error) {
	return adp.UserWatch(ctx, uid)
}

// DoctorsPersistenceInterface is an interface for the doctor directory.
type DoctorsPersistenceInterface interface {
	All(ctx context.Context, specialty string) ([]map[string]any, error)
}

// Doctors is the anchor for the doctor directory.
var Doctors DoctorsPersistenceInterface = doctorsMapper{}

type doctorsMapper struct{}

func (doctorsMapper) All(ctx context.Context, specialty string) ([]map[string]any, error) {
	return adp.DoctorsAll(ctx, specialty)
}

// AppointmentsPersistenceInterface is an interface for appointment access.
type AppointmentsPersistenceInterface interface {
	ForUser(ctx context.Context, uid, role string) ([]types.Appointment, error)
	Watch(ctx context.Context, uid, role string) (types.LiveQuery, error)
	Create(ctx context.Context, appt *types.Appointment) (string, error)
}

// Appointments is the anchor for storing/retrieving appointments.
var Appointments AppointmentsPersistenceInterface = appointmentsMapper{}

type appointmentsMapper struct{}

func (appointmentsMapper) ForUser(ctx context.Context, uid, role string) ([]types.Appointment, error) {
	return adp.AppointmentsForUser(ctx, uid, role)
}

func (appointmentsMapper) Watch(ctx context.Context, uid, role string) (types.LiveQuery, error) {
	return adp.AppointmentsWatch(ctx, uid, role)
}

func (appointmentsMapper) Create(ctx context.Context, appt *types.Appointment) (string, error) {
	if appt.Status == "" {
		appt.Status = "scheduled"
	}
	return adp.AppointmentAdd(ctx, appt)
}

// ChatsPersistenceInterface is an interface for chat access.
type ChatsPersistenceInterface interface {
	ForUser(ctx context.Context, uid, role string) ([]types.Chat, error)
	Watch(ctx context.Context, uid, role string) (types.LiveQuery, error)
	FindOrCreate(ctx context.Context, patient, doctor string) (string, error)
	UpdateOnMessage(ctx context.Context, chat string, latest *types.LatestMessage) error
	SetSeen(ctx context.Context, chat, role string) error
}

// Chats is the anchor for storing/retrieving chats.
var Chats ChatsPersistenceInterface = chatsMapper{}

type chatsMapper struct{}

func (chatsMapper) ForUser(ctx context.Context, uid, role string) ([]types.Chat, error) {
	return adp.ChatsForUser(ctx, uid, role)
}

func (chatsMapper) Watch(ctx context.Context, uid, role string) (types.LiveQuery, error) {
	return adp.ChatsWatch(ctx, uid, role)
}

func (chatsMapper) FindOrCreate(ctx context.Context, patient, doctor string) (string, error) {
	return adp.ChatFindOrCreate(ctx, patient, doctor)
}

func (chatsMapper) UpdateOnMessage(ctx context.Context, chat string, latest *types.LatestMessage) error {
	return adp.ChatUpdateOnMessage(ctx, chat, latest)
}

func (chatsMapper) SetSeen(ctx context.Context, chat, role string) error {
	return adp.ChatSetSeen(ctx, chat, role)
}

// MessagesPersistenceInterface is an interface for message access.
type MessagesPersistenceInterface interface {
	ForChat(ctx context.Context, chat string) ([]types.Message, error)
	Watch(ctx context.Context, chat string) (types.LiveQuery, error)
	Add(ctx context.Context, msg *types.Message) (string, error)
}

// Messages is the anchor for storing/retrieving chat messages.
var Messages MessagesPersistenceInterface = messagesMapper{}

type messagesMapper struct{}

func (messagesMapper) ForChat(ctx context.Context, chat string) ([]types.Message, error) {
	return adp.MessagesForChat(ctx, chat)
}

func (messagesMapper) Watch(ctx context.Context, chat string) (types.LiveQuery, error) {
	return adp.MessagesWatch(ctx, chat)
}

func (messagesMapper) Add(ctx context.Context, msg *types.Message) (string, error) {
	if msg.Time.IsZero() {
		msg.Time = time.Now().UTC().Round(time.Millisecond)
	}
	return adp.MessageAdd(ctx, msg)
}
