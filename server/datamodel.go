/******************************************************************************
 *
 *  Description :
 *
 *    Wire protocol structures
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"time"
)

// Request types, client to server.
const (
	typeVerify      = "verify"
	typeSubscribe   = "subscribe"
	typeUnsubscribe = "unsubscribe"
	typeGet         = "get"
	typePost        = "post"
	typeLogout      = "logout"
)

// Collections addressable by subscribe/get/post.
const (
	collectionAppointments = "appointments"
	collectionChats        = "chats"
	collectionMessages     = "messages"
	collectionUser         = "user"
	collectionDoctors      = "doctors"
	collectionChatID       = "chat-id"
	collectionMessage      = "message"
	collectionSeen         = "seen"
	collectionAppointment  = "appointment"
)

// Event kinds, server to client. Push events are named after the
// collection which produced them.
const (
	evtVerifySuccess    = "verify-success"
	evtError            = "error"
	evtSubscribeSuccess = "subscribe-success"
	evtGetSuccess       = "get-success"
	evtPostSuccess      = "post-success"
)

// Error codes carried in `error` events. Intentionally coarse: internal
// failure detail never crosses the wire.
const (
	errCodeAuth              = "auth"
	errCodeStore             = "store"
	errCodeMalformed         = "malformed"
	errCodeUnknownOperation  = "unknown-operation"
	errCodeUnknownCollection = "unknown-collection"
)

// MsgClientParams is the union of all type-specific request parameters.
type MsgClientParams struct {
	// Client-supplied correlation token, echoed in the response.
	Ref string `json:"ref,omitempty"`
	// Identity token, {verify} only.
	Token string `json:"token,omitempty"`
	// Target collection for subscribe/get/post.
	Collection string `json:"collection,omitempty"`
	// Subscription id, {unsubscribe} only.
	Sid string `json:"sid,omitempty"`
	// Chat id for message threads and seen marks.
	Chat string `json:"chat,omitempty"`
	// Counterparty subject id for chat-id lookup.
	With string `json:"with,omitempty"`
	// Subject id for profile reads/watches; default: current subject.
	Uid string `json:"uid,omitempty"`
	// Doctor directory filter.
	Specialty string `json:"specialty,omitempty"`
	// Message kind: "text" or "image".
	Kind string `json:"kind,omitempty"`
	// Operation payload: message text, image reference or profile document.
	Content json.RawMessage `json:"content,omitempty"`
	// Appointment fields. The caller names the counterparty only; its own
	// side is taken from the session.
	Doctor  string     `json:"doctor,omitempty"`
	Patient string     `json:"patient,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
	Note    string     `json:"note,omitempty"`
}

// ClientComMessage is a single client to server request.
type ClientComMessage struct {
	Type   string          `json:"type"`
	Params MsgClientParams `json:"params"`
}

// ServerComMessage is a single server to client event.
type ServerComMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// MsgRef is an event payload carrying only the echoed correlation ref.
type MsgRef struct {
	Ref string `json:"ref,omitempty"`
}

// MsgError is the payload of an `error` event.
type MsgError struct {
	Ref  string `json:"ref,omitempty"`
	Code string `json:"code"`
	// Optional safe detail, e.g. the auth failure kind.
	Detail string `json:"detail,omitempty"`
}

// MsgSubscribed is the payload of a `subscribe-success` event.
type MsgSubscribed struct {
	Ref string `json:"ref,omitempty"`
	Sid string `json:"sid"`
}

// MsgContent is the payload of a `get-success` event.
type MsgContent struct {
	Ref     string `json:"ref,omitempty"`
	Content any    `json:"content"`
}

// MsgThread tags a message-thread push with its chat id so a client
// holding several thread subscriptions can tell them apart.
type MsgThread struct {
	Chat     string `json:"chat"`
	Messages any    `json:"messages"`
}

// EvtVerifySuccess creates a `verify-success` event.
func EvtVerifySuccess(ref string) *ServerComMessage {
	return &ServerComMessage{Event: evtVerifySuccess, Data: &MsgRef{Ref: ref}}
}

// EvtSubscribeSuccess creates a `subscribe-success` event carrying the
// new subscription id.
func EvtSubscribeSuccess(ref, sid string) *ServerComMessage {
	return &ServerComMessage{Event: evtSubscribeSuccess, Data: &MsgSubscribed{Ref: ref, Sid: sid}}
}

// EvtGetSuccess creates a `get-success` event carrying the fetched
// content.
func EvtGetSuccess(ref string, content any) *ServerComMessage {
	return &ServerComMessage{Event: evtGetSuccess, Data: &MsgContent{Ref: ref, Content: content}}
}

// EvtPostSuccess creates a `post-success` event.
func EvtPostSuccess(ref string) *ServerComMessage {
	return &ServerComMessage{Event: evtPostSuccess, Data: &MsgRef{Ref: ref}}
}

// EvtPush creates a push event for one live query delivery. Push events
// carry no ref.
func EvtPush(what string, data any) *ServerComMessage {
	return &ServerComMessage{Event: what, Data: data}
}

// ErrAuthFailure: token did not verify; session stays unauthenticated.
func ErrAuthFailure(ref, detail string) *ServerComMessage {
	return &ServerComMessage{Event: evtError, Data: &MsgError{Ref: ref, Code: errCodeAuth, Detail: detail}}
}

// ErrStoreFailure: a document store call failed or timed out.
func ErrStoreFailure(ref string) *ServerComMessage {
	return &ServerComMessage{Event: evtError, Data: &MsgError{Ref: ref, Code: errCodeStore}}
}

// ErrMalformedRequest: required parameters missing or unparseable.
func ErrMalformedRequest(ref string) *ServerComMessage {
	return &ServerComMessage{Event: evtError, Data: &MsgError{Ref: ref, Code: errCodeMalformed}}
}

// ErrUnknownOperation: no handler for the request type.
func ErrUnknownOperation(ref string) *ServerComMessage {
	return &ServerComMessage{Event: evtError, Data: &MsgError{Ref: ref, Code: errCodeUnknownOperation}}
}

// ErrUnknownCollection: the request named a collection no handler serves.
func ErrUnknownCollection(ref string) *ServerComMessage {
	return &ServerComMessage{Event: evtError, Data: &MsgError{Ref: ref, Code: errCodeUnknownCollection}}
}
