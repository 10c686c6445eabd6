/******************************************************************************
 *
 *  Description :
 *
 *    Request handlers: verify, subscribe, unsubscribe, get, post, logout.
 *    Each handler runs on the session's read goroutine, queues its
 *    response and returns; live feeds spawn their own pump goroutine.
 *
 *****************************************************************************/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Black3800/zeeu-api/server/auth"
	"github.com/Black3800/zeeu-api/server/logs"
	"github.com/Black3800/zeeu-api/server/store"
	"github.com/Black3800/zeeu-api/server/store/types"
	"github.com/Black3800/zeeu-api/server/validate/tel"
)

// verifyRequest authenticates the session with an identity token. On
// success the session is bound to the token's subject for its lifetime.
func (s *Session) verifyRequest(ctx context.Context, msg *ClientComMessage) {
	ref := msg.Params.Ref

	if s.uid != "" {
		// Re-verification of a live session is not supported.
		s.queueOut(ErrAuthFailure(ref, "already verified"))
		return
	}

	if msg.Params.Token == "" {
		s.queueOut(ErrAuthFailure(ref, string(auth.ErrMalformed)))
		return
	}

	subj, err := globals.verifier.Verify(ctx, msg.Params.Token)
	if err != nil {
		logs.Warn.Println("s.verify: rejected", s.sid, err)
		statsInc("FailedVerifications", 1)
		s.queueOut(ErrAuthFailure(ref, err.Error()))
		return
	}

	// The profile may not exist yet: a fresh subject becomes known to the
	// store on its first {post user}.
	if _, err := store.Users.Get(ctx, subj.ID); err != nil && err != types.ErrNotFound {
		logs.Err.Println("s.verify: profile read failed", s.sid, err)
		s.queueOut(ErrStoreFailure(ref))
		return
	}

	if err := store.Users.SetActive(ctx, subj.ID, true); err != nil {
		logs.Warn.Println("s.verify: set active failed", s.sid, err)
	}

	s.uid = subj.ID
	s.role = subj.Role
	statsInc("VerifiedSessions", 1)

	s.queueOut(EvtVerifySuccess(ref))
}

// subscribeRequest opens a live feed on a collection. The confirmation
// carrying the new sid is queued before the feed's first snapshot.
func (s *Session) subscribeRequest(_ context.Context, msg *ClientComMessage) {
	ref := msg.Params.Ref
	what := msg.Params.Collection

	// Live queries outlive the request; they are cancelled by
	// unsubscribe, logout or session teardown, not by the request
	// timeout. Only the setup handshake is bounded: if the watch is
	// not established within the request timeout the timer cancels
	// the context and the switch below returns an error.
	ctx, cancel := context.WithCancel(context.Background())
	setup := time.AfterFunc(globals.requestTimeout, cancel)

	var lq types.LiveQuery
	var err error
	chat := msg.Params.Chat

	switch what {
	case collectionAppointments:
		lq, err = store.Appointments.Watch(ctx, s.uid, s.role)
	case collectionChats:
		lq, err = store.Chats.Watch(ctx, s.uid, s.role)
	case collectionMessages:
		if chat == "" {
			setup.Stop()
			cancel()
			s.queueOut(ErrMalformedRequest(ref))
			return
		}
		lq, err = store.Messages.Watch(ctx, chat)
	case collectionUser:
		uid := msg.Params.Uid
		if uid == "" {
			uid = s.uid
		}
		lq, err = store.Users.Watch(ctx, uid)
	default:
		setup.Stop()
		cancel()
		logs.Warn.Println("s.subscribe: unknown collection", s.sid, what)
		s.queueOut(ErrUnknownCollection(ref))
		return
	}
	setup.Stop()

	if err != nil {
		cancel()
		logs.Err.Println("s.subscribe: watch failed", s.sid, what, err)
		s.queueOut(ErrStoreFailure(ref))
		return
	}

	sid := s.addSub(&Subscription{what: what, cancel: func() {
		lq.Cancel()
		cancel()
	}})
	statsInc("LiveSubscriptions", 1)

	s.queueOut(EvtSubscribeSuccess(ref, sid))

	go s.pipeLiveQuery(sid, what, chat, lq)
}

// unsubscribeRequest cancels one live feed. An unknown sid is treated as
// already gone; either way no event is produced.
func (s *Session) unsubscribeRequest(_ context.Context, msg *ClientComMessage) {
	if s.delSub(msg.Params.Sid) {
		statsInc("LiveSubscriptions", -1)
	}
}

// getRequest fetches a one-shot snapshot of a collection.
func (s *Session) getRequest(ctx context.Context, msg *ClientComMessage) {
	ref := msg.Params.Ref

	var content any
	var err error

	switch msg.Params.Collection {
	case collectionUser:
		uid := msg.Params.Uid
		if uid == "" {
			uid = s.uid
		}
		content, err = store.Users.Get(ctx, uid)
	case collectionAppointments:
		content, err = store.Appointments.ForUser(ctx, s.uid, s.role)
	case collectionChats:
		content, err = store.Chats.ForUser(ctx, s.uid, s.role)
	case collectionMessages:
		if msg.Params.Chat == "" {
			s.queueOut(ErrMalformedRequest(ref))
			return
		}
		content, err = store.Messages.ForChat(ctx, msg.Params.Chat)
	case collectionDoctors:
		content, err = store.Doctors.All(ctx, msg.Params.Specialty)
	case collectionChatID:
		if msg.Params.With == "" {
			s.queueOut(ErrMalformedRequest(ref))
			return
		}
		content, err = s.findOrCreateChat(ctx, msg.Params.With)
	default:
		logs.Warn.Println("s.get: unknown collection", s.sid, msg.Params.Collection)
		s.queueOut(ErrUnknownCollection(ref))
		return
	}

	if err != nil {
		logs.Err.Println("s.get: fetch failed", s.sid, msg.Params.Collection, err)
		s.queueOut(ErrStoreFailure(ref))
		return
	}

	s.queueOut(EvtGetSuccess(ref, content))
}

// postRequest creates or updates a document.
func (s *Session) postRequest(ctx context.Context, msg *ClientComMessage) {
	ref := msg.Params.Ref

	var err error
	switch msg.Params.Collection {
	case collectionUser:
		err = s.postUser(ctx, msg)
	case collectionMessage:
		err = s.postMessage(ctx, msg)
	case collectionSeen:
		err = s.postSeen(ctx, msg)
	case collectionAppointment:
		err = s.postAppointment(ctx, msg)
	default:
		logs.Warn.Println("s.post: unknown collection", s.sid, msg.Params.Collection)
		s.queueOut(ErrUnknownCollection(ref))
		return
	}

	if err == types.ErrMalformed {
		s.queueOut(ErrMalformedRequest(ref))
		return
	}
	if err != nil {
		logs.Err.Println("s.post: write failed", s.sid, msg.Params.Collection, err)
		s.queueOut(ErrStoreFailure(ref))
		return
	}

	s.queueOut(EvtPostSuccess(ref))
}

// postUser writes the session subject's profile document. The phone
// number, if present, is normalized before the write.
func (s *Session) postUser(ctx context.Context, msg *ClientComMessage) error {
	if len(msg.Params.Content) == 0 {
		return types.ErrMalformed
	}

	var profile map[string]any
	if err := json.Unmarshal(msg.Params.Content, &profile); err != nil {
		return types.ErrMalformed
	}

	if phone, ok := profile["phone"].(string); ok && phone != "" {
		normalized, err := tel.Normalize(phone, "")
		if err != nil {
			return types.ErrMalformed
		}
		profile["phone"] = normalized
	}

	// The role comes from the identity token, never from the client
	// document.
	profile["role"] = s.role

	return store.Users.Replace(ctx, s.uid, profile)
}

// postMessage appends a message to a chat and rolls the chat's latest
// message forward so chat-list feeds pick it up.
func (s *Session) postMessage(ctx context.Context, msg *ClientComMessage) error {
	chat := msg.Params.Chat
	kind := msg.Params.Kind
	if chat == "" || len(msg.Params.Content) == 0 {
		return types.ErrMalformed
	}
	if kind == "" {
		kind = types.KindText
	}
	if kind != types.KindText && kind != types.KindImage {
		return types.ErrMalformed
	}

	var content string
	if err := json.Unmarshal(msg.Params.Content, &content); err != nil {
		return types.ErrMalformed
	}

	now := time.Now().UTC().Round(time.Millisecond)
	if _, err := store.Messages.Add(ctx, &types.Message{
		Chat:    chat,
		Kind:    kind,
		Content: content,
		From:    s.uid,
		Time:    now,
	}); err != nil {
		return err
	}

	latest := &types.LatestMessage{
		Text: content,
		Kind: kind,
		From: s.uid,
		Time: now,
	}
	// The sender has obviously seen its own message.
	switch s.role {
	case types.RolePatient:
		latest.PatientSeen = true
	case types.RoleDoctor:
		latest.DoctorSeen = true
	}

	return store.Chats.UpdateOnMessage(ctx, chat, latest)
}

// postSeen marks the latest message of a chat as read by the session
// subject's side.
func (s *Session) postSeen(ctx context.Context, msg *ClientComMessage) error {
	if msg.Params.Chat == "" {
		return types.ErrMalformed
	}
	return store.Chats.SetSeen(ctx, msg.Params.Chat, s.role)
}

// postAppointment books an appointment. The caller supplies the
// counterparty and the time; its own side comes from the session. A chat
// between the two parties is ensured and receives a system notice.
func (s *Session) postAppointment(ctx context.Context, msg *ClientComMessage) error {
	if msg.Params.Time == nil {
		return types.ErrMalformed
	}

	appt := &types.Appointment{
		Time: msg.Params.Time.UTC(),
		Note: msg.Params.Note,
	}
	var with string
	switch s.role {
	case types.RolePatient:
		appt.Patient = s.uid
		appt.Doctor = msg.Params.Doctor
		with = msg.Params.Doctor
	case types.RoleDoctor:
		appt.Doctor = s.uid
		appt.Patient = msg.Params.Patient
		with = msg.Params.Patient
	}
	if with == "" {
		return types.ErrMalformed
	}

	if _, err := store.Appointments.Create(ctx, appt); err != nil {
		return err
	}

	// Announce the booking in the parties' chat. The appointment itself
	// is already stored; a chat failure here is logged, not surfaced.
	chat, err := s.findOrCreateChat(ctx, with)
	if err != nil {
		logs.Warn.Println("s.post: appointment notice failed", s.sid, err)
		return nil
	}

	notice := "Appointment scheduled for " + appt.Time.Format(time.RFC1123)
	now := time.Now().UTC().Round(time.Millisecond)
	if _, err := store.Messages.Add(ctx, &types.Message{
		Chat:    chat,
		Kind:    types.KindSystem,
		Content: notice,
		From:    s.uid,
		Time:    now,
	}); err != nil {
		logs.Warn.Println("s.post: appointment notice failed", s.sid, err)
		return nil
	}

	latest := &types.LatestMessage{Text: notice, Kind: types.KindSystem, From: s.uid, Time: now}
	switch s.role {
	case types.RolePatient:
		latest.PatientSeen = true
	case types.RoleDoctor:
		latest.DoctorSeen = true
	}
	if err := store.Chats.UpdateOnMessage(ctx, chat, latest); err != nil {
		logs.Warn.Println("s.post: appointment notice failed", s.sid, err)
	}
	return nil
}

// findOrCreateChat resolves the id of the chat between the session
// subject and a counterparty, ordering the parties by role.
func (s *Session) findOrCreateChat(ctx context.Context, with string) (string, error) {
	var patient, doctor string
	switch s.role {
	case types.RolePatient:
		patient, doctor = s.uid, with
	case types.RoleDoctor:
		patient, doctor = with, s.uid
	default:
		return "", errors.New("invalid session role")
	}
	return store.Chats.FindOrCreate(ctx, patient, doctor)
}

// logoutRequest drops the session back to the unauthenticated state:
// all live feeds are cancelled and further requests are gated again.
func (s *Session) logoutRequest(ctx context.Context, _ *ClientComMessage) {
	if err := store.Users.SetActive(ctx, s.uid, false); err != nil {
		logs.Warn.Println("s.logout: set inactive failed", s.sid, err)
	}

	if n := s.unsubAll(); n > 0 {
		statsInc("LiveSubscriptions", -n)
	}

	s.uid = ""
	s.role = ""
	statsInc("VerifiedSessions", -1)
}
