package main

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/Black3800/zeeu-api/server/auth"
	"github.com/Black3800/zeeu-api/server/auth/mock_auth"
	"github.com/Black3800/zeeu-api/server/logs"
	"github.com/Black3800/zeeu-api/server/store"
	"github.com/Black3800/zeeu-api/server/store/mock_store"
	"github.com/Black3800/zeeu-api/server/store/types"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

func init() {
	logs.Init(os.Stderr, "stdFlags")
	globals.requestTimeout = 5 * time.Second
}

// Fake live query fed by the test.
type fakeLiveQuery struct {
	updates   chan any
	cancelled bool
}

func newFakeLiveQuery() *fakeLiveQuery {
	return &fakeLiveQuery{updates: make(chan any, 8)}
}

func (q *fakeLiveQuery) Updates() <-chan any {
	return q.updates
}

func (q *fakeLiveQuery) Cancel() {
	if !q.cancelled {
		q.cancelled = true
		close(q.updates)
	}
}

func newTestSession() *Session {
	return &Session{
		sid:  "test-sid",
		send: make(chan any, sendQueueLimit),
		stop: make(chan any, 1),
		subs: make(map[string]*Subscription),
	}
}

// nextMessage reads one serialized event off the session's send queue.
func nextMessage(t *testing.T, s *Session) *ServerComMessage {
	t.Helper()
	select {
	case data := <-s.send:
		var msg ServerComMessage
		if err := json.Unmarshal(data.([]byte), &msg); err != nil {
			t.Fatal("malformed event:", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no event produced")
		return nil
	}
}

func noMessage(t *testing.T, s *Session) {
	t.Helper()
	select {
	case data := <-s.send:
		t.Fatalf("unexpected event: %s", data.([]byte))
	case <-time.After(10 * time.Millisecond):
	}
}

func eventData(t *testing.T, msg *ServerComMessage) map[string]any {
	t.Helper()
	data, ok := msg.Data.(map[string]any)
	if !ok {
		t.Fatalf("event %s carries no data object", msg.Event)
	}
	return data
}

func TestVerifySuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v := mock_auth.NewMockVerifier(ctrl)
	v.EXPECT().Verify(gomock.Any(), "tok-1").Return(&auth.Subject{ID: "alice", Role: types.RolePatient}, nil)
	globals.verifier = v

	uu := mock_store.NewMockUsersPersistenceInterface(ctrl)
	uu.EXPECT().Get(gomock.Any(), "alice").Return(map[string]any{"name": "Alice"}, nil)
	uu.EXPECT().SetActive(gomock.Any(), "alice", true).Return(nil)
	store.Users = uu

	s := newTestSession()
	s.dispatch(&ClientComMessage{Type: typeVerify, Params: MsgClientParams{Token: "tok-1", Ref: "r1"}})

	msg := nextMessage(t, s)
	if msg.Event != "verify-success" {
		t.Error("expected verify-success, got", msg.Event)
	}
	if ref := eventData(t, msg)["ref"]; ref != "r1" {
		t.Error("ref not echoed:", ref)
	}
	if s.uid != "alice" || s.role != types.RolePatient {
		t.Error("session identity not bound:", s.uid, s.role)
	}
}

func TestVerifyNewSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v := mock_auth.NewMockVerifier(ctrl)
	v.EXPECT().Verify(gomock.Any(), "tok-new").Return(&auth.Subject{ID: "bob", Role: types.RoleDoctor}, nil)
	globals.verifier = v

	// A missing profile does not fail verification.
	uu := mock_store.NewMockUsersPersistenceInterface(ctrl)
	uu.EXPECT().Get(gomock.Any(), "bob").Return(nil, types.ErrNotFound)
	uu.EXPECT().SetActive(gomock.Any(), "bob", true).Return(nil)
	store.Users = uu

	s := newTestSession()
	s.dispatch(&ClientComMessage{Type: typeVerify, Params: MsgClientParams{Token: "tok-new"}})

	if msg := nextMessage(t, s); msg.Event != "verify-success" {
		t.Error("expected verify-success, got", msg.Event)
	}
	if s.uid != "bob" {
		t.Error("session identity not bound:", s.uid)
	}
}

func TestVerifyRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v := mock_auth.NewMockVerifier(ctrl)
	v.EXPECT().Verify(gomock.Any(), "bad-token").Return(nil, auth.ErrFailed)
	globals.verifier = v

	s := newTestSession()
	s.dispatch(&ClientComMessage{Type: typeVerify, Params: MsgClientParams{Token: "bad-token", Ref: "r2"}})

	msg := nextMessage(t, s)
	if msg.Event != "error" {
		t.Fatal("expected error event, got", msg.Event)
	}
	data := eventData(t, msg)
	if data["code"] != "auth" || data["ref"] != "r2" {
		t.Error("wrong error payload:", data)
	}
	if s.uid != "" {
		t.Error("rejected session must stay unauthenticated")
	}
}

func TestUnauthenticatedGate(t *testing.T) {
	s := newTestSession()

	// Anything except verify is dropped without a reply.
	s.dispatch(&ClientComMessage{Type: typeGet, Params: MsgClientParams{Collection: "chats", Ref: "r3"}})
	s.dispatch(&ClientComMessage{Type: typeSubscribe, Params: MsgClientParams{Collection: "chats"}})
	s.dispatch(&ClientComMessage{Type: "bogus"})

	noMessage(t, s)
}

func TestUnknownOperation(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: "frobnicate", Params: MsgClientParams{Ref: "r4"}})

	msg := nextMessage(t, s)
	if msg.Event != "error" {
		t.Fatal("expected error event, got", msg.Event)
	}
	if data := eventData(t, msg); data["code"] != "unknown-operation" || data["ref"] != "r4" {
		t.Error("wrong error payload:", data)
	}
}

func TestUnknownCollection(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typeSubscribe, Params: MsgClientParams{Collection: "frogs", Ref: "r5"}})

	if data := eventData(t, nextMessage(t, s)); data["code"] != "unknown-collection" {
		t.Error("wrong error payload:", data)
	}
}

func TestMalformedFrameDropped(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"

	s.dispatchRaw([]byte("{not json"))
	s.dispatchRaw(nil)

	noMessage(t, s)
}

func TestSubscribeMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lq := newFakeLiveQuery()
	mm := mock_store.NewMockMessagesPersistenceInterface(ctrl)
	mm.EXPECT().Watch(gomock.Any(), "chat-9").Return(lq, nil)
	store.Messages = mm

	ss := mock_store.NewMockPersistentStorageInterface(ctrl)
	ss.EXPECT().GetUidString().Return("sub-1")
	store.Store = ss

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typeSubscribe,
		Params: MsgClientParams{Collection: "messages", Chat: "chat-9", Ref: "r6"}})

	// Confirmation comes before the first snapshot.
	msg := nextMessage(t, s)
	if msg.Event != "subscribe-success" {
		t.Fatal("expected subscribe-success, got", msg.Event)
	}
	data := eventData(t, msg)
	if data["sid"] != "sub-1" || data["ref"] != "r6" {
		t.Error("wrong confirmation payload:", data)
	}

	lq.updates <- []types.Message{{Id: "m1", Chat: "chat-9", Kind: types.KindText, Content: "hi"}}

	push := nextMessage(t, s)
	if push.Event != "messages" {
		t.Fatal("expected messages push, got", push.Event)
	}
	pushData := eventData(t, push)
	if pushData["chat"] != "chat-9" {
		t.Error("push not tagged with chat id:", pushData)
	}
	if _, hasRef := pushData["ref"]; hasRef {
		t.Error("push events must not carry a ref")
	}

	// Unsubscribe cancels the feed; a second unsubscribe is a no-op.
	if !s.delSub("sub-1") {
		t.Error("subscription not found")
	}
	if !lq.cancelled {
		t.Error("live query not cancelled")
	}
	if s.delSub("sub-1") {
		t.Error("double unsubscribe reported as removed")
	}
	noMessage(t, s)
}

func TestSubscribeMessagesNoChat(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typeSubscribe, Params: MsgClientParams{Collection: "messages", Ref: "r7"}})

	if data := eventData(t, nextMessage(t, s)); data["code"] != "malformed" || data["ref"] != "r7" {
		t.Error("wrong error payload:", data)
	}
}

func TestSubscribeStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().Watch(gomock.Any(), "alice", types.RolePatient).Return(nil, types.ErrInternal)
	store.Chats = cc

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typeSubscribe, Params: MsgClientParams{Collection: "chats", Ref: "r8"}})

	if data := eventData(t, nextMessage(t, s)); data["code"] != "store" || data["ref"] != "r8" {
		t.Error("wrong error payload:", data)
	}
	if s.countSub() != 0 {
		t.Error("failed subscribe must not register")
	}
}

func TestSubscribeWatchSetupBounded(t *testing.T) {
	// A store adapter that never answers the watch handshake must not
	// stall the dispatch loop past the request timeout.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	savedTimeout := globals.requestTimeout
	globals.requestTimeout = 20 * time.Millisecond
	defer func() { globals.requestTimeout = savedTimeout }()

	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().Watch(gomock.Any(), "alice", types.RolePatient).DoAndReturn(
		func(ctx context.Context, uid, role string) (types.LiveQuery, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	store.Chats = cc

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	done := make(chan struct{})
	go func() {
		s.dispatch(&ClientComMessage{Type: typeSubscribe,
			Params: MsgClientParams{Collection: "chats", Ref: "r8"}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe stuck on an unresponsive watch")
	}

	if data := eventData(t, nextMessage(t, s)); data["code"] != "store" || data["ref"] != "r8" {
		t.Error("wrong error payload:", data)
	}
	if s.countSub() != 0 {
		t.Error("failed subscribe must not register")
	}
}

func TestUnsubscribeDropsBufferedUpdates(t *testing.T) {
	// Snapshots still buffered in the updates channel when the
	// subscription is cancelled are discarded, not sent.
	lq := newFakeLiveQuery()

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient
	s.subs["sub-1"] = &Subscription{what: "messages", cancel: lq.Cancel}

	lq.updates <- []types.Message{{Id: "m1", Chat: "chat-9"}}
	lq.updates <- []types.Message{{Id: "m2", Chat: "chat-9"}}
	s.delSub("sub-1")

	// The pump drains the closed channel after cancellation.
	s.pipeLiveQuery("sub-1", "messages", "chat-9", lq)

	noMessage(t, s)
}

func TestGetChats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chats := []types.Chat{{Id: "c1", Patient: "alice", Doctor: "drbob"}}
	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().ForUser(gomock.Any(), "alice", types.RolePatient).Return(chats, nil)
	store.Chats = cc

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typeGet, Params: MsgClientParams{Collection: "chats", Ref: "r9"}})

	msg := nextMessage(t, s)
	if msg.Event != "get-success" {
		t.Fatal("expected get-success, got", msg.Event)
	}
	data := eventData(t, msg)
	if data["ref"] != "r9" {
		t.Error("ref not echoed")
	}
	want := []any{map[string]any{
		"id": "c1", "patient": "alice", "doctor": "drbob",
		"latest": map[string]any{
			"time": "0001-01-01T00:00:00Z", "patientSeen": false, "doctorSeen": false,
		},
	}}
	if !cmp.Equal(want, data["content"]) {
		t.Error("unexpected content:", cmp.Diff(want, data["content"]))
	}
}

func TestGetChatIDOrdersParties(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A doctor asking for a chat with a patient: the patient goes first.
	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().FindOrCreate(gomock.Any(), "alice", "drbob").Return("c7", nil)
	store.Chats = cc

	s := newTestSession()
	s.uid = "drbob"
	s.role = types.RoleDoctor

	s.dispatch(&ClientComMessage{Type: typeGet, Params: MsgClientParams{Collection: "chat-id", With: "alice", Ref: "r10"}})

	if data := eventData(t, nextMessage(t, s)); data["content"] != "c7" {
		t.Error("unexpected content:", data)
	}
}

func TestGetDoctors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dd := mock_store.NewMockDoctorsPersistenceInterface(ctrl)
	dd.EXPECT().All(gomock.Any(), "cardiology").Return([]map[string]any{{"name": "Dr Bob"}}, nil)
	store.Doctors = dd

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typeGet, Params: MsgClientParams{Collection: "doctors", Specialty: "cardiology", Ref: "r11"}})

	if msg := nextMessage(t, s); msg.Event != "get-success" {
		t.Error("expected get-success, got", msg.Event)
	}
}

func TestPostMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var added *types.Message
	mm := mock_store.NewMockMessagesPersistenceInterface(ctrl)
	mm.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg *types.Message) (string, error) {
			added = msg
			return "m5", nil
		})
	store.Messages = mm

	var latest *types.LatestMessage
	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().UpdateOnMessage(gomock.Any(), "chat-9", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, lm *types.LatestMessage) error {
			latest = lm
			return nil
		})
	store.Chats = cc

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typePost, Params: MsgClientParams{
		Collection: "message", Chat: "chat-9", Content: json.RawMessage(`"hello"`), Ref: "r12"}})

	if msg := nextMessage(t, s); msg.Event != "post-success" {
		t.Fatal("expected post-success, got", msg.Event)
	}
	if added == nil || added.Content != "hello" || added.Kind != types.KindText || added.From != "alice" {
		t.Error("unexpected stored message:", added)
	}
	if latest == nil || !latest.PatientSeen || latest.DoctorSeen {
		t.Error("sender-side seen flag not set:", latest)
	}
}

func TestPostMessageBadKind(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typePost, Params: MsgClientParams{
		Collection: "message", Chat: "chat-9", Kind: "video", Content: json.RawMessage(`"x"`), Ref: "r13"}})

	if data := eventData(t, nextMessage(t, s)); data["code"] != "malformed" {
		t.Error("wrong error payload:", data)
	}
}

func TestPostUserNormalizesPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var saved map[string]any
	uu := mock_store.NewMockUsersPersistenceInterface(ctrl)
	uu.EXPECT().Replace(gomock.Any(), "alice", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, profile map[string]any) error {
			saved = profile
			return nil
		})
	store.Users = uu

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typePost, Params: MsgClientParams{
		Collection: "user",
		Content:    json.RawMessage(`{"name":"Alice","phone":"081-234-5678","role":"doctor"}`),
		Ref:        "r14"}})

	if msg := nextMessage(t, s); msg.Event != "post-success" {
		t.Fatal("expected post-success, got", msg.Event)
	}
	if saved["phone"] != "+66812345678" {
		t.Error("phone not normalized:", saved["phone"])
	}
	// The client cannot talk itself into another role.
	if saved["role"] != types.RolePatient {
		t.Error("role not taken from the token:", saved["role"])
	}
}

func TestPostUserBadPhone(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typePost, Params: MsgClientParams{
		Collection: "user", Content: json.RawMessage(`{"phone":"12"}`), Ref: "r15"}})

	if data := eventData(t, nextMessage(t, s)); data["code"] != "malformed" {
		t.Error("wrong error payload:", data)
	}
}

func TestPostSeen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().SetSeen(gomock.Any(), "chat-9", types.RoleDoctor).Return(nil)
	store.Chats = cc

	s := newTestSession()
	s.uid = "drbob"
	s.role = types.RoleDoctor

	s.dispatch(&ClientComMessage{Type: typePost, Params: MsgClientParams{Collection: "seen", Chat: "chat-9", Ref: "r16"}})

	if msg := nextMessage(t, s); msg.Event != "post-success" {
		t.Error("expected post-success, got", msg.Event)
	}
}

func TestPostAppointment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	when := time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC)

	var appt *types.Appointment
	aa := mock_store.NewMockAppointmentsPersistenceInterface(ctrl)
	aa.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a *types.Appointment) (string, error) {
			appt = a
			return "a3", nil
		})
	store.Appointments = aa

	cc := mock_store.NewMockChatsPersistenceInterface(ctrl)
	cc.EXPECT().FindOrCreate(gomock.Any(), "alice", "drbob").Return("c7", nil)
	cc.EXPECT().UpdateOnMessage(gomock.Any(), "c7", gomock.Any()).Return(nil)
	store.Chats = cc

	var notice *types.Message
	mm := mock_store.NewMockMessagesPersistenceInterface(ctrl)
	mm.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg *types.Message) (string, error) {
			notice = msg
			return "m9", nil
		})
	store.Messages = mm

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient

	s.dispatch(&ClientComMessage{Type: typePost, Params: MsgClientParams{
		Collection: "appointment", Doctor: "drbob", Time: &when, Note: "checkup", Ref: "r17"}})

	if msg := nextMessage(t, s); msg.Event != "post-success" {
		t.Fatal("expected post-success, got", msg.Event)
	}
	if appt == nil || appt.Patient != "alice" || appt.Doctor != "drbob" || !appt.Time.Equal(when) {
		t.Error("unexpected stored appointment:", appt)
	}
	if notice == nil || notice.Kind != types.KindSystem || notice.Chat != "c7" {
		t.Error("booking notice not posted:", notice)
	}
}

func TestLogoutRestoresGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lq := newFakeLiveQuery()

	uu := mock_store.NewMockUsersPersistenceInterface(ctrl)
	uu.EXPECT().SetActive(gomock.Any(), "alice", false).Return(nil)
	store.Users = uu

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient
	s.subs["sub-1"] = &Subscription{what: "chats", cancel: lq.Cancel}

	s.dispatch(&ClientComMessage{Type: typeLogout})

	if s.uid != "" || s.role != "" {
		t.Error("session identity not cleared")
	}
	if !lq.cancelled {
		t.Error("live feeds not cancelled on logout")
	}
	if s.countSub() != 0 {
		t.Error("subscriptions not cleared")
	}

	// The gate is closed again.
	s.dispatch(&ClientComMessage{Type: typeGet, Params: MsgClientParams{Collection: "chats"}})
	noMessage(t, s)
}

func TestCleanUpCancelsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lq1 := newFakeLiveQuery()
	lq2 := newFakeLiveQuery()

	uu := mock_store.NewMockUsersPersistenceInterface(ctrl)
	uu.EXPECT().SetActive(gomock.Any(), "alice", false).Return(nil)
	store.Users = uu

	globals.sessionStore = NewSessionStore()

	s := newTestSession()
	s.uid = "alice"
	s.role = types.RolePatient
	s.subs["sub-1"] = &Subscription{what: "chats", cancel: lq1.Cancel}
	s.subs["sub-2"] = &Subscription{what: "appointments", cancel: func() {
		lq2.Cancel()
		panic("cancel blew up")
	}}

	// A panicking cancel must not leak the other subscriptions, and a
	// second cleanUp must be a no-op.
	s.cleanUp()
	s.cleanUp()

	if !lq1.cancelled || !lq2.cancelled {
		t.Error("not all live feeds cancelled")
	}
}

func TestUnsubscribeUnknownSid(t *testing.T) {
	s := newTestSession()
	s.uid = "alice"

	s.dispatch(&ClientComMessage{Type: typeUnsubscribe, Params: MsgClientParams{Sid: "nope"}})
	noMessage(t, s)
}

func TestAddSubRetriesOnCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ss := mock_store.NewMockPersistentStorageInterface(ctrl)
	gomock.InOrder(
		ss.EXPECT().GetUidString().Return("dup"),
		ss.EXPECT().GetUidString().Return("dup"),
		ss.EXPECT().GetUidString().Return("fresh"),
	)
	store.Store = ss

	s := newTestSession()
	if sid := s.addSub(&Subscription{what: "chats", cancel: func() {}}); sid != "dup" {
		t.Fatal("unexpected first sid:", sid)
	}
	if sid := s.addSub(&Subscription{what: "user", cancel: func() {}}); sid != "fresh" {
		t.Error("collision not retried:", sid)
	}
	if s.countSub() != 2 {
		t.Error("both subscriptions must be registered")
	}
}

func TestIndependentSessionFeeds(t *testing.T) {
	// Two sessions watching the same chat hold independent feeds:
	// cancelling one must not disturb the other.
	lq1 := newFakeLiveQuery()
	lq2 := newFakeLiveQuery()

	s1 := newTestSession()
	s1.uid = "alice"
	s1.role = types.RolePatient
	s1.subs["sub-a"] = &Subscription{what: "messages", cancel: lq1.Cancel}
	go s1.pipeLiveQuery("sub-a", "messages", "chat-9", lq1)

	s2 := newTestSession()
	s2.uid = "drbob"
	s2.role = types.RoleDoctor
	s2.subs["sub-b"] = &Subscription{what: "messages", cancel: lq2.Cancel}
	go s2.pipeLiveQuery("sub-b", "messages", "chat-9", lq2)

	s1.delSub("sub-a")
	if lq2.cancelled {
		t.Fatal("other session's feed cancelled")
	}

	lq2.updates <- []types.Message{{Id: "m1", Chat: "chat-9"}}
	if push := nextMessage(t, s2); push.Event != "messages" {
		t.Error("expected messages push, got", push.Event)
	}
	noMessage(t, s1)

	s2.delSub("sub-b")
}

func TestSessionStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ss := mock_store.NewMockPersistentStorageInterface(ctrl)
	ss.EXPECT().GetUidString().Return("sess-1")
	ss.EXPECT().GetUidString().Return("sess-2")
	store.Store = ss

	pool := NewSessionStore()
	s1, count := pool.NewSession(nil, "10.0.0.1:1234")
	if count != 1 {
		t.Error("expected 1 live session, got", count)
	}
	s2, count := pool.NewSession(nil, "10.0.0.2:1234")
	if count != 2 {
		t.Error("expected 2 live sessions, got", count)
	}

	if pool.Get("sess-1") != s1 || pool.Get("sess-2") != s2 {
		t.Error("sessions not retrievable by sid")
	}

	pool.Delete(s1)
	if pool.Get("sess-1") != nil {
		t.Error("deleted session still retrievable")
	}
	if pool.Get("sess-2") != s2 {
		t.Error("unrelated session lost on delete")
	}
}
