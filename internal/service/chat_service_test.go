package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/repository"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/articlehub/articlehub-backend/internal/service/servicetest"
)

func TestAdminAndGuestConversation(t *testing.T) {
	ctx := context.Background()
	notifier := servicetest.NewNotifier()
	svc := service.NewChatService(newTestChat(), notifier, testLog)

	// The client may claim any name; admin messages are always stamped "Admin".
	if _, err := svc.Send(ctx, service.SendMessageInput{Role: model.SenderAdmin, SenderName: "Mallory", Recipient: "alice", Body: "hello"}); err != nil {
		t.Fatalf("admin send: %v", err)
	}

	thread, err := svc.ListThread(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(thread) != 1 || thread[0].SenderName != model.AdminDisplayName || thread[0].Body != "hello" {
		t.Fatalf("unexpected thread after admin message: %+v", thread)
	}
	if thread[0].Read {
		t.Error("new messages must start unread")
	}

	if _, err := svc.Send(ctx, service.SendMessageInput{Role: model.SenderGuest, SenderName: "alice", Recipient: "alice", Body: "hi back"}); err != nil {
		t.Fatalf("guest send: %v", err)
	}

	thread, _ = svc.ListThread(ctx, "alice")
	if len(thread) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(thread))
	}
	if thread[0].Body != "hello" || thread[1].Body != "hi back" {
		t.Errorf("expected insertion order for equal timestamps, got %q then %q", thread[0].Body, thread[1].Body)
	}

	if len(notifier.Published()) != 2 {
		t.Errorf("expected both messages published, got %d", len(notifier.Published()))
	}
}

func TestListThreadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newTestChat(), nil, testLog)

	for _, body := range []string{"one", "two", "three"} {
		if _, err := svc.Send(ctx, service.SendMessageInput{Role: model.SenderGuest, SenderName: "dana", Recipient: "dana", Body: body}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	first, _ := svc.ListThread(ctx, "dana")
	for i := 0; i < 5; i++ {
		again, err := svc.ListThread(ctx, "dana")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("poll %d returned a different list", i)
		}
	}
}

func TestThreadsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newTestChat(), nil, testLog)

	svc.Send(ctx, service.SendMessageInput{Role: model.SenderAdmin, Recipient: "alice", Body: "for alice"})
	svc.Send(ctx, service.SendMessageInput{Role: model.SenderAdmin, Recipient: "bob", Body: "for bob"})
	svc.Send(ctx, service.SendMessageInput{Role: model.SenderGuest, SenderName: "bob", Recipient: "bob", Body: "from bob"})

	alice, _ := svc.ListThread(ctx, "alice")
	for _, m := range alice {
		if m.Body != "for alice" {
			t.Errorf("alice's thread leaked %q", m.Body)
		}
	}

	bob, _ := svc.ListThread(ctx, "bob")
	if len(bob) != 2 {
		t.Errorf("expected 2 messages for bob, got %d", len(bob))
	}

	empty, err := svc.ListThread(ctx, "carol")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil thread, got %v, %v", empty, err)
	}
}

func TestListRecipients(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newTestChat(), nil, testLog)

	svc.Send(ctx, service.SendMessageInput{Role: model.SenderGuest, SenderName: "zoe", Recipient: "zoe", Body: "hi"})
	svc.Send(ctx, service.SendMessageInput{Role: model.SenderAdmin, Recipient: "adam", Body: "hello"})
	svc.Send(ctx, service.SendMessageInput{Role: model.SenderGuest, SenderName: "zoe", Recipient: "zoe", Body: "again"})

	got, err := svc.ListRecipients(ctx)
	if err != nil {
		t.Fatalf("list recipients: %v", err)
	}
	if want := []string{"adam", "zoe"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSendValidation(t *testing.T) {
	svc := service.NewChatService(newTestChat(), nil, testLog)

	cases := map[string]service.SendMessageInput{
		"missing recipient":  {Role: model.SenderAdmin, Body: "hi"},
		"blank body":         {Role: model.SenderAdmin, Recipient: "alice", Body: "   "},
		"guest without name": {Role: model.SenderGuest, Recipient: "alice", Body: "hi"},
		"unknown role":       {Role: "robot", SenderName: "r2", Recipient: "alice", Body: "hi"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Send(context.Background(), in); !errors.Is(err, service.ErrInvalidMessage) {
				t.Errorf("expected service.ErrInvalidMessage, got %v", err)
			}
		})
	}

	if _, err := svc.ListThread(context.Background(), " "); !errors.Is(err, service.ErrInvalidMessage) {
		t.Errorf("expected service.ErrInvalidMessage for blank thread, got %v", err)
	}
}

func TestSendReportsStoreFailure(t *testing.T) {
	store := newTestChat()
	store.SetFailure(repository.ErrStoreUnavailable)
	notifier := servicetest.NewNotifier()
	svc := service.NewChatService(store, notifier, testLog)

	_, err := svc.Send(context.Background(), service.SendMessageInput{Role: model.SenderAdmin, Recipient: "alice", Body: "hi"})
	if !errors.Is(err, repository.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(notifier.Published()) != 0 {
		t.Error("nothing should be published when the write fails")
	}
}

func TestSendToleratesPublishFailure(t *testing.T) {
	notifier := servicetest.NewNotifier()
	notifier.SetPublishError(errors.New("redis down"))
	svc := service.NewChatService(newTestChat(), notifier, testLog)

	msg, err := svc.Send(context.Background(), service.SendMessageInput{Role: model.SenderAdmin, Recipient: "alice", Body: "hi"})
	if err != nil {
		t.Fatalf("expected stored message despite publish failure, got %v", err)
	}
	if msg.ID == 0 {
		t.Error("expected store-assigned id")
	}
}

func TestSubscribeWithoutNotifier(t *testing.T) {
	svc := service.NewChatService(newTestChat(), nil, testLog)

	if _, err := svc.Subscribe(context.Background(), "alice"); !errors.Is(err, service.ErrPushUnavailable) {
		t.Errorf("expected service.ErrPushUnavailable, got %v", err)
	}
}
