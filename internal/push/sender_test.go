package push

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sigpeche/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

type fakeSender struct {
	published [][]*exponent.Message
}

func (f *fakeSender) Publish(_ context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	f.published = append(f.published, msgs)
	return nil, nil
}

type fakeTokenStore struct {
	all    []string
	byUser map[int64][]string
}

func (f *fakeTokenStore) AddOrUpdate(context.Context, int64, string, json.RawMessage) error {
	return nil
}

func (f *fakeTokenStore) Remove(context.Context, int64, string) error { return nil }

func (f *fakeTokenStore) GetAllTokens(context.Context) ([]string, error) {
	return f.all, nil
}

func (f *fakeTokenStore) GetTokensByUserIDs(_ context.Context, _ []int64) (map[int64][]string, error) {
	return f.byUser, nil
}

func TestNewExpoAdapterSatisfiesSender(t *testing.T) {
	var s Sender = NewExpoAdapter(exponent.NewClient())
	if s == nil {
		t.Fatal("expected a usable sender")
	}
}

func TestSendDocumentPublishedBuildsOneMessagePerToken(t *testing.T) {
	sender := &fakeSender{}
	store := &storage.Container{
		PushTokens: &fakeTokenStore{all: []string{"ExponentPushToken[a]", "ExponentPushToken[b]"}},
	}

	err := SendDocumentPublished(context.Background(), sender, store, 12, "Arrêté 12", "Arretes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.published) != 1 || len(sender.published[0]) != 2 {
		t.Fatalf("expected one publish of two messages, got %+v", sender.published)
	}
	if sender.published[0][0].Data["document_id"] != "12" {
		t.Fatalf("message data not tied to document: %+v", sender.published[0][0].Data)
	}
}

func TestSendDeadlineReminderWithoutTokens(t *testing.T) {
	sender := &fakeSender{}
	store := &storage.Container{
		PushTokens: &fakeTokenStore{byUser: map[int64][]string{}},
	}

	err := SendDeadlineReminder(context.Background(), sender, store, 7, "Redevance annuelle", 14)
	if !errors.Is(err, ErrNoTokens) {
		t.Fatalf("expected ErrNoTokens, got %v", err)
	}
	if len(sender.published) != 0 {
		t.Fatal("nothing must be published without tokens")
	}
}
