package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeHistory struct {
	appended []Record
	failOn   func(rec *Record) bool
}

func (f *fakeHistory) Append(_ context.Context, rec *Record) error {
	if f.failOn != nil && f.failOn(rec) {
		return errors.New("insert failed")
	}
	f.appended = append(f.appended, *rec)
	return nil
}

func newTestMatcher(h HistoryStore) *Matcher {
	m := NewMatcher(h, zap.NewNop().Sugar())
	m.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return m
}

func strptr(s string) *string { return &s }

func licenceDoc() DocumentEvent {
	return DocumentEvent{
		ID:        "doc-1",
		Title:     "Arrêté 12",
		Reference: "ARR-12",
		Type:      "Licences",
	}
}

func TestInactiveSubscriptionProducesNothing(t *testing.T) {
	h := &fakeHistory{}
	m := newTestMatcher(h)

	subs := []Subscription{{
		ID:        1,
		Active:    false,
		Interests: []Interest{{Type: "Licences"}},
		Channels:  []Channel{ChannelEmail},
		Email:     "coop@peche.ga",
	}}

	res, err := m.MatchAndRecord(context.Background(), licenceDoc(), subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempted != 0 || len(res.Records) != 0 {
		t.Fatalf("inactive subscription must produce zero records, got %+v", res)
	}
}

func TestNonMatchingInterestProducesNothing(t *testing.T) {
	h := &fakeHistory{}
	m := newTestMatcher(h)

	subs := []Subscription{{
		ID:        1,
		Active:    true,
		Interests: []Interest{{Type: "Rapports"}},
		Channels:  []Channel{ChannelEmail},
		Email:     "coop@peche.ga",
	}}

	res, err := m.MatchAndRecord(context.Background(), licenceDoc(), subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempted != 0 {
		t.Fatalf("non-matching interest must produce zero records, got %+v", res)
	}
}

func TestFanOutPerEnabledChannel(t *testing.T) {
	h := &fakeHistory{}
	m := newTestMatcher(h)

	subs := []Subscription{{
		ID:        7,
		Active:    true,
		Interests: []Interest{{Type: "Licences"}},
		Channels:  []Channel{ChannelEmail, ChannelSMS},
		Email:     "direction@peche.ga",
		Phone:     strptr("+24106000000"),
	}}

	res, err := m.MatchAndRecord(context.Background(), licenceDoc(), subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Recorded != 2 || len(res.Records) != 2 {
		t.Fatalf("expected exactly two records, got %+v", res)
	}

	if res.Records[0].Channel != ChannelEmail || res.Records[0].Recipient != "direction@peche.ga" {
		t.Fatalf("unexpected email record: %+v", res.Records[0])
	}
	if res.Records[1].Channel != ChannelSMS || res.Records[1].Recipient != "+24106000000" {
		t.Fatalf("unexpected sms record: %+v", res.Records[1])
	}
	for _, rec := range res.Records {
		if rec.Status != StatusSent {
			t.Fatalf("simulation records must be marked sent, got %q", rec.Status)
		}
		if rec.EventID != "doc-1" || rec.SubscriptionID != 7 {
			t.Fatalf("record not tied to event/subscription: %+v", rec)
		}
	}
}

func TestWhatsappFallsBackToPhone(t *testing.T) {
	h := &fakeHistory{}
	m := newTestMatcher(h)

	subs := []Subscription{{
		ID:        3,
		Active:    true,
		Interests: []Interest{{Type: "Licences"}},
		Channels:  []Channel{ChannelWhatsapp},
		Email:     "armateur@peche.ga",
		Phone:     strptr("+24100000000"),
		// no whatsapp number declared
	}}

	res, err := m.MatchAndRecord(context.Background(), licenceDoc(), subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Channel != ChannelWhatsapp {
		t.Fatalf("expected whatsapp channel, got %q", rec.Channel)
	}
	if rec.Recipient != "+24100000000" {
		t.Fatalf("expected fallback to phone, got %q", rec.Recipient)
	}
}

func TestSMSFallsBackToEmailWithoutPhone(t *testing.T) {
	h := &fakeHistory{}
	m := newTestMatcher(h)

	subs := []Subscription{{
		ID:        4,
		Active:    true,
		Interests: []Interest{{Type: "Licences"}},
		Channels:  []Channel{ChannelSMS},
		Email:     "observateur@peche.ga",
	}}

	res, err := m.MatchAndRecord(context.Background(), licenceDoc(), subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Recipient != "observateur@peche.ga" {
		t.Fatalf("expected email fallback, got %+v", res)
	}
}

func TestMissingEventTypeAbortsBatch(t *testing.T) {
	h := &fakeHistory{}
	m := newTestMatcher(h)

	ev := DocumentEvent{ID: "doc-2", Title: "Sans type"}
	_, err := m.MatchAndRecord(context.Background(), ev, []Subscription{{
		ID: 1, Active: true, Interests: []Interest{{Type: ""}}, Channels: []Channel{ChannelEmail},
	}})
	if !errors.Is(err, ErrMissingEventType) {
		t.Fatalf("expected ErrMissingEventType, got %v", err)
	}
	if len(h.appended) != 0 {
		t.Fatal("malformed event must not append any record")
	}
}

func TestAppendFailureDoesNotAbortBatch(t *testing.T) {
	h := &fakeHistory{failOn: func(rec *Record) bool { return rec.Channel == ChannelEmail }}
	m := newTestMatcher(h)

	subs := []Subscription{
		{
			ID:        1,
			Active:    true,
			Interests: []Interest{{Type: "Licences"}},
			Channels:  []Channel{ChannelEmail, ChannelSMS},
			Email:     "a@peche.ga",
			Phone:     strptr("+24101010101"),
		},
		{
			ID:        2,
			Active:    true,
			Interests: []Interest{{Type: "Licences"}},
			Channels:  []Channel{ChannelSMS},
			Email:     "b@peche.ga",
			Phone:     strptr("+24102020202"),
		},
	}

	res, err := m.MatchAndRecord(context.Background(), licenceDoc(), subs)
	if err != nil {
		t.Fatalf("partial failure must not fail the batch, got %v", err)
	}
	if res.Attempted != 3 || res.Failed != 1 || res.Recorded != 2 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if len(h.appended) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(h.appended))
	}
}

func TestDeadlineMessageRendering(t *testing.T) {
	ev := DeadlineEvent{
		ID:            "dl-9",
		UserID:        42,
		TaxType:       "Redevance annuelle",
		Amount:        150000,
		DueDate:       time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		DaysRemaining: 14,
	}

	want := "Rappel : paiement Redevance annuelle de 150000 FCFA attendu avant le 15/04/2026 (14 jours restants)"
	if got := ev.RenderMessage(); got != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", got, want)
	}
}

func TestDocumentMessageRendering(t *testing.T) {
	want := "Nouveau document publié : Arrêté 12 (réf. ARR-12)"
	if got := licenceDoc().RenderMessage(); got != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", got, want)
	}
}
