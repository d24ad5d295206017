package consumertest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goliatone/go-consumers/core"
)

func TestFakeTransport_ReplaysScriptsAndRepeatsLast(t *testing.T) {
	transport := NewFakeTransport(
		JSON(http.StatusOK, LookupBody(false)),
		JSON(http.StatusBadRequest, ErrorBody("bad", "nope")),
	)
	for i, want := range []int{http.StatusOK, http.StatusBadRequest, http.StatusBadRequest} {
		res, err := transport.Do(context.Background(), core.TransportRequest{URL: "https://api.example.test/v1/x"})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if res.StatusCode != want {
			t.Fatalf("call %d: expected %d, got %d", i, want, res.StatusCode)
		}
	}
	if len(transport.Requests()) != 3 {
		t.Fatalf("expected 3 recorded requests, got %d", len(transport.Requests()))
	}
}

func TestFakeTransport_FailAndCancellation(t *testing.T) {
	cause := errors.New("offline")
	transport := NewFakeTransport(Fail(cause))
	if _, err := transport.Do(context.Background(), core.TransportRequest{}); !errors.Is(err, cause) {
		t.Fatalf("expected scripted error, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := transport.Do(ctx, core.TransportRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestFakeTransport_LastFormAndPath(t *testing.T) {
	transport := NewFakeTransport()
	_, _ = transport.Do(context.Background(), core.TransportRequest{
		URL:  "https://api.example.test/v1/consumers/sessions/lookup",
		Body: []byte("email_address=a%40b.co&request_surface=web"),
	})
	form, ok := transport.LastForm()
	if !ok || form.Get("email_address") != "a@b.co" {
		t.Fatalf("unexpected form %#v", form)
	}
	if transport.LastPath() != "/v1/consumers/sessions/lookup" {
		t.Fatalf("unexpected path %q", transport.LastPath())
	}
}

func TestFixtures_DecodeWithCoreParsers(t *testing.T) {
	if _, err := core.ParseConsumerSession([]byte(SessionBody())); err != nil {
		t.Fatalf("session fixture: %v", err)
	}
	signup, err := core.ParseConsumerSessionSignup([]byte(SignupBody()))
	if err != nil || signup.PublishableKey != PublishableKey {
		t.Fatalf("signup fixture: %#v %v", signup, err)
	}
	lookup, err := core.ParseConsumerSessionLookup([]byte(LookupBody(true)))
	if err != nil || lookup.ConsumerSession == nil || !lookup.ConsumerSession.IsVerified() {
		t.Fatalf("lookup fixture: %#v %v", lookup, err)
	}
	if _, err := core.ParseAttachConsumerToLinkAccountSession([]byte(AttachBody("las_1", "las_secret"))); err != nil {
		t.Fatalf("attach fixture: %v", err)
	}
}
