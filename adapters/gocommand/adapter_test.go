package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
	consumerscommand "github.com/goliatone/go-consumers/command"
	"github.com/goliatone/go-consumers/core"
	consumersquery "github.com/goliatone/go-consumers/query"
)

type okMessage struct{}

func (okMessage) Type() string { return "consumers.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "consumers.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "consumers.command.test" }

type stubConsumersAPI struct {
	signUps int
	lookups int
}

func (s *stubConsumersAPI) SignUp(context.Context, core.SignUpRequest, core.RequestOptions) core.SignupResult {
	s.signUps++
	return core.SignupSucceeded(core.ConsumerSessionSignup{PublishableKey: "pk_consumer"})
}

func (s *stubConsumersAPI) LookupConsumerSession(
	context.Context,
	core.LookupRequest,
	core.RequestOptions,
) (core.ConsumerSessionLookup, error) {
	s.lookups++
	return core.ConsumerSessionLookup{Exists: true}, nil
}

func (s *stubConsumersAPI) StartConsumerVerification(
	context.Context,
	core.StartVerificationRequest,
	core.RequestOptions,
) (core.ConsumerSession, error) {
	return core.ConsumerSession{ClientSecret: "cs_1"}, nil
}

func (s *stubConsumersAPI) ConfirmConsumerVerification(
	context.Context,
	core.ConfirmVerificationRequest,
	core.RequestOptions,
) (core.ConsumerSession, error) {
	return core.ConsumerSession{ClientSecret: "cs_1"}, nil
}

func (s *stubConsumersAPI) AttachLinkConsumerToLinkAccountSession(
	context.Context,
	core.AttachLinkAccountSessionRequest,
	core.RequestOptions,
) (core.AttachConsumerToLinkAccountSession, error) {
	return core.AttachConsumerToLinkAccountSession{ID: "las_1"}, nil
}

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
	if err := ValidateMessageContract(consumersquery.LookupConsumerSessionMessage{}); err == nil {
		t.Fatalf("expected lookup message without api key to fail")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	subscription, err := RegisterAndSubscribe(adapter, cmd)
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	t.Cleanup(func() { subscription.Unsubscribe() })
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestRegisterConsumerHandlers_DispatchAndQuery(t *testing.T) {
	api := &stubConsumersAPI{}
	subs, err := RegisterConsumerHandlers(NewRegistryAdapter(nil), api)
	if err != nil {
		t.Fatalf("register consumer handlers: %v", err)
	}
	t.Cleanup(subs.Unsubscribe)
	if subs.Len() != 5 {
		t.Fatalf("expected 5 subscriptions, got %d", subs.Len())
	}

	collector := command.NewResult[core.SignupResult]()
	ctx := command.ContextWithResult(context.Background(), collector)
	err = Dispatch(ctx, consumerscommand.SignUpMessage{
		Request: core.SignUpRequest{
			Email:          "jane@example.com",
			PhoneNumber:    "+15555555555",
			Country:        "US",
			RequestSurface: "web",
			ConsentAction:  core.ConsentActionCheckbox,
		},
		Options: core.RequestOptions{APIKey: "pk_test"},
	})
	if err != nil {
		t.Fatalf("dispatch sign up: %v", err)
	}
	if api.signUps != 1 {
		t.Fatalf("expected one sign up, got %d", api.signUps)
	}
	result, ok := collector.Load()
	if !ok || !result.Succeeded() {
		t.Fatalf("expected stored success arm, got %#v", result)
	}

	lookup, err := Query[consumersquery.LookupConsumerSessionMessage, core.ConsumerSessionLookup](
		context.Background(),
		consumersquery.LookupConsumerSessionMessage{
			Request: core.LookupRequest{Email: "jane@example.com", RequestSurface: "web"},
			Options: core.RequestOptions{APIKey: "pk_test"},
		},
	)
	if err != nil {
		t.Fatalf("query lookup: %v", err)
	}
	if !lookup.Exists || api.lookups != 1 {
		t.Fatalf("unexpected lookup %#v after %d calls", lookup, api.lookups)
	}
}

func TestRegisterConsumerHandlers_RequiresAPI(t *testing.T) {
	if _, err := RegisterConsumerHandlers(NewRegistryAdapter(nil), nil); err == nil {
		t.Fatalf("expected error without consumers api")
	}
}
