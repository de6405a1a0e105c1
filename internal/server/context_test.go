package server

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"github.com/calagent/calagent/internal/google"
)

func TestServerContextLazyClients(t *testing.T) {
	store := google.NewCredentialStore()
	store.SetTokenForAccount("work", &oauth2.Token{AccessToken: "tok"})

	sc, err := NewServerContext(context.Background(), store)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	// No token for this account, so no client.
	if client := sc.CalendarClientForAccount("personal"); client != nil {
		t.Error("CalendarClientForAccount() should return nil without a token")
	}
	if client := sc.TasksClientForAccount("personal"); client != nil {
		t.Error("TasksClientForAccount() should return nil without a token")
	}

	// A token exists, so a client is created and cached.
	first := sc.CalendarClientForAccount("work")
	if first == nil {
		t.Fatal("CalendarClientForAccount() returned nil with a stored token")
	}
	second := sc.CalendarClientForAccount("work")
	if first != second {
		t.Error("CalendarClientForAccount() should return the cached client")
	}
	if first.Account() != "work" {
		t.Errorf("Account() = %q, want work", first.Account())
	}

	if client := sc.TasksClientForAccount("work"); client == nil {
		t.Error("TasksClientForAccount() returned nil with a stored token")
	}
}

func TestServerContextConcurrentClientCreation(t *testing.T) {
	store := google.NewCredentialStore()
	store.SetTokenForAccount("work", &oauth2.Token{AccessToken: "tok"})

	sc, err := NewServerContext(context.Background(), store)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	const callers = 16
	clients := make([]any, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i] = sc.CalendarClientForAccount("work")
		}(i)
	}
	wg.Wait()

	// Every caller must see the same cached client for the account.
	for i, client := range clients {
		if client == nil {
			t.Fatalf("caller %d got a nil client", i)
		}
		if client != clients[0] {
			t.Errorf("caller %d got a different client instance", i)
		}
	}
}

func TestServerContextShutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), google.NewCredentialStore())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if sc.IsShutdown() {
		t.Error("IsShutdown() = true before Shutdown()")
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown()")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("server context should be cancelled after Shutdown()")
	}

	// Shutdown is idempotent.
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
