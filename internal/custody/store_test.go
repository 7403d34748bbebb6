package custody

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/baintwallet/baintwallet/internal/chain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(NewMemoryRepository(), []byte("test-master-secret"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestProvisionAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "+15550001111")
	if err != nil || exists {
		t.Fatalf("expected no wallet yet, got exists=%v err=%v", exists, err)
	}

	address, err := store.Provision(ctx, "+15550001111")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if !chain.IsValidAddress(address) {
		t.Fatalf("provision returned malformed address %q", address)
	}

	exists, err = store.Exists(ctx, "+15550001111")
	if err != nil || !exists {
		t.Fatalf("expected wallet to exist, got exists=%v err=%v", exists, err)
	}

	got, err := store.AddressOf(ctx, "+15550001111")
	if err != nil {
		t.Fatalf("address of: %v", err)
	}
	if got != address {
		t.Fatalf("expected address %s, got %s", address, got)
	}
}

func TestProvisionRejectsSecondCall(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Provision(ctx, "+15550001111")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	if _, err := store.Provision(ctx, "+15550001111"); !errors.Is(err, ErrAlreadyProvisioned) {
		t.Fatalf("expected ErrAlreadyProvisioned, got %v", err)
	}

	got, err := store.AddressOf(ctx, "+15550001111")
	if err != nil || got != first {
		t.Fatalf("address changed after rejected provision: %s vs %s (err %v)", first, got, err)
	}
}

func TestProvisionConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Provision(ctx, "+15550001111")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyProvisioned):
			conflicts++
		default:
			t.Fatalf("unexpected provision error: %v", err)
		}
	}
	if successes != 1 || conflicts != workers-1 {
		t.Fatalf("expected exactly one success, got %d successes %d conflicts", successes, conflicts)
	}
}

func TestAddressOfNotProvisioned(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.AddressOf(context.Background(), "+15550009999"); !errors.Is(err, ErrNotProvisioned) {
		t.Fatalf("expected ErrNotProvisioned, got %v", err)
	}
}

func TestWithSigningHandle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	address, err := store.Provision(ctx, "+15550001111")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	var signedBy string
	err = store.WithSigningHandle(ctx, "+15550001111", func(signer *chain.Signer) error {
		signedBy = signer.Address()
		return nil
	})
	if err != nil {
		t.Fatalf("with signing handle: %v", err)
	}
	if signedBy != address {
		t.Fatalf("signer address %s does not match stored address %s", signedBy, address)
	}
}

func TestWithSigningHandleNotProvisioned(t *testing.T) {
	store := newTestStore(t)

	err := store.WithSigningHandle(context.Background(), "+15550009999", func(*chain.Signer) error {
		t.Fatalf("callback must not run without a wallet")
		return nil
	})
	if !errors.Is(err, ErrNotProvisioned) {
		t.Fatalf("expected ErrNotProvisioned, got %v", err)
	}
}

func TestWithSigningHandlePropagatesCallbackError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Provision(ctx, "+15550001111"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	sentinel := errors.New("sign failed")
	if err := store.WithSigningHandle(ctx, "+15550001111", func(*chain.Signer) error {
		return sentinel
	}); !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestWithSigningHandleWrongMasterSecret(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	store, err := NewStore(repo, []byte("secret-a"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Provision(ctx, "+15550001111"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	other, err := NewStore(repo, []byte("secret-b"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	err = other.WithSigningHandle(ctx, "+15550001111", func(*chain.Signer) error { return nil })
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}
