package listing_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/core/events"
	"github.com/frahmantamala/school-admin/internal/listing"
)

func TestListing(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Listing Suite")
}

type MockRemote struct {
	mu         sync.Mutex
	items      []string
	fetches    int
	deletes    int
	shouldFail bool
	failError  error
}

func NewMockRemote(items ...string) *MockRemote {
	return &MockRemote{items: items}
}

func (m *MockRemote) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRemote) Fetch(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]string, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MockRemote) DeleteLast(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.shouldFail {
		return m.failError
	}
	m.items = m.items[:len(m.items)-1]
	return nil
}

func (m *MockRemote) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (r *recordingConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	r.prompts = append(r.prompts, prompt)
	return r.answer, nil
}

var _ = Describe("Controller", func() {
	var (
		ctx    context.Context
		remote *MockRemote
		bus    *events.EventBus
		ctrl   *listing.Controller[string]
		logger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		remote = NewMockRemote("Ana", "Luis")
		ctrl = listing.NewController("users", remote.Fetch, bus, logger)
	})

	It("starts idle and loads the collection", func() {
		Expect(ctrl.State()).To(Equal(listing.StateIdle))
		Expect(ctrl.Load(ctx)).To(Succeed())
		Expect(ctrl.State()).To(Equal(listing.StateLoaded))
		Expect(ctrl.Items()).To(Equal([]string{"Ana", "Luis"}))
	})

	Describe("failed load", func() {
		boom := errors.New("connection refused")

		BeforeEach(func() {
			remote.SetShouldFail(true, boom)
		})

		It("enters Failed and Retry issues the same fetch again", func() {
			Expect(ctrl.Load(ctx)).To(MatchError(boom))
			Expect(ctrl.State()).To(Equal(listing.StateFailed))
			Expect(ctrl.Err()).To(MatchError(boom))
			Expect(remote.Fetches()).To(Equal(1))

			remote.SetShouldFail(false, nil)
			Expect(ctrl.Retry(ctx)).To(Succeed())
			Expect(remote.Fetches()).To(Equal(2))
			Expect(ctrl.State()).To(Equal(listing.StateLoaded))
			Expect(ctrl.Err()).To(BeNil())
		})

		It("keeps failing while the remote keeps failing", func() {
			Expect(ctrl.Load(ctx)).NotTo(Succeed())
			Expect(ctrl.Retry(ctx)).To(MatchError(boom))
			Expect(ctrl.State()).To(Equal(listing.StateFailed))
		})
	})

	It("refuses to retry when nothing failed", func() {
		Expect(ctrl.Retry(ctx)).To(MatchError(listing.ErrNothingToRetry))
		Expect(remote.Fetches()).To(Equal(0))
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			Expect(ctrl.Load(ctx)).To(Succeed())
		})

		It("issues the call after confirmation and always reloads", func() {
			confirm := &recordingConfirmer{answer: true}
			Expect(ctrl.Delete(ctx, confirm, "¿Estás seguro?", remote.DeleteLast)).To(Succeed())
			Expect(confirm.prompts).To(Equal([]string{"¿Estás seguro?"}))
			Expect(remote.deletes).To(Equal(1))
			Expect(remote.Fetches()).To(Equal(2))
			Expect(ctrl.Items()).To(Equal([]string{"Ana"}))
		})

		It("reloads even when the remote still lists the deleted item", func() {
			accepted := func(ctx context.Context) error {
				remote.mu.Lock()
				defer remote.mu.Unlock()
				remote.deletes++
				return nil
			}
			Expect(ctrl.Delete(ctx, listing.AlwaysConfirm, "?", accepted)).To(Succeed())
			Expect(remote.deletes).To(Equal(1))
			Expect(remote.Fetches()).To(Equal(2))
			Expect(ctrl.Items()).To(Equal([]string{"Ana", "Luis"}))
			Expect(ctrl.State()).To(Equal(listing.StateLoaded))
		})

		It("does nothing when the operator declines", func() {
			err := ctrl.Delete(ctx, &recordingConfirmer{answer: false}, "?", remote.DeleteLast)
			Expect(errors.Is(err, internal.ErrNotConfirmed)).To(BeTrue())
			Expect(remote.deletes).To(Equal(0))
			Expect(remote.Fetches()).To(Equal(1))
		})

		It("requires a confirmer", func() {
			Expect(ctrl.Delete(ctx, nil, "?", remote.DeleteLast)).To(MatchError(listing.ErrNoConfirmer))
		})

		It("leaves the cache untouched when the call fails", func() {
			remote.SetShouldFail(true, errors.New("500"))
			Expect(ctrl.Delete(ctx, listing.AlwaysConfirm, "?", remote.DeleteLast)).NotTo(Succeed())
			Expect(remote.Fetches()).To(Equal(1))
			Expect(ctrl.Items()).To(Equal([]string{"Ana", "Luis"}))
			Expect(ctrl.State()).To(Equal(listing.StateLoaded))
		})
	})

	It("publishes a reload event after every successful mutation", func() {
		var (
			mu       sync.Mutex
			reloaded []int
		)
		bus.Subscribe(events.EventTypeCollectionReloaded, func(ctx context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			reloaded = append(reloaded, e.(*events.CollectionReloadedEvent).Count)
			return nil
		})

		Expect(ctrl.Mutate(ctx, "create", func(context.Context) error { return nil })).To(Succeed())
		bus.Wait()

		mu.Lock()
		defer mu.Unlock()
		Expect(reloaded).To(Equal([]int{2}))
	})

	It("discards a load response older than the one already applied", func() {
		slowStarted := make(chan struct{})
		release := make(chan struct{})
		calls := 0
		var mu sync.Mutex

		fetch := func(ctx context.Context) ([]string, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(slowStarted)
				<-release
				return []string{"stale"}, nil
			}
			return []string{"fresh"}, nil
		}
		c := listing.NewController("alumnos", fetch, nil, logger)

		done := make(chan error)
		go func() { done <- c.Load(ctx) }()
		<-slowStarted

		Expect(c.Load(ctx)).To(Succeed())
		Expect(c.Items()).To(Equal([]string{"fresh"}))

		close(release)
		Expect(<-done).To(Succeed())
		Expect(c.Items()).To(Equal([]string{"fresh"}))
		Expect(c.State()).To(Equal(listing.StateLoaded))
	})
})
