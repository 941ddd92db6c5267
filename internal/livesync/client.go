package livesync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/routes/products"
	"philcali.me/groceries/internal/routes/shopping"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "disconnected"
	}
}

// Source is the part of the API client a sync session needs.
type Source interface {
	GetShoppingList(ctx context.Context, listId string) (shopping.ShoppingList, error)
	Stream(ctx context.Context, listId string) (*client.EventStream, error)
}

type Option func(*Client)

// WithProducts seeds the product cache used to label created items.
func WithProducts(catalog []products.Product) Option {
	return func(c *Client) {
		for _, product := range catalog {
			c.catalog[product.Id] = product
		}
	}
}

// WithBackOff replaces the reconnect policy.
func WithBackOff(policy func() backoff.BackOff) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithListener is called from the sync goroutine after every change to the
// snapshot, including a full re-fetch.
func WithListener(listener func(shopping.ShoppingList)) Option {
	return func(c *Client) {
		c.listener = listener
	}
}

func DefaultBackOff() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0
	return policy
}

// Client holds one subscription to one list.
type Client struct {
	source   Source
	listId   string
	catalog  map[string]products.Product
	policy   func() backoff.BackOff
	listener func(shopping.ShoppingList)

	mutex    sync.RWMutex
	state    State
	snapshot shopping.ShoppingList
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(source Source, listId string, options ...Option) *Client {
	c := &Client{
		source:  source,
		listId:  listId,
		catalog: make(map[string]products.Product),
		policy:  DefaultBackOff,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Start connects in the background and keeps reconnecting until Close.
func (c *Client) Start(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.done != nil || c.state == Closed {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx)
}

// Close ends the session and waits for the stream to be released.
func (c *Client) Close() error {
	c.mutex.Lock()
	cancel, done := c.cancel, c.done
	if done == nil {
		c.state = Closed
	}
	c.mutex.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

func (c *Client) State() State {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.state
}

// Snapshot returns a copy of the current list.
func (c *Client) Snapshot() shopping.ShoppingList {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	snapshot := c.snapshot
	snapshot.Items = slices.Clone(c.snapshot.Items)
	return snapshot
}

// Products lists the product cache.
func (c *Client) Products() []products.Product {
	return maps.Values(c.catalog)
}

func (c *Client) setState(state State) {
	c.mutex.Lock()
	previous := c.state
	c.state = state
	c.mutex.Unlock()
	if previous != state {
		slog.Debug("sync state changed", "list", c.listId, "from", previous, "to", state)
	}
}

func (c *Client) update(change func(shopping.ShoppingList) (shopping.ShoppingList, bool)) {
	c.mutex.Lock()
	next, changed := change(c.snapshot)
	if changed {
		c.snapshot = next
	}
	c.mutex.Unlock()
	if changed && c.listener != nil {
		c.listener(c.Snapshot())
	}
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(Closed)
	policy := backoff.WithContext(c.policy(), ctx)
	for {
		c.setState(Connecting)
		err := c.session(ctx, policy)
		if ctx.Err() != nil {
			return
		}
		c.setState(Disconnected)
		wait := policy.NextBackOff()
		slog.Warn("sync stream lost", "list", c.listId, "error", err, "retry", wait)
		if wait == backoff.Stop {
			return
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// session subscribes before fetching so that nothing committed in between is
// lost; events that raced the fetch are absorbed by Apply.
func (c *Client) session(ctx context.Context, policy backoff.BackOff) error {
	stream, err := c.source.Stream(ctx, c.listId)
	if err != nil {
		return err
	}
	defer stream.Close()
	list, err := c.source.GetShoppingList(ctx, c.listId)
	if err != nil {
		return err
	}
	c.update(func(shopping.ShoppingList) (shopping.ShoppingList, bool) {
		return list, true
	})
	c.setState(Open)
	policy.Reset()
	for {
		payload, err := stream.Next()
		if err != nil {
			return err
		}
		c.update(func(snapshot shopping.ShoppingList) (shopping.ShoppingList, bool) {
			return Apply(snapshot, payload, c.catalog)
		})
	}
}
