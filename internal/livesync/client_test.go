package livesync_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/groceries/internal/app"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/config"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/livesync"
	"philcali.me/groceries/internal/routes/products"
	"philcali.me/groceries/internal/routes/shopping"
	"philcali.me/groceries/internal/test"
)

const waitFor = 5 * time.Second
const tick = 10 * time.Millisecond

func newServer(t *testing.T) (*httptest.Server, *client.Client) {
	cfg := config.Default()
	cfg.TokenSecret = test.TOKEN_SECRET
	cfg.Events.KeepAlive = time.Hour
	server := httptest.NewServer(app.NewWithDB(test.NewDatabase(t), cfg).Handler())
	t.Cleanup(server.Close)
	c, err := client.New(server.URL, server.Client())
	require.NoError(t, err)
	return server, c
}

func fastRetry() backoff.BackOff {
	return backoff.NewConstantBackOff(20 * time.Millisecond)
}

func startSync(t *testing.T, c *client.Client, listId string, options ...livesync.Option) *livesync.Client {
	sync := livesync.New(c, listId, append([]livesync.Option{livesync.WithBackOff(fastRetry)}, options...)...)
	sync.Start(context.Background())
	t.Cleanup(func() { sync.Close() })
	require.Eventually(t, func() bool {
		return sync.State() == livesync.Open
	}, waitFor, tick)
	return sync
}

// render flattens a list so snapshots and fetches compare field by field.
func render(list shopping.ShoppingList) []string {
	out := make([]string, len(list.Items))
	for i, item := range list.Items {
		quantity := "-"
		if item.Quantity != nil {
			quantity = item.Quantity.String()
		}
		unit := "-"
		if item.Unit != nil {
			unit = string(*item.Unit)
		}
		out[i] = fmt.Sprintf("%d %s %s %s %s %t", item.Position, item.Id, item.Label, quantity, unit, item.Checked)
	}
	return out
}

func assertConverges(t *testing.T, c *client.Client, sync *livesync.Client, listId string) {
	t.Helper()
	fetched, err := c.GetShoppingList(context.Background(), listId)
	require.NoError(t, err)
	expected := render(fetched)
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(expected, render(sync.Snapshot()))
	}, waitFor, tick, "expected %v, got %v", expected, render(sync.Snapshot()))
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("TwoClientsSeeChecks", func(t *testing.T) {
		_, c := newServer(t)
		list, err := c.CreateShoppingList(ctx, shopping.ShoppingListInput{Name: aws.String("Shared")})
		require.NoError(t, err)
		bread, err := c.AddItem(ctx, list.Id, shopping.ItemInput{Label: aws.String("Bread")})
		require.NoError(t, err)

		phone := startSync(t, c, list.Id)
		laptop := startSync(t, c, list.Id)
		require.Len(t, phone.Snapshot().Items, 1)

		_, err = c.SetItem(ctx, list.Id, bread.Id, shopping.ItemUpdateInput{Checked: aws.Bool(true)})
		require.NoError(t, err)
		for _, sync := range []*livesync.Client{phone, laptop} {
			require.Eventually(t, func() bool {
				items := sync.Snapshot().Items
				return len(items) == 1 && items[0].Checked
			}, waitFor, tick)
		}
	})

	t.Run("EventsMatchRefetch", func(t *testing.T) {
		_, c := newServer(t)
		milk, err := c.CreateProduct(ctx, products.ProductInput{Name: aws.String("Milk"), Unit: ptr(data.LITER)})
		require.NoError(t, err)
		list, err := c.CreateShoppingList(ctx, shopping.ShoppingListInput{Name: aws.String("Weekly")})
		require.NoError(t, err)
		sync := startSync(t, c, "current", livesync.WithProducts([]products.Product{milk}))

		var ids []string
		for _, label := range []string{"Apples", "Bread", "Coffee", "Dates"} {
			item, err := c.AddItem(ctx, list.Id, shopping.ItemInput{Label: aws.String(label)})
			require.NoError(t, err)
			ids = append(ids, item.Id)
		}
		_, err = c.AddItem(ctx, list.Id, shopping.ItemInput{ProductId: &milk.Id})
		require.NoError(t, err)
		require.NoError(t, c.RemoveItem(ctx, list.Id, ids[1]))
		quantity := decimal.NewFromInt(3)
		_, err = c.SetItem(ctx, list.Id, ids[2], shopping.ItemUpdateInput{Quantity: &quantity, Checked: aws.Bool(true)})
		require.NoError(t, err)
		_, err = c.SetItem(ctx, list.Id, milk.Id, shopping.ItemUpdateInput{ClearQuantity: true})
		require.NoError(t, err)
		require.NoError(t, c.RemoveItem(ctx, list.Id, ids[0]))

		assertConverges(t, c, sync, list.Id)
		assert.Len(t, sync.Snapshot().Items, 3)
	})

	t.Run("ReconnectRefetches", func(t *testing.T) {
		server, c := newServer(t)
		list, err := c.CreateShoppingList(ctx, shopping.ShoppingListInput{Name: aws.String("Flaky")})
		require.NoError(t, err)
		var states []livesync.State
		sync := startSync(t, c, list.Id)

		server.CloseClientConnections()
		require.Eventually(t, func() bool {
			state := sync.State()
			states = append(states, state)
			return state != livesync.Open
		}, waitFor, time.Millisecond)

		_, err = c.AddItem(ctx, list.Id, shopping.ItemInput{Label: aws.String("Missed")})
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			return sync.State() == livesync.Open
		}, waitFor, tick)
		assertConverges(t, c, sync, list.Id)
		assert.NotContains(t, states, livesync.Closed)
	})

	t.Run("CloseReleasesStream", func(t *testing.T) {
		_, c := newServer(t)
		list, err := c.CreateShoppingList(ctx, shopping.ShoppingListInput{Name: aws.String("Short")})
		require.NoError(t, err)
		sync := startSync(t, c, list.Id)
		require.NoError(t, sync.Close())
		assert.Equal(t, livesync.Closed, sync.State())

		_, err = c.AddItem(ctx, list.Id, shopping.ItemInput{Label: aws.String("Unseen")})
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, sync.Snapshot().Items)
		require.NoError(t, sync.Close())
	})

	t.Run("ListenerSeesChanges", func(t *testing.T) {
		_, c := newServer(t)
		list, err := c.CreateShoppingList(ctx, shopping.ShoppingListInput{Name: aws.String("Watched")})
		require.NoError(t, err)
		changes := make(chan shopping.ShoppingList, 8)
		startSync(t, c, list.Id, livesync.WithListener(func(snapshot shopping.ShoppingList) {
			changes <- snapshot
		}))
		<-changes
		_, err = c.AddItem(ctx, list.Id, shopping.ItemInput{Label: aws.String("Jam")})
		require.NoError(t, err)
		select {
		case snapshot := <-changes:
			require.Len(t, snapshot.Items, 1)
			assert.Equal(t, "Jam", snapshot.Items[0].Label)
		case <-time.After(waitFor):
			t.Fatal("listener was not called")
		}
	})
}

func ptr[T interface{}](value T) *T {
	return &value
}
