package sse

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	require.NoError(t, encoder.Comment("connected"))
	require.NoError(t, encoder.Encode(Event{
		Name: "shoppingListItemCreated",
		Data: []byte(`{"id":"a","shoppingListId":"l","label":"Milk","quantity":2,"checked":false,"unit":"liter","position":0}`),
	}))
	require.NoError(t, encoder.Encode(Event{
		Name: "shoppingListItemUpdated",
		Data: []byte(`{"checked":true,"id":"a"}`),
	}))
	require.NoError(t, encoder.Encode(Event{
		Id:   "3",
		Name: "multiline",
		Data: []byte("first\nsecond"),
	}))
	require.NoError(t, encoder.Comment("keep-alive"))

	g := goldie.New(t)
	g.Assert(t, "frames", buffer.Bytes())
}

func TestDecoder(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		events := []Event{
			{Name: "shoppingListItemDeleted", Data: []byte(`{"id":"a"}`)},
			{Id: "7", Name: "multiline", Data: []byte("one\ntwo\n")},
			{Data: []byte("unnamed")},
		}
		var buffer bytes.Buffer
		encoder := NewEncoder(&buffer)
		for _, event := range events {
			require.NoError(t, encoder.Encode(event))
			require.NoError(t, encoder.Comment("ping"))
		}
		decoder := NewDecoder(&buffer)
		for _, expected := range events {
			actual, err := decoder.Decode()
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		}
		_, err := decoder.Decode()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("CarriageReturns", func(t *testing.T) {
		decoder := NewDecoder(strings.NewReader("event: a\r\ndata:x\r\n\r\n"))
		event, err := decoder.Decode()
		require.NoError(t, err)
		assert.Equal(t, Event{Name: "a", Data: []byte("x")}, event)
	})

	t.Run("SkipsFramesWithoutData", func(t *testing.T) {
		decoder := NewDecoder(strings.NewReader("event: ignored\n\nevent: kept\ndata: 1\n\n"))
		event, err := decoder.Decode()
		require.NoError(t, err)
		assert.Equal(t, "kept", event.Name)
	})

	t.Run("TruncatedFrame", func(t *testing.T) {
		decoder := NewDecoder(strings.NewReader("event: a\ndata: partial"))
		_, err := decoder.Decode()
		assert.Equal(t, io.ErrUnexpectedEOF, err)
	})
}
