package codingnet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coding/coding-cli/internal/core/domain"
)

type itemRaw struct {
	ID int `json:"id"`
}

func convertItem(r itemRaw) (int, error) {
	if r.ID == 0 {
		return 0, missingField("item", "id")
	}
	return r.ID, nil
}

func page(body, next string) *Response {
	return &Response{StatusCode: 200, Body: []byte(body), Next: next}
}

func TestPagedRequest_GetAll(t *testing.T) {
	exec := &fakeExecutor{responses: []*Response{
		page(`{"code":0,"data":{"list":[{"id":1},{"id":2}]}}`, "https://coding.net/api/items?page=2"),
		page(`{"code":0,"data":{"list":[{"id":3}]}}`, ""),
	}}
	p := NewPagedRequest("/items", convertItem)

	all, err := p.GetAll(context.Background(), exec)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, all)
	assert.Equal(t, []string{"/items", "https://coding.net/api/items?page=2"}, exec.paths)
	assert.False(t, p.HasNext())

	_, err = p.Next(context.Background(), exec)
	assert.ErrorIs(t, err, domain.ErrNoSuchElement)
}

func TestPagedRequest_EmptyList(t *testing.T) {
	exec := &fakeExecutor{responses: []*Response{page(`{"data":{"list":[]}}`, "")}}

	all, err := NewPagedRequest("/items", convertItem).GetAll(context.Background(), exec)

	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestPagedRequest_Malformed(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
	}{
		{"top-level array", page(`[{"id":1}]`, "https://coding.net/api/items?page=2")},
		{"missing list", page(`{"data":{}}`, "")},
		{"empty body", &Response{StatusCode: 204}},
		{"bad element", page(`{"data":{"list":[{"id":1},{"id":0}]}}`, "")},
		{"element of the wrong type", page(`{"data":{"list":["x"]}}`, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{responses: []*Response{tt.resp}}
			p := NewPagedRequest("/items", convertItem)

			items, err := p.Next(context.Background(), exec)

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
			assert.Nil(t, items)
			assert.True(t, p.HasNext(), "cursor must not advance")
			assert.Equal(t, "/items", p.next)
		})
	}
}

func TestPagedRequest_AdvancesOnValidPage(t *testing.T) {
	exec := &fakeExecutor{responses: []*Response{
		page(`{"data":{"list":[{"id":7}]}}`, "https://coding.net/api/items?page=2"),
	}}
	p := NewPagedRequest("/items", convertItem)

	items, err := p.Next(context.Background(), exec)

	require.NoError(t, err)
	assert.Equal(t, []int{7}, items)
	assert.Equal(t, "https://coding.net/api/items?page=2", p.next)
	assert.True(t, p.HasNext())
}

func TestPagedRequest_ExecutorError(t *testing.T) {
	boom := errors.New("boom")
	exec := &fakeExecutor{errs: []error{boom}}
	p := NewPagedRequest("/items", convertItem)

	_, err := p.GetAll(context.Background(), exec)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "/items", p.next)
}

func TestPagedRequest_ForEachStopsEarly(t *testing.T) {
	exec := &fakeExecutor{responses: []*Response{
		page(`{"data":{"list":[{"id":1}]}}`, "https://coding.net/api/items?page=2"),
		page(`{"data":{"list":[{"id":2}]}}`, ""),
	}}
	p := NewPagedRequest("/items", convertItem)

	var seen []int
	err := p.ForEach(context.Background(), exec, func(items []int) bool {
		seen = append(seen, items...)
		return false
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, seen)
	assert.Len(t, exec.paths, 1)
}

func TestPagedRequest_Headers(t *testing.T) {
	var got []Header
	exec := executorFunc(func(_ context.Context, r Request) (*Response, error) {
		got = r.Headers
		return page(`{"data":{"list":[]}}`, ""), nil
	})

	_, err := NewPagedRequest("/items", convertItem, AcceptHTMLBody).GetAll(context.Background(), exec)

	require.NoError(t, err)
	assert.Equal(t, []Header{AcceptHTMLBody}, got)
}

type executorFunc func(ctx context.Context, r Request) (*Response, error)

func (f executorFunc) Execute(ctx context.Context, r Request) (*Response, error) { return f(ctx, r) }
