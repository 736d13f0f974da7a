package codingnet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/coding/coding-cli/internal/core/domain"
)

// ListPath is where paged responses carry their elements.
const ListPath = "data.list"

// Executor runs a single request. *Connection implements it.
type Executor interface {
	Execute(ctx context.Context, r Request) (*Response, error)
}

// PagedRequest walks a paged collection following rel="next" links.
// It is not safe for concurrent use.
type PagedRequest[T any] struct {
	next      string
	firstDone bool
	headers   []Header
	decode    func(raw []byte) (T, error)
}

// NewPagedRequest creates a paged request for path. Each element is
// decoded into R and converted with convert.
func NewPagedRequest[R, T any](path string, convert func(R) (T, error), headers ...Header) *PagedRequest[T] {
	return &PagedRequest[T]{
		next:    path,
		headers: headers,
		decode: func(raw []byte) (T, error) {
			var r R
			if err := json.Unmarshal(raw, &r); err != nil {
				var zero T
				return zero, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
			}
			return convert(r)
		},
	}
}

// HasNext reports whether another page may be fetched.
func (p *PagedRequest[T]) HasNext() bool {
	return !p.firstDone || p.next != ""
}

// Next fetches and converts one page. The cursor only advances when the
// page was valid.
func (p *PagedRequest[T]) Next(ctx context.Context, exec Executor) ([]T, error) {
	if !p.HasNext() {
		return nil, domain.ErrNoSuchElement
	}

	resp, err := exec.Execute(ctx, Request{Verb: VerbGet, Path: p.next, Headers: p.headers})
	if err != nil {
		return nil, err
	}

	items, err := p.parse(resp)
	if err != nil {
		return nil, err
	}

	p.firstDone = true
	p.next = resp.Next
	return items, nil
}

// GetAll fetches every remaining page.
func (p *PagedRequest[T]) GetAll(ctx context.Context, exec Executor) ([]T, error) {
	var all []T
	for p.HasNext() {
		page, err := p.Next(ctx, exec)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

// ForEach hands each page to fn until fn returns false or pages run out.
func (p *PagedRequest[T]) ForEach(ctx context.Context, exec Executor, fn func(page []T) bool) error {
	for p.HasNext() {
		page, err := p.Next(ctx, exec)
		if err != nil {
			return err
		}
		if !fn(page) {
			return nil
		}
	}
	return nil
}

func (p *PagedRequest[T]) parse(resp *Response) ([]T, error) {
	if resp == nil || resp.Body == nil {
		return nil, fmt.Errorf("%w: empty page", domain.ErrMalformedResponse)
	}

	list := gjson.GetBytes(resp.Body, ListPath)
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: page has no %s array", domain.ErrMalformedResponse, ListPath)
	}

	elements := list.Array()
	items := make([]T, 0, len(elements))
	for _, el := range elements {
		item, err := p.decode([]byte(el.Raw))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
