package bitrix24

import (
	"context"
)

// PageSize is the fixed row count per offset page. It matches the remote
// API's page size and is not configurable.
const PageSize = 50

// Caller issues a single REST invocation. Implemented by the concrete client;
// kept narrow so pagination is testable against a mock.
type Caller interface {
	Call(ctx context.Context, method string, params Params) (*Response, error)
}

// PageIterator steps through the offset pages of one REST method as an
// explicit state machine. State is {method, params, start}; start begins at
// zero unless the caller put a start parameter in params.
//
// Emission order is inverted: pages are requested in ascending offset order,
// but emitted last page first. This preserves the behavior of the original
// recursive implementation, where each recursion level yielded the deeper
// pages before its own. MergePages is insensitive to the order, but callers
// consuming pages directly must not assume natural page order.
//
// An iterator is finite and not restartable; obtain a fresh one per
// traversal.
type PageIterator struct {
	ctx    context.Context
	caller Caller
	method string
	params Params

	primed bool
	pages  []Result
	pos    int
	err    error
}

// NewPageIterator creates an iterator over the offset pages of method.
func NewPageIterator(ctx context.Context, caller Caller, method string, params Params) *PageIterator {
	return &PageIterator{
		ctx:    ctx,
		caller: caller,
		method: method,
		params: params,
		pos:    -1,
	}
}

// prime walks the offset window forward until the envelope stops advertising
// a next page, collecting every page so they can be emitted in reverse.
func (it *PageIterator) prime() {
	if it.primed {
		return
	}

	it.primed = true

	start := 0
	if v, ok := it.params.Get("start"); ok {
		start = asInt(v)
	}

	for {
		resp, err := it.caller.Call(it.ctx, it.method, it.params.Set("start", start))
		if err != nil {
			it.err = err

			return
		}

		page, err := DecodeResult(resp.Result)
		if err != nil {
			it.err = err

			return
		}

		it.pages = append(it.pages, page)

		if !resp.HasNext() || resp.Total <= start {
			break
		}

		start += PageSize
	}

	it.pos = len(it.pages) - 1
}

// HasNext reports whether Next will produce another page (or a pending
// error).
func (it *PageIterator) HasNext() bool {
	it.prime()

	return it.err != nil || it.pos >= 0
}

// Next returns the next page in emission order. After the pages are
// exhausted it returns ErrNoMorePages.
func (it *PageIterator) Next() (Result, error) {
	it.prime()

	if it.err != nil {
		err := it.err
		it.err = nil

		return Result{}, err
	}

	if it.pos < 0 {
		return Result{}, ErrNoMorePages
	}

	page := it.pages[it.pos]
	it.pos--

	return page, nil
}

// All drains the iterator and returns the remaining pages in emission order.
func (it *PageIterator) All() ([]Result, error) {
	var pages []Result

	for it.HasNext() {
		page, err := it.Next()
		if err != nil {
			return nil, err
		}

		pages = append(pages, page)
	}

	return pages, nil
}

// ForEach invokes fn for every remaining page, stopping on the first error.
func (it *PageIterator) ForEach(fn func(Result) error) error {
	for it.HasNext() {
		page, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(page)
		if err != nil {
			return err
		}
	}

	return nil
}

// MergePages drains the iterator and folds the pages into one Result. Object
// pages merge into an accumulating object where later-emitted entries
// overwrite same-key earlier ones; list pages append into an accumulating
// list. The merged object wins if non-empty, then the merged list, then the
// last drained page verbatim — that final fallback covers scalar-returning
// methods.
func MergePages(it *PageIterator) (Result, error) {
	mergedObject := map[string]interface{}{}

	var (
		mergedList []interface{}
		last       Result
	)

	for it.HasNext() {
		page, err := it.Next()
		if err != nil {
			return Result{}, err
		}

		last = page

		switch page.Kind() {
		case ResultObject:
			for k, v := range page.Object() {
				mergedObject[k] = v
			}
		case ResultList:
			mergedList = append(mergedList, page.List()...)
		}
	}

	switch {
	case len(mergedObject) > 0:
		return ObjectResult(mergedObject), nil
	case len(mergedList) > 0:
		return ListResult(mergedList), nil
	default:
		return last, nil
	}
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
