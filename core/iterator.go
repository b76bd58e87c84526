package core

import (
	"context"
	"fmt"
	"strings"
)

// ######################################################
//              ITERATOR INTERFACES
// ######################################################

// Iterator walks a paginated collection using the Next/Previous continuations
// attached to each ListResult. The sequence is finite (it stops when no cursor
// is advertised) and restartable (Reset replays the first call).
type Iterator interface {
	// Next fetches the first page on the first call and the following page afterwards.
	// Returns an empty RecordSet when there are no more pages.
	Next(ctx context.Context) (RecordSet, error)

	// Previous moves to the previous page.
	// Returns an empty RecordSet when there is no previous page.
	Previous(ctx context.Context) (RecordSet, error)

	HasNext() bool
	HasPrevious() bool

	// PageSize returns the `limit` sent with each request, 0 if none.
	PageSize() int

	// Reset returns to the first page and fetches it again.
	Reset(ctx context.Context) (RecordSet, error)

	// All fetches all remaining pages and returns all records as a single RecordSet.
	// This should be used with caution for large collections.
	All(ctx context.Context) (RecordSet, error)
}

// ######################################################
//              PAGE ITERATOR IMPLEMENTATION
// ######################################################

// PageIterator implements Iterator over an ApiCall.
type PageIterator struct {
	first    *ApiCall
	pageSize int

	current     RecordSet
	next        *ApiCall
	previous    *ApiCall
	currentPage int
	err         error
	initialized bool
}

// NewPageIterator creates an iterator starting at call. When pageSize > 0 and the
// call has no `limit` yet, it is added as a query parameter.
func NewPageIterator(call *ApiCall, pageSize int) *PageIterator {
	if pageSize > 0 {
		if _, exists := call.uriArgs[limitKey]; !exists {
			call = call.Query(Params{limitKey: pageSize})
		}
	}
	return &PageIterator{first: call.WithExtractItems(true), pageSize: pageSize}
}

// fetchPage executes call and stores the page with its continuations.
func (it *PageIterator) fetchPage(ctx context.Context, call *ApiCall) error {
	result, err := call.Get(ctx)
	if err != nil {
		return err
	}
	switch typed := result.(type) {
	case *ListResult:
		if apiErr := typed.AsError(); apiErr != nil {
			return apiErr
		}
		it.current = typed.Items
		it.next = typed.Next()
		it.previous = typed.Previous()
		// A continuation identical to the request would repeat this page forever.
		if it.next != nil && it.next.Equal(call) {
			it.next = nil
		}
		if it.previous != nil && it.previous.Equal(call) {
			it.previous = nil
		}
		return nil
	case *RecordResult:
		if apiErr := typed.AsError(); apiErr != nil {
			return apiErr
		}
		// Not a collection - treat the record itself as the only page.
		it.current = RecordSet{typed.Record}
		it.next = nil
		it.previous = nil
		return nil
	case *MalformedResult:
		return typed.Err
	}
	return fmt.Errorf("unexpected response type: %T", result)
}

// Next advances to the next page and returns the records and any error.
func (it *PageIterator) Next(ctx context.Context) (RecordSet, error) {
	if !it.initialized {
		it.err = it.fetchPage(ctx, it.first)
		it.initialized = true
		if it.err != nil {
			return RecordSet{}, it.err
		}
		return it.current, nil
	}

	if !it.HasNext() {
		return RecordSet{}, nil
	}

	it.err = it.fetchPage(ctx, it.next)
	if it.err != nil {
		return RecordSet{}, it.err
	}

	it.currentPage++
	return it.current, nil
}

// Previous moves to the previous page and returns the records and any error.
func (it *PageIterator) Previous(ctx context.Context) (RecordSet, error) {
	if !it.initialized {
		it.err = fmt.Errorf("iterator not initialized, call Next() first")
		return RecordSet{}, it.err
	}

	if !it.HasPrevious() {
		return RecordSet{}, nil
	}

	it.err = it.fetchPage(ctx, it.previous)
	if it.err != nil {
		return RecordSet{}, it.err
	}

	it.currentPage--
	return it.current, nil
}

// HasNext returns true if there is a next page.
func (it *PageIterator) HasNext() bool {
	if !it.initialized {
		return true
	}
	return it.err == nil && it.next != nil
}

// HasPrevious returns true if there is a previous page.
func (it *PageIterator) HasPrevious() bool {
	if !it.initialized {
		return false
	}
	return it.err == nil && it.previous != nil
}

// PageSize returns the page size.
func (it *PageIterator) PageSize() int {
	return it.pageSize
}

// String returns a formatted string representation of the iterator state.
func (it *PageIterator) String() string {
	var sb strings.Builder

	sb.WriteString("PageIterator {\n")
	sb.WriteString(fmt.Sprintf("  Initialized:   %v\n", it.initialized))
	sb.WriteString(fmt.Sprintf("  Current Page:  %d\n", it.currentPage))
	sb.WriteString(fmt.Sprintf("  Page Size:     %d\n", it.pageSize))

	if len(it.current) > 0 {
		sb.WriteString(fmt.Sprintf("  Current:       [... (%d items)]\n", len(it.current)))
	} else {
		sb.WriteString("  Current:       []\n")
	}

	if it.next != nil {
		sb.WriteString(fmt.Sprintf("  Next:          %s\n", it.next))
	} else {
		sb.WriteString("  Next:          <none>\n")
	}

	if it.previous != nil {
		sb.WriteString(fmt.Sprintf("  Previous:      %s\n", it.previous))
	} else {
		sb.WriteString("  Previous:      <none>\n")
	}

	if it.err != nil {
		sb.WriteString(fmt.Sprintf("  Error:         %v\n", it.err))
	}

	sb.WriteString("}")
	return sb.String()
}

// Reset resets the iterator to the first page and returns the first page records.
func (it *PageIterator) Reset(ctx context.Context) (RecordSet, error) {
	it.initialized = false
	it.current = nil
	it.next = nil
	it.previous = nil
	it.currentPage = 0
	it.err = nil

	return it.Next(ctx)
}

// All fetches all pages and returns all records.
func (it *PageIterator) All(ctx context.Context) (RecordSet, error) {
	var allRecords RecordSet

	if !it.initialized {
		records, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		allRecords = append(allRecords, records...)
	} else {
		allRecords = append(allRecords, it.current...)
	}

	for it.HasNext() {
		records, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		allRecords = append(allRecords, records...)
	}

	return allRecords, nil
}
