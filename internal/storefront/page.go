package storefront

import (
	"fmt"
)

// PageState is the outer state of a page
type PageState string

const (
	PageLoading PageState = "loading"
	PageReady   PageState = "ready"
	PageFailed  PageState = "error"
)

// VariantsState tracks the variant fetch nested inside a ready product page
type VariantsState string

const (
	VariantsNone        VariantsState = "none"
	VariantsLoading     VariantsState = "loading"
	VariantsReady       VariantsState = "ready"
	VariantsUnavailable VariantsState = "unavailable"
)

// ErrorKind is the user-visible error category of a page
type ErrorKind string

const (
	ErrorNotFound    ErrorKind = "not_found"
	ErrorFetchFailed ErrorKind = "fetch_failed"
)

// PageError is what an errored page shows: a message and a retry link
type PageError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Retry   string    `json:"retry"`
}

var pageTransitions = map[PageState][]PageState{
	PageLoading: {PageReady, PageFailed},
	PageFailed:  {PageLoading},
}

var variantsTransitions = map[VariantsState][]VariantsState{
	VariantsNone:    {VariantsLoading},
	VariantsLoading: {VariantsReady, VariantsUnavailable},
}

// machine is the page lifecycle: Loading -> Ready | Error, with retry
// restarting an errored page at Loading. The variants machine only runs
// once the page is Ready and never moves the page to Error.
type machine struct {
	page     PageState
	variants VariantsState
}

func newMachine() *machine {
	return &machine{page: PageLoading, variants: VariantsNone}
}

func (m *machine) to(next PageState) error {
	for _, allowed := range pageTransitions[m.page] {
		if allowed == next {
			m.page = next
			if next == PageLoading {
				m.variants = VariantsNone
			}
			return nil
		}
	}
	return fmt.Errorf("invalid page transition %s -> %s", m.page, next)
}

func (m *machine) variantsTo(next VariantsState) error {
	if m.page != PageReady {
		return fmt.Errorf("variants cannot load while page is %s", m.page)
	}
	for _, allowed := range variantsTransitions[m.variants] {
		if allowed == next {
			m.variants = next
			return nil
		}
	}
	return fmt.Errorf("invalid variants transition %s -> %s", m.variants, next)
}
