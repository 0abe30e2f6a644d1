package syllabus

import "errors"

var (
	// ErrExtractionFailed covers transport failures and non-2xx responses
	// from the extraction service. These surface to the caller; a failed
	// call is a failed operation, never retried here.
	ErrExtractionFailed = errors.New("syllabus: extraction request failed")

	// ErrBadDate marks an extracted item whose date field parses as no
	// recognized date or datetime form.
	ErrBadDate = errors.New("syllabus: unparseable item date")
)
