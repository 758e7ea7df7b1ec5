package extract

import "errors"

// Extraction failure kinds. Library errors never escape this package unwrapped by one of these.
var (
	ErrEmptyDocument         = errors.New("file is empty or could not be read")
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrMalformedDocument     = errors.New("malformed document")
	ErrInsufficientOrCorrupt = errors.New("PDF text extraction failed. File may be image-based, encrypted, or corrupted")
	ErrInsufficientText      = errors.New("insufficient text in document")
)
