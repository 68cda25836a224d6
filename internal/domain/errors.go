package domain

import "errors"

// Error taxonomy shared by the bundler, the cache and the loaders. Callers
// classify failures with errors.Is; the wrapping message names the offending
// file or call.
var (
	// ErrSourceRead means a declared input file or directory is missing or unreadable.
	ErrSourceRead = errors.New("schema source unreadable")
	// ErrParse means a document is not well-formed JSON.
	ErrParse = errors.New("schema document malformed")
	// ErrLookup means a manifest entry has no matching bundle key.
	ErrLookup = errors.New("schema not found in bundle")
	// ErrSchemaShape means a schema subtree cannot be turned into a composite type.
	ErrSchemaShape = errors.New("unsupported schema shape")
	// ErrDuplicateTypeName means two generated types ended up with the same name.
	ErrDuplicateTypeName = errors.New("duplicate type name")
)
