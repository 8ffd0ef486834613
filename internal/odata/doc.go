// Package odata parses the OData-style system query options a client can put on
// a collection request ($filter, $orderby, $select, $skip, $top, $count,
// $maxpagesize, $format and $callback) into a typed Query value.
//
// Parsing is fail-fast: the first unsupported option or invalid value aborts the
// whole parse and becomes the only result. Keys that do not start with "$" are
// ignored. Parse is a pure function and is safe for concurrent use.
package odata
