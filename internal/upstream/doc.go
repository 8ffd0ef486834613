// Package upstream turns failed calls to downstream HTTP services into errors
// carrying a readable message and the status code to propagate.
//
// Downstream services disagree on how to describe a failure: some send a bare
// string, some {"error": ...}, some {"Message", "MessageDetail"}, others a
// JSON:API style {"data": {"errors": ...}} document. TranslateBody knows all
// of these shapes.
package upstream
