// Package api handles incoming HTTP requests and response formatting. Its
// handlers read the OData options that the middleware parsed into the
// request context, call the application services, and render the result as
// JSON, JSONP or XML depending on $format and $callback.
package api
