package errors

import "errors"

var ErrUnauthorized = errors.New("client is not authorized")

// ErrSourceUnavailable означает, что источник записей не вернул коллекцию;
// отчет в этом случае не собирается.
var ErrSourceUnavailable = errors.New("record source unavailable")

var ErrInvalidDate = errors.New("invalid reference date")
