package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/journal-api/internal/apperror"
)

const internalMessage = "Internal server error"

// resolverError is what resolvers hand back to the engine. graphql-go
// copies Extensions() into the "extensions" member of the error entry.
type resolverError struct {
	message string
	code    apperror.Code
	fields  []apperror.FieldError
}

func (e *resolverError) Error() string {
	return e.message
}

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.code)}
	if len(e.fields) > 0 {
		ext["fields"] = e.fields
	}
	return ext
}

// toResolverError converts a use-case error for the client. Anything that
// is not a known kind is logged and replaced by a generic message.
func (r *Resolver) toResolverError(ctx context.Context, op string, err error) error {
	code := apperror.CodeOf(err)

	var appErr *apperror.AppError
	if code == apperror.CodeInternal || !errors.As(err, &appErr) {
		r.logger.ErrorContext(ctx, "operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		appErr = apperror.Internal(internalMessage)
		code = apperror.CodeInternal
	}

	return &resolverError{
		message: appErr.Message,
		code:    code,
		fields:  appErr.Fields,
	}
}
