package repository

import "context"

// UnitOfWork runs fn inside a single transaction. Repositories called with
// the context handed to fn take part in that transaction; a non-nil error
// from fn rolls everything back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
