package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophinvoice/internal/dbx"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, so services can run several of them under one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Messages(db dbx.DBTX) messages.Repository
}
