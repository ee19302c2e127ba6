package repository

import "context"

// RepositorySet bundles the component stores bound to one database handle,
// either the shared connection for plain reads or a single transaction.
type RepositorySet interface {
	Files() FileRepository
	Permissions() PermissionRepository
	Quotas() QuotaRepository
	Categories() CategoryRepository
	Versions() VersionRepository
	Backups() BackupRepository
}

// Store is the transactional boundary around registry state. Every
// multi-entity operation runs inside WithTx and appears all-or-nothing to
// every other operation; a returned error rolls back every write made
// through the set.
type Store interface {
	// WithTx runs fn against a repository set bound to one transaction and
	// commits only when fn returns nil.
	WithTx(ctx context.Context, fn func(tx RepositorySet) error) error

	// View returns a repository set for plain reads outside a transaction.
	View() RepositorySet

	Close() error
}
