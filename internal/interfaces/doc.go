// Package interfaces holds compile-time checks that the concrete sync
// components satisfy the interfaces their consumers declare.
//
// Consumers declare the narrow interface they need next to their code:
//
//   - mediator.Source, mediator.Transactor, mediator.Loader: the sync engine
//   - http.Catalog, http.ProductSearch, http.TaskQueue, http.EventStore: the HTTP surface
//   - tasks.Loaders, tasks.SyncEventCleaner: background queue processors
//   - scheduler.Refresher, scheduler.StatusStore: the refresh scheduler
//   - cli.EntityLoader, cli.EntityBrowser, cli.CursorLister, cli.SettingsWriter: CLI commands
//   - remote.CredentialProvider, remote.SettingsReader: API authentication
//
// The catalog package provides the single implementation shared by the
// server, the queue and the CLI.
package interfaces
