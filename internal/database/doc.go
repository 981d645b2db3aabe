// Package database provides the SQLite export archive of panelkit.
//
// Every finished annotation run can be archived as one export row plus one
// row per image. The archive is write-mostly history: it can be listed and
// inspected, but a session is never restored from it.
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver, so the
// archive is a single file under the data directory.
package database
