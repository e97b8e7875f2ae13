// Package vadcache persists voice-activity timelines of media files so a
// reference video is only decoded and analyzed once.
//
// Entries live in a SQLite database inside the cache directory and are
// keyed by the media file's identity (path, size, modification time) plus
// the analysis parameters. Schema creation and writes are serialized across
// processes with a lock file next to the database. The cache is disposable:
// a database with an unexpected schema version is rebuilt.
package vadcache
