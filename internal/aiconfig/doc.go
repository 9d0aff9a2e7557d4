// Package aiconfig persists the text-model configuration (access token,
// auto-load flag, cache override, last load time, download preferences) as
// one JSON document in the per-user application config directory.
//
// The access token is stored base64-encoded. That is a reversible encoding,
// not encryption: anyone who can read the file can recover the token. It is
// acceptable for a local, single-user tool; anything else needs a real
// secret store (OS keychain or similar) in front of SetToken/GetToken.
//
// The Store holds no locks across calls. Concurrent Save calls are
// last-write-wins.
package aiconfig
