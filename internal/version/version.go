// Package version is stamped at build time:
//
//	go build -ldflags "-X seqtree/internal/version.Version=1.2.3"
package version

var Version = "0.1.0-dev"
