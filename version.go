package parley

// Version is the library version. Overridable at build time with
// -ldflags "-X github.com/parley-dev/parley.Version=v1.2.3".
var Version = "0.1.0-dev"
