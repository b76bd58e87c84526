package core

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"
)

//go:embed version
var clientVersion string

// ClientVersion returns the released version of this client.
func ClientVersion() string {
	return strings.TrimSpace(clientVersion)
}

// defaultUserAgent identifies the client, its version and the host platform.
func defaultUserAgent() string {
	return fmt.Sprintf(
		"go-coc-client-%s,os:%s,arch:%s",
		ClientVersion(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
