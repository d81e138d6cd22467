// Command crmlink connects HubSpot CRM accounts over OAuth 2.0 and lists
// their contacts, companies and deals.
package main

import (
	"os"

	"github.com/custodia-labs/crmlink/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
