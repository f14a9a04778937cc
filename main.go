/*
main.go

Copyright © 2025 Code Monkey Cybersecurity
Contact: git@cybermonkey.net.au

This file is part of Scribe.

This software is dual-licensed under the Do No Harm License
and the GNU Affero General Public License v3 (AGPL-3.0-or-later).
You may use, modify, and distribute it under the terms of either license.

See LICENSE.agpl and LICENSE.dnh for full details.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/scribe/cmd"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger.InitializeWithFallback()

	shutdown, err := telemetry.Init("scribe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Telemetry disabled: %v\n", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	return cmd.Execute()
}
