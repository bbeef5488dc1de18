/*
main.go

Copyright © 2025 Code Monkey Cybersecurity
Contact: git@cybermonkey.net.au

This file is part of pwq.

This software is dual-licensed under the Do No Harm License
and the GNU Affero General Public License v3 (AGPL-3.0-or-later).
You may use, modify, and distribute it under the terms of either license.

See LICENSE.agpl and LICENSE.dnh for full details.
*/
package main

import (
	"github.com/CodeMonkeyCybersecurity/pwq/cmd"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/logger"
)

func main() {
	// console-only until the config is loaded and names the level
	logger.SetLogger(logger.NewFallbackLogger())

	cmd.Execute()
}
