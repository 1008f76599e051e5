// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/declcli/cmd/declcli"

func main() {
	cmd.Execute()
}
