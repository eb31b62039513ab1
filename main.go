// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/modrepo/cmd/modrepo"

func main() {
	cmd.Execute()
}
