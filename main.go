// SPDX-License-Identifier: MPL-2.0

package main

import cmd "ctlshgen/cmd/ctlshgen"

func main() {
	cmd.Execute()
}
