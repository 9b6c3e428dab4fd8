// SPDX-License-Identifier: MPL-2.0

package main

import cmd "recipe-cli/cmd/recipe"

func main() {
	cmd.Execute()
}
