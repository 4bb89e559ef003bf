// SPDX-License-Identifier: MPL-2.0

// Command hazmat rewrites Go interfaces into implement-only interfaces.
package main

import cmd "github.com/hazmat-go/hazmat/cmd/hazmat"

func main() {
	cmd.Execute()
}
