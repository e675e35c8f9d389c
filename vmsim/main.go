// Command vmsim simulates page replacement policies on memory traces.
package main

import "github.com/sarchlab/vmsim/vmsim/cmd"

func main() {
	cmd.Execute()
}
