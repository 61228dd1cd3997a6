package main

import "github.com/OpenTraceLab/OpenTraceBoard/cmd/pcbdoc/cmd"

func main() {
	cmd.Execute()
}
