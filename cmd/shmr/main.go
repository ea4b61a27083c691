package main

import "github.com/Andrew-Robertson/make-SHMR-datasets/cmd/shmr/cmd"

func main() {
	cmd.Execute()
}
