package main

import "github.com/crisis-detection/threshold-tuner/internal/cmd"

func main() {
	cmd.Execute()
}
