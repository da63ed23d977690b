package main

import "github.com/klarkurs/mpu-platform/cmd"

func main() {
	cmd.Execute()
}
